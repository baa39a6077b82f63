package h265

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ugparu/mediaprobe/codec"
	"github.com/ugparu/mediaprobe/utils"
	"github.com/ugparu/mediaprobe/utils/bits"
)

// escapeRBSP inserts emulation prevention bytes so synthetic payloads
// survive the unescape step unchanged.
func escapeRBSP(b []byte) []byte {
	out := make([]byte, 0, len(b))
	zeros := 0
	for _, c := range b {
		if zeros >= 2 && c <= 3 {
			out = append(out, 3)
			zeros = 0
		}
		out = append(out, c)
		if c == 0 {
			zeros++
		} else {
			zeros = 0
		}
	}
	return out
}

type spsFields struct {
	profile      uint
	level        uint
	chromaFormat uint
	width        uint
	height       uint
	bitDepthM8   uint
	vui          func(w *bits.Writer)
}

// buildSPS assembles a single-layer SPS NAL unit (2-byte header included).
func buildSPS(f spsFields) []byte {
	w := bits.NewWriter()
	w.WriteBits(0, 4) // sps_video_parameter_set_id
	w.WriteBits(0, 3) // sps_max_sub_layers_minus1
	w.WriteBit(1)     // sps_temporal_id_nesting_flag

	// profile_tier_level for one layer
	w.WriteBits(0, 2)                 // general_profile_space
	w.WriteBit(0)                     // general_tier_flag
	w.WriteBits(uint64(f.profile), 5) // general_profile_idc
	w.WriteBits(1<<30, 32)            // general_profile_compatibility_flags
	w.WriteBits(0, 48)                // general_constraint_indicator_flags
	w.WriteBits(uint64(f.level), 8)   // general_level_idc

	w.WriteUE(0) // sps_seq_parameter_set_id
	w.WriteUE(f.chromaFormat)
	if f.chromaFormat == chromaFormat444 {
		w.WriteBit(0) // separate_colour_plane_flag
	}
	w.WriteUE(f.width)
	w.WriteUE(f.height)
	w.WriteBit(0) // conformance_window_flag
	w.WriteUE(f.bitDepthM8)
	w.WriteUE(f.bitDepthM8)
	w.WriteUE(4)  // log2_max_pic_order_cnt_lsb_minus4
	w.WriteBit(1) // sps_sub_layer_ordering_info_present_flag
	w.WriteUE(3)  // sps_max_dec_pic_buffering_minus1
	w.WriteUE(0)  // sps_max_num_reorder_pics
	w.WriteUE(0)  // sps_max_latency_increase_plus1
	for i := 0; i < 6; i++ {
		// coding block and transform size fields
		w.WriteUE(0)
	}
	w.WriteBit(0)     // scaling_list_enabled_flag
	w.WriteBits(0, 2) // amp, sao
	w.WriteBit(0)     // pcm_enabled_flag
	w.WriteUE(0)      // num_short_term_ref_pic_sets
	w.WriteBit(0)     // long_term_ref_pics_present_flag
	w.WriteBits(0, 2) // temporal mvp, strong intra smoothing
	if f.vui != nil {
		w.WriteBit(1)
		f.vui(w)
	} else {
		w.WriteBit(0)
	}
	w.WriteBit(1) // rbsp stop bit
	for w.Len()%8 != 0 {
		w.WriteBit(0)
	}

	header := []byte{byte(NalUnitSps << NaluTypeShift), 0x01}
	return append(header, escapeRBSP(w.Bytes())...)
}

func TestParseSPS_Main(t *testing.T) {
	t.Parallel()

	nalu := buildSPS(spsFields{
		profile:      1,
		level:        120,
		chromaFormat: chromaFormat420,
		width:        1920,
		height:       1080,
	})
	par, err := ParseSPS(nalu)
	require.NoError(t, err)
	require.Equal(t, uint(1920), par.Width)
	require.Equal(t, uint(1080), par.Height)
	require.Equal(t, 1, par.Profile)
	require.Equal(t, 120, par.Level)
	require.Equal(t, codec.YUV420P, par.PixelFormat)
}

func TestParseSPS_Main10(t *testing.T) {
	t.Parallel()

	nalu := buildSPS(spsFields{
		profile:      2,
		level:        123,
		chromaFormat: chromaFormat420,
		width:        3840,
		height:       2160,
		bitDepthM8:   2,
	})
	par, err := ParseSPS(nalu)
	require.NoError(t, err)
	require.Equal(t, uint(3840), par.Width)
	require.Equal(t, uint(2160), par.Height)
	require.Equal(t, codec.YUV420P10, par.PixelFormat)
}

func TestParseSPS_Chroma444(t *testing.T) {
	t.Parallel()

	nalu := buildSPS(spsFields{
		profile:      4,
		level:        120,
		chromaFormat: chromaFormat444,
		width:        640,
		height:       480,
	})
	par, err := ParseSPS(nalu)
	require.NoError(t, err)
	require.Equal(t, codec.YUV444P, par.PixelFormat)
}

func TestParseSPS_VUI(t *testing.T) {
	t.Parallel()

	nalu := buildSPS(spsFields{
		profile:      1,
		level:        120,
		chromaFormat: chromaFormat420,
		width:        1280,
		height:       720,
		vui: func(w *bits.Writer) {
			w.WriteBit(1)     // aspect_ratio_info_present_flag
			w.WriteBits(1, 8) // square pixels
			w.WriteBit(0)     // overscan_info_present_flag
			w.WriteBit(1)     // video_signal_type_present_flag
			w.WriteBits(5, 3)
			w.WriteBit(0) // limited range
			w.WriteBit(1) // colour_description_present_flag
			w.WriteBits(9, 8)
			w.WriteBits(16, 8)
			w.WriteBits(9, 8)
			w.WriteBit(0)     // chroma_loc_info_present_flag
			w.WriteBits(0, 3) // neutral chroma, field seq, frame field info
			w.WriteBit(0)     // default_display_window_flag
			w.WriteBit(1)     // vui_timing_info_present_flag
			w.WriteBits(1000, 32)
			w.WriteBits(30000, 32)
		},
	})

	par, err := ParseSPS(nalu)
	require.NoError(t, err)
	require.Equal(t, codec.Rational{Num: 1, Den: 1}, par.SAR)
	require.Equal(t, codec.ColorRangeLimited, par.ColorRange)
	require.Equal(t, uint8(9), par.ColorPrimaries)
	require.Equal(t, uint8(16), par.ColorTransfer)
	require.Equal(t, uint8(9), par.ColorMatrix)
	require.Equal(t, codec.Rational{Num: 30000, Den: 1000}, par.FrameRate)
}

func TestParseSPS_BadChromaFormat(t *testing.T) {
	t.Parallel()

	nalu := buildSPS(spsFields{
		profile:      1,
		level:        120,
		chromaFormat: 4,
		width:        1920,
		height:       1080,
	})
	_, err := ParseSPS(nalu)
	require.ErrorIs(t, err, utils.InvalidDataError{})
}

func TestParseSPS_Truncated(t *testing.T) {
	t.Parallel()

	_, err := ParseSPS([]byte{0x42, 0x01})
	require.ErrorIs(t, err, utils.TruncatedError{})
}

func TestParseSPS_TruncationSweep(t *testing.T) {
	t.Parallel()

	nalu := buildSPS(spsFields{
		profile:      1,
		level:        120,
		chromaFormat: chromaFormat420,
		width:        1920,
		height:       1080,
	})
	for size := 0; size < len(nalu); size++ {
		par, err := ParseSPS(nalu[:size])
		if err == nil {
			require.Equal(t, uint(1920), par.Width)
			require.Equal(t, uint(1080), par.Height)
		}
	}
}
