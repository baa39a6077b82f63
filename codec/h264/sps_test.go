package h264

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ugparu/mediaprobe/codec"
	"github.com/ugparu/mediaprobe/utils"
	"github.com/ugparu/mediaprobe/utils/bits"
)

// escapeRBSP inserts emulation prevention bytes the way an encoder would,
// so synthetic payloads survive the unescape step unchanged.
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
	profile        uint
	level          uint
	mbWidthMinus1  uint
	mapUnitsMinus1 uint
	cropping       bool
	cropLeft       uint // in crop units
	cropRight      uint
	cropTop        uint
	cropBottom     uint
	vui            func(w *bits.Writer)
}

// buildSPS assembles a baseline-profile SPS NAL unit around the fields the
// parser reports.
func buildSPS(f spsFields) []byte {
	w := bits.NewWriter()
	w.WriteBits(uint64(f.profile), 8)
	w.WriteBits(0, 8) // constraint flags + reserved
	w.WriteBits(uint64(f.level), 8)
	w.WriteUE(0) // seq_parameter_set_id
	w.WriteUE(0) // log2_max_frame_num_minus4
	w.WriteUE(0) // pic_order_cnt_type
	w.WriteUE(0) // log2_max_pic_order_cnt_lsb_minus4
	w.WriteUE(1) // max_num_ref_frames
	w.WriteBit(0)
	w.WriteUE(f.mbWidthMinus1)
	w.WriteUE(f.mapUnitsMinus1)
	w.WriteBit(1) // frame_mbs_only_flag
	w.WriteBit(1) // direct_8x8_inference_flag
	if f.cropping {
		w.WriteBit(1)
		w.WriteUE(f.cropLeft)
		w.WriteUE(f.cropRight)
		w.WriteUE(f.cropTop)
		w.WriteUE(f.cropBottom)
	} else {
		w.WriteBit(0)
	}
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
	return append([]byte{0x67}, escapeRBSP(w.Bytes())...)
}

func TestParseSPS_Baseline(t *testing.T) {
	t.Parallel()

	nalu := buildSPS(spsFields{
		profile:        66,
		level:          30,
		mbWidthMinus1:  19,
		mapUnitsMinus1: 11,
	})
	par, err := ParseSPS(nalu)
	require.NoError(t, err)
	require.Equal(t, uint(320), par.Width)
	require.Equal(t, uint(192), par.Height)
	require.Equal(t, 66, par.Profile)
	require.Equal(t, 30, par.Level)
	require.Equal(t, codec.YUV420P, par.PixelFormat)
	require.False(t, par.SAR.IsSet())
	require.False(t, par.FrameRate.IsSet())
}

func TestParseSPS_Cropping(t *testing.T) {
	t.Parallel()

	// 20x12 macroblocks with 8 px cropped right and 16 px cropped bottom.
	// Crop units for 4:2:0 frame coding are 2 horizontally, 4 vertically.
	nalu := buildSPS(spsFields{
		profile:        66,
		level:          31,
		mbWidthMinus1:  19,
		mapUnitsMinus1: 11,
		cropping:       true,
		cropRight:      4,
		cropBottom:     4,
	})
	par, err := ParseSPS(nalu)
	require.NoError(t, err)
	require.Equal(t, uint(312), par.Width)
	require.Equal(t, uint(176), par.Height)
}

func TestParseSPS_CropConsumesFrame(t *testing.T) {
	t.Parallel()

	// crop offsets that erase the whole frame are corrupt, not a 0x0 frame
	nalu := buildSPS(spsFields{
		profile:        66,
		level:          30,
		mbWidthMinus1:  0,
		mapUnitsMinus1: 0,
		cropping:       true,
		cropLeft:       4,
		cropRight:      4,
	})
	_, err := ParseSPS(nalu)
	require.ErrorIs(t, err, utils.InvalidDataError{})
}

func TestParseSPS_VUI(t *testing.T) {
	t.Parallel()

	nalu := buildSPS(spsFields{
		profile:        66,
		level:          40,
		mbWidthMinus1:  119,
		mapUnitsMinus1: 67,
		vui: func(w *bits.Writer) {
			w.WriteBit(1)        // aspect_ratio_info_present_flag
			w.WriteBits(255, 8)  // extended SAR
			w.WriteBits(4, 16)
			w.WriteBits(3, 16)
			w.WriteBit(0) // overscan_info_present_flag
			w.WriteBit(1) // video_signal_type_present_flag
			w.WriteBits(5, 3)
			w.WriteBit(1) // full range
			w.WriteBit(1) // colour_description_present_flag
			w.WriteBits(1, 8)
			w.WriteBits(1, 8)
			w.WriteBits(1, 8)
			w.WriteBit(1) // chroma_loc_info_present_flag
			w.WriteUE(0)
			w.WriteUE(0)
			w.WriteBit(1) // timing_info_present_flag
			w.WriteBits(1, 32)  // num_units_in_tick
			w.WriteBits(50, 32) // time_scale
			w.WriteBit(1)       // fixed_frame_rate_flag
			w.WriteBit(1)       // nal_hrd_parameters_present_flag
			w.WriteUE(0)        // cpb_cnt_minus1
			w.WriteBits(0, 4)   // bit_rate_scale
			w.WriteBits(0, 4)   // cpb_size_scale
			w.WriteUE(1249)     // bit_rate_value_minus1
			w.WriteUE(0)        // cpb_size_value_minus1
			w.WriteBit(0)       // cbr_flag
			w.WriteBits(0, 20)  // delay lengths + time offset length
			w.WriteBit(0)       // vcl_hrd_parameters_present_flag
		},
	})

	par, err := ParseSPS(nalu)
	require.NoError(t, err)
	require.Equal(t, uint(1920), par.Width)
	require.Equal(t, uint(1088), par.Height)
	require.Equal(t, codec.Rational{Num: 4, Den: 3}, par.SAR)
	require.Equal(t, codec.ColorRangeFull, par.ColorRange)
	require.Equal(t, uint8(1), par.ColorPrimaries)
	require.Equal(t, uint8(1), par.ColorTransfer)
	require.Equal(t, uint8(1), par.ColorMatrix)
	require.Equal(t, codec.ChromaLocLeft, par.ChromaLocation)
	// two fields per frame: 50 ticks/s over 1-tick fields is 25 fps
	require.Equal(t, codec.Rational{Num: 50, Den: 2}, par.FrameRate)
	require.Equal(t, uint(80000), par.BitRate)
}

func TestParseSPS_HighProfile10Bit(t *testing.T) {
	t.Parallel()

	w := bits.NewWriter()
	w.WriteBits(100, 8) // High profile
	w.WriteBits(0, 8)
	w.WriteBits(41, 8)
	w.WriteUE(0)  // seq_parameter_set_id
	w.WriteUE(1)  // chroma_format_idc 4:2:0
	w.WriteUE(2)  // bit_depth_luma_minus8
	w.WriteUE(2)  // bit_depth_chroma_minus8
	w.WriteBit(0) // qpprime_y_zero_transform_bypass_flag
	w.WriteBit(0) // seq_scaling_matrix_present_flag
	w.WriteUE(0)  // log2_max_frame_num_minus4
	w.WriteUE(0)  // pic_order_cnt_type
	w.WriteUE(0)  // log2_max_pic_order_cnt_lsb_minus4
	w.WriteUE(1)  // max_num_ref_frames
	w.WriteBit(0)
	w.WriteUE(79) // 1280
	w.WriteUE(44) // 720
	w.WriteBit(1) // frame_mbs_only_flag
	w.WriteBit(1) // direct_8x8_inference_flag
	w.WriteBit(0) // frame_cropping_flag
	w.WriteBit(0) // vui_parameters_present_flag
	w.WriteBit(1)
	for w.Len()%8 != 0 {
		w.WriteBit(0)
	}
	nalu := append([]byte{0x67}, escapeRBSP(w.Bytes())...)

	par, err := ParseSPS(nalu)
	require.NoError(t, err)
	require.Equal(t, uint(1280), par.Width)
	require.Equal(t, uint(720), par.Height)
	require.Equal(t, 100, par.Profile)
	require.Equal(t, codec.YUV420P10, par.PixelFormat)
}

func TestParseSPS_Truncated(t *testing.T) {
	t.Parallel()

	_, err := ParseSPS([]byte{0x67, 0x42})
	require.ErrorIs(t, err, utils.TruncatedError{})
}

func TestParseSPS_TruncationSweep(t *testing.T) {
	t.Parallel()

	nalu := buildSPS(spsFields{
		profile:        66,
		level:          30,
		mbWidthMinus1:  19,
		mapUnitsMinus1: 11,
		cropping:       true,
		cropRight:      4,
		cropBottom:     4,
	})
	for size := 0; size < len(nalu); size++ {
		par, err := ParseSPS(nalu[:size])
		if err == nil {
			// a prefix that still parses must report the same geometry
			require.Equal(t, uint(312), par.Width)
			require.Equal(t, uint(176), par.Height)
		}
	}
}
