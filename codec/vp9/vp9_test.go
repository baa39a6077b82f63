package vp9

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ugparu/mediaprobe/codec"
	"github.com/ugparu/mediaprobe/utils"
	"github.com/ugparu/mediaprobe/utils/bits"
)

type frameFields struct {
	profile    uint64
	colorSpace uint64
	fullRange  uint64
	width      uint64
	height     uint64
}

// buildKeyframe assembles a VP9 uncompressed keyframe header.
func buildKeyframe(f frameFields) []byte {
	w := bits.NewWriter()
	w.WriteBits(2, 2)          // frame_marker
	w.WriteBits(f.profile, 2)  // profile low/high bits
	w.WriteBit(0)              // show_existing_frame
	w.WriteBit(0)              // frame_type: key
	w.WriteBit(1)              // show_frame
	w.WriteBit(0)              // error_resilient_mode
	w.WriteBits(0x498342, 24)  // sync code
	w.WriteBits(f.colorSpace, 3)
	w.WriteBits(f.fullRange, 1)
	w.WriteBits(0, 8) // refresh frame flags
	w.WriteBits(f.width-1, 16)
	w.WriteBits(f.height-1, 16)
	return w.Bytes()
}

func TestParseFrameHeader_Keyframe(t *testing.T) {
	t.Parallel()

	par, err := ParseFrameHeader(buildKeyframe(frameFields{
		profile:    0,
		colorSpace: 2, // BT.709
		fullRange:  0,
		width:      1920,
		height:     1080,
	}))
	require.NoError(t, err)
	require.Equal(t, uint(1920), par.Width)
	require.Equal(t, uint(1080), par.Height)
	require.Equal(t, 0, par.Profile)
	require.Equal(t, uint8(2), par.ColorMatrix)
	require.Equal(t, codec.ColorRangeLimited, par.ColorRange)
	require.Equal(t, codec.YUV420P, par.PixelFormat)
}

func TestParseFrameHeader_FullRange(t *testing.T) {
	t.Parallel()

	par, err := ParseFrameHeader(buildKeyframe(frameFields{
		profile:    0,
		colorSpace: 1,
		fullRange:  1,
		width:      640,
		height:     360,
	}))
	require.NoError(t, err)
	require.Equal(t, codec.ColorRangeFull, par.ColorRange)
}

func TestParseFrameHeader_InterFrame(t *testing.T) {
	t.Parallel()

	w := bits.NewWriter()
	w.WriteBits(2, 2) // frame_marker
	w.WriteBits(0, 2) // profile
	w.WriteBit(0)     // show_existing_frame
	w.WriteBit(1)     // frame_type: inter
	w.WriteBit(1)     // show_frame
	w.WriteBit(0)     // error_resilient_mode
	frame := append(w.Bytes(), make([]byte, 12)...)

	par, err := ParseFrameHeader(frame)
	require.ErrorIs(t, err, utils.TryAgainError{})
	require.False(t, par.HasDimensions())
}

func TestParseFrameHeader_ShowExisting(t *testing.T) {
	t.Parallel()

	w := bits.NewWriter()
	w.WriteBits(2, 2) // frame_marker
	w.WriteBits(0, 2) // profile
	w.WriteBit(1)     // show_existing_frame
	frame := append(w.Bytes(), make([]byte, 12)...)

	_, err := ParseFrameHeader(frame)
	require.ErrorIs(t, err, utils.TryAgainError{})
}

func TestParseFrameHeader_BadMarker(t *testing.T) {
	t.Parallel()

	frame := buildKeyframe(frameFields{profile: 0, colorSpace: 2, fullRange: 0, width: 640, height: 360})
	frame[0] = 0x00
	_, err := ParseFrameHeader(frame)
	require.ErrorIs(t, err, utils.BadSyncError{})
}

func TestParseFrameHeader_BadSyncCode(t *testing.T) {
	t.Parallel()

	frame := buildKeyframe(frameFields{profile: 0, colorSpace: 2, fullRange: 0, width: 640, height: 360})
	frame[2] ^= 0xff
	_, err := ParseFrameHeader(frame)
	require.ErrorIs(t, err, utils.BadSyncError{})
}

func TestParseFrameHeader_RGBDeclined(t *testing.T) {
	t.Parallel()

	par, err := ParseFrameHeader(buildKeyframe(frameFields{
		profile:    1,
		colorSpace: 7, // CS_RGB
		fullRange:  1,
		width:      640,
		height:     360,
	}))
	require.ErrorIs(t, err, utils.UnimplementedError{})
	require.False(t, par.HasDimensions())
	require.Zero(t, par.ColorMatrix)
}

func TestParseFrameHeader_Truncated(t *testing.T) {
	t.Parallel()

	frame := buildKeyframe(frameFields{profile: 0, colorSpace: 2, fullRange: 0, width: 1920, height: 1080})
	for size := 0; size < len(frame); size++ {
		_, err := ParseFrameHeader(frame[:size])
		require.Error(t, err)
	}
}
