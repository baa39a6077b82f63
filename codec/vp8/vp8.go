// Package vp8 parses the VP8 keyframe header (RFC 6386 §9.1). Dimensions
// only appear on keyframes; an inter frame is a "try again" outcome, not a
// failure.
package vp8

import (
	"github.com/ugparu/mediaprobe/codec"
	"github.com/ugparu/mediaprobe/utils"
	"github.com/ugparu/mediaprobe/utils/bits/pio"
)

// minHeaderSize covers the 3-byte frame tag, 3 sync bytes and two 16-bit
// dimension fields.
const minHeaderSize = 10

// Sync bytes following the frame tag on a keyframe.
const (
	syncByte0 = 0x9d
	syncByte1 = 0x01
	syncByte2 = 0x2a
)

// dimensionMask keeps the 14 dimension bits; the top 2 bits of each field
// are a scaling hint this parser deliberately ignores.
const dimensionMask = 0x3fff

// ParseFrameHeader decodes the uncompressed chunk of a VP8 frame. On a
// keyframe it returns the frame geometry (dimensions are coded minus one,
// little-endian); on an inter frame it returns TryAgainError.
func ParseFrameHeader(frame []byte) (par codec.Parameters, err error) {
	par = codec.NewParameters()
	if len(frame) < minHeaderSize {
		return par, utils.TruncatedError{}
	}

	// Bit 0 of the frame tag: 0 = keyframe, 1 = inter frame.
	if frame[0]&1 != 0 {
		return par, utils.TryAgainError{}
	}

	if frame[3] != syncByte0 || frame[4] != syncByte1 || frame[5] != syncByte2 {
		return par, utils.BadSyncError{}
	}

	par.Width = uint(pio.U16LE(frame[6:])&dimensionMask) + 1
	par.Height = uint(pio.U16LE(frame[8:])&dimensionMask) + 1
	par.PixelFormat = codec.YUV420P

	return par, nil
}

// IsKeyFrame reports whether the frame tag marks a keyframe.
func IsKeyFrame(frame []byte) bool {
	return len(frame) > 0 && frame[0]&1 == 0
}
