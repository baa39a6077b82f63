// Package vp9 parses the VP9 uncompressed frame header far enough to pull
// profile, color information and frame geometry off a keyframe. Inter frames
// and show-existing frames carry no dimensions and are "try again" outcomes.
package vp9

import (
	"github.com/ugparu/mediaprobe/codec"
	"github.com/ugparu/mediaprobe/utils"
	"github.com/ugparu/mediaprobe/utils/bits"
)

// maxScanBytes caps the scanned prefix; everything this parser reads sits
// well inside it, and the cap bounds cost on hostile input.
const maxScanBytes = 32

// minHeaderSize is the smallest buffer worth inspecting.
const minHeaderSize = 10

// frameMarker is the fixed 2-bit pattern opening every VP9 frame.
const frameMarker = 2

// syncCode is the 24-bit keyframe sync pattern 0x49 0x83 0x42.
const syncCode = 0x498342

// colorSpaceRGB is the CS_RGB sentinel; RGB streams lay the rest of the
// header out differently and are not parsed here.
const colorSpaceRGB = 7

// refreshFlagsBits is the flag field skipped before the dimensions.
const refreshFlagsBits = 8

// ParseFrameHeader decodes a VP9 uncompressed frame header. Keyframes yield
// profile, color space/range and dimensions (coded minus one); pixel format
// is reported as 4:2:0 8-bit, the conservative default for the profiles this
// parser verifies.
func ParseFrameHeader(frame []byte) (par codec.Parameters, err error) {
	par = codec.NewParameters()
	if len(frame) < minHeaderSize {
		return par, utils.TruncatedError{}
	}

	br := bits.NewLimitedReader(frame, maxScanBytes)

	var marker uint
	if marker, err = br.ReadBits(2); err != nil {
		return
	}
	if marker != frameMarker {
		return par, utils.BadSyncError{}
	}

	var profile uint
	if profile, err = br.ReadBits(2); err != nil {
		return
	}

	var showExisting uint
	if showExisting, err = br.ReadBit(); err != nil {
		return
	}
	if showExisting != 0 {
		// the frame only references an already-decoded one
		return par, utils.TryAgainError{}
	}

	var frameType uint
	if frameType, err = br.ReadBit(); err != nil {
		return
	}
	// show_frame, error_resilient_mode
	if _, err = br.ReadBits(2); err != nil {
		return
	}
	if frameType != 0 {
		return par, utils.TryAgainError{}
	}

	var sync uint
	if sync, err = br.ReadBits(24); err != nil {
		return
	}
	if sync != syncCode {
		return par, utils.BadSyncError{}
	}

	var colorSpace uint
	if colorSpace, err = br.ReadBits(3); err != nil {
		return
	}
	if colorSpace == colorSpaceRGB {
		return par, utils.UnimplementedError{}
	}
	var fullRange uint
	if fullRange, err = br.ReadBit(); err != nil {
		return
	}
	par.ColorMatrix = uint8(colorSpace)
	if fullRange != 0 {
		par.ColorRange = codec.ColorRangeFull
	} else {
		par.ColorRange = codec.ColorRangeLimited
	}

	if err = br.SkipBits(refreshFlagsBits); err != nil {
		return
	}

	var widthMinus1, heightMinus1 uint
	if widthMinus1, err = br.ReadBits(16); err != nil {
		return
	}
	if heightMinus1, err = br.ReadBits(16); err != nil {
		return
	}

	par.Profile = int(profile)
	par.Width = widthMinus1 + 1
	par.Height = heightMinus1 + 1
	// Bit depth and subsampling live further into the color config than
	// this parser goes; 4:2:0 8-bit covers profile 0.
	par.PixelFormat = codec.YUV420P

	return par, nil
}
