// Package codec defines the parameter record shared by all header parsers.
package codec

import (
	"fmt"
	"strings"
)

// ProfileUnknown marks an absent profile or level. A plain zero cannot serve
// as the sentinel because VP9 and AV1 define profile 0.
const ProfileUnknown = -1

// Rational is a positive rational number. The zero value means "absent"; a
// set value always has a non-zero denominator.
type Rational struct {
	Num uint32
	Den uint32
}

// IsSet reports whether the rational carries a value.
func (r Rational) IsSet() bool {
	return r.Num != 0 && r.Den != 0
}

// String returns the rational as "num/den".
func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// PixelFormat tags the chroma subsampling and bit depth of a stream.
type PixelFormat uint8

// Pixel formats derivable from the headers in scope.
const (
	PixelFormatUnknown PixelFormat = iota
	YUV420P
	YUV420P10
	YUV420P12
	YUV422P
	YUV422P10
	YUV422P12
	YUV444P
	YUV444P10
	YUV444P12
	Gray8
	Gray10
	Gray12
)

// String returns the human-readable name of the pixel format.
func (pf PixelFormat) String() string {
	switch pf {
	case YUV420P:
		return "YUV420P"
	case YUV420P10:
		return "YUV420P10"
	case YUV420P12:
		return "YUV420P12"
	case YUV422P:
		return "YUV422P"
	case YUV422P10:
		return "YUV422P10"
	case YUV422P12:
		return "YUV422P12"
	case YUV444P:
		return "YUV444P"
	case YUV444P10:
		return "YUV444P10"
	case YUV444P12:
		return "YUV444P12"
	case Gray8:
		return "GRAY8"
	case Gray10:
		return "GRAY10"
	case Gray12:
		return "GRAY12"
	case PixelFormatUnknown:
	}
	return "UNKNOWN"
}

// ColorRange is the quantization range of the video signal.
type ColorRange uint8

// Color ranges per the video signal type flags.
const (
	ColorRangeUnspecified ColorRange = iota
	ColorRangeLimited                // MPEG / TV range
	ColorRangeFull                   // JPEG / PC range
)

// String returns the human-readable name of the color range.
func (cr ColorRange) String() string {
	switch cr {
	case ColorRangeLimited:
		return "LIMITED"
	case ColorRangeFull:
		return "FULL"
	case ColorRangeUnspecified:
	}
	return "UNSPECIFIED"
}

// ChromaLocation is the chroma sample position. The coded
// chroma_sample_loc_type maps to loc type + 1 so that 0 stays "unspecified".
type ChromaLocation uint8

// Chroma sample locations.
const (
	ChromaLocUnspecified ChromaLocation = iota
	ChromaLocLeft
	ChromaLocCenter
	ChromaLocTopLeft
	ChromaLocTop
	ChromaLocBottomLeft
	ChromaLocBottom
)

// Parameters is the partially-populated result of a header parse. Every
// field defaults to "absent" and presence is independent per field; Width
// and Height are only ever set together. Records are plain values: once
// returned they are owned by the caller and never retained by a parser.
type Parameters struct {
	Width  uint
	Height uint

	PixelFormat PixelFormat

	Profile int
	Level   int

	SAR       Rational // sample aspect ratio
	FrameRate Rational

	// Raw H.273 code points; 0 means absent.
	ColorPrimaries uint8
	ColorTransfer  uint8
	ColorMatrix    uint8

	ColorRange     ColorRange
	ChromaLocation ChromaLocation

	BitRate uint

	// SampleRate exists only for the audio variant of the "already known"
	// short-circuit; no parser in this module ever sets it.
	SampleRate uint
}

// NewParameters returns the all-absent record.
func NewParameters() Parameters {
	par := Parameters{} //nolint:exhaustruct // zero value is "absent" for every field but two
	par.Profile = ProfileUnknown
	par.Level = ProfileUnknown
	return par
}

// HasDimensions reports whether the record carries a frame geometry.
func (par Parameters) HasDimensions() bool {
	return par.Width > 0 && par.Height > 0
}

// Merge returns par with every absent field filled in from other. Fields
// already set on par are never overwritten: merging is strictly additive.
func (par Parameters) Merge(other Parameters) Parameters {
	if par.Width == 0 && par.Height == 0 && other.HasDimensions() {
		par.Width = other.Width
		par.Height = other.Height
	}
	if par.PixelFormat == PixelFormatUnknown {
		par.PixelFormat = other.PixelFormat
	}
	if par.Profile == ProfileUnknown {
		par.Profile = other.Profile
	}
	if par.Level == ProfileUnknown {
		par.Level = other.Level
	}
	if !par.SAR.IsSet() && other.SAR.IsSet() {
		par.SAR = other.SAR
	}
	if !par.FrameRate.IsSet() && other.FrameRate.IsSet() {
		par.FrameRate = other.FrameRate
	}
	if par.ColorPrimaries == 0 {
		par.ColorPrimaries = other.ColorPrimaries
	}
	if par.ColorTransfer == 0 {
		par.ColorTransfer = other.ColorTransfer
	}
	if par.ColorMatrix == 0 {
		par.ColorMatrix = other.ColorMatrix
	}
	if par.ColorRange == ColorRangeUnspecified {
		par.ColorRange = other.ColorRange
	}
	if par.ChromaLocation == ChromaLocUnspecified {
		par.ChromaLocation = other.ChromaLocation
	}
	if par.BitRate == 0 {
		par.BitRate = other.BitRate
	}
	if par.SampleRate == 0 {
		par.SampleRate = other.SampleRate
	}
	return par
}

// String returns a compact single-line summary of the set fields.
func (par Parameters) String() string {
	var sb strings.Builder
	sb.WriteString("CODEC_PARAMETERS")
	if par.HasDimensions() {
		fmt.Fprintf(&sb, " size=%dx%d", par.Width, par.Height)
	}
	if par.PixelFormat != PixelFormatUnknown {
		fmt.Fprintf(&sb, " pix_fmt=%v", par.PixelFormat)
	}
	if par.Profile != ProfileUnknown {
		fmt.Fprintf(&sb, " profile=%d", par.Profile)
	}
	if par.Level != ProfileUnknown {
		fmt.Fprintf(&sb, " level=%d", par.Level)
	}
	if par.SAR.IsSet() {
		fmt.Fprintf(&sb, " sar=%v", par.SAR)
	}
	if par.FrameRate.IsSet() {
		fmt.Fprintf(&sb, " fps=%v", par.FrameRate)
	}
	if par.ColorRange != ColorRangeUnspecified {
		fmt.Fprintf(&sb, " range=%v", par.ColorRange)
	}
	if par.BitRate > 0 {
		fmt.Fprintf(&sb, " bitrate=%d", par.BitRate)
	}
	return sb.String()
}
