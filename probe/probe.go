// Package probe dispatches extradata buffers to the per-codec parsers and
// merges the result into an existing parameter record. It is the single entry
// point callers use when they do not care which codec family they hold.
package probe

import (
	"github.com/ugparu/mediaprobe"
	"github.com/ugparu/mediaprobe/codec"
	"github.com/ugparu/mediaprobe/codec/av1"
	"github.com/ugparu/mediaprobe/codec/h264"
	"github.com/ugparu/mediaprobe/codec/h265"
	"github.com/ugparu/mediaprobe/codec/vp8"
	"github.com/ugparu/mediaprobe/codec/vp9"
	"github.com/ugparu/mediaprobe/utils"
	"github.com/ugparu/mediaprobe/utils/logger"
	"github.com/ugparu/mediaprobe/utils/nal"
)

// minExtradataSize rejects buffers too short to hold any parsable header.
const minExtradataSize = 4

// Parse extracts stream parameters from extradata and merges them into
// existing. A record that already carries dimensions (or a sample rate, for
// audio) is returned as is without reading the buffer, so callers can feed
// every packet through without reparsing. The returned record is either the
// merged result or existing unchanged alongside the error.
func Parse(codecType mediaprobe.CodecType,
	extradata []byte,
	hint mediaprobe.ContainerShape,
	existing codec.Parameters) (codec.Parameters, error) {
	if existing.HasDimensions() || existing.SampleRate > 0 {
		return existing, nil
	}

	if len(extradata) < minExtradataSize {
		return existing, utils.TruncatedError{}
	}

	logger.Tracef(codecType, "probing %d byte extradata, hint %v", len(extradata), hint)

	parsed, err := dispatch(codecType, extradata, hint)
	if err != nil {
		logger.Debugf(codecType, "probe failed: %v", err)
		return existing, err
	}

	existing = existing.Merge(parsed)
	logger.Debugf(codecType, "probe result %v", existing)
	return existing, nil
}

func dispatch(codecType mediaprobe.CodecType,
	extradata []byte,
	hint mediaprobe.ContainerShape) (codec.Parameters, error) {
	switch codecType {
	case mediaprobe.H264:
		return parseH264(extradata, hint)
	case mediaprobe.H265:
		return parseH265(extradata, hint)
	case mediaprobe.VP8:
		return vp8.ParseFrameHeader(extradata)
	case mediaprobe.VP9:
		return vp9.ParseFrameHeader(extradata)
	case mediaprobe.AV1:
		return parseAV1(extradata, hint)
	default:
		return codec.NewParameters(), utils.NoCodecDataError{}
	}
}

// annexBOnly verifies the caller did not promise a shape the NAL splitter
// cannot consume. Unknown is allowed; the start-code check in nal.FirstUnit
// then does the sniffing.
func annexBOnly(hint mediaprobe.ContainerShape) error {
	if hint != mediaprobe.ShapeUnknown && hint != mediaprobe.ShapeAnnexB {
		return utils.UnsupportedContainerError{}
	}
	return nil
}

func parseH264(extradata []byte, hint mediaprobe.ContainerShape) (codec.Parameters, error) {
	if err := annexBOnly(hint); err != nil {
		return codec.NewParameters(), err
	}
	unit, err := nal.FirstUnit(extradata)
	if err != nil {
		return codec.NewParameters(), err
	}
	if unit[0]&h264.NaluTypeMask != h264.NaluSPS {
		// a leading AUD or SEI would need a full unit walk
		return codec.NewParameters(), utils.UnimplementedError{}
	}
	return h264.ParseSPS(unit)
}

func parseH265(extradata []byte, hint mediaprobe.ContainerShape) (codec.Parameters, error) {
	if err := annexBOnly(hint); err != nil {
		return codec.NewParameters(), err
	}
	unit, err := nal.FirstUnit(extradata)
	if err != nil {
		return codec.NewParameters(), err
	}
	if (unit[0]>>h265.NaluTypeShift)&h265.NaluTypeMask != h265.NalUnitSps {
		return codec.NewParameters(), utils.UnimplementedError{}
	}
	return h265.ParseSPS(unit)
}

func parseAV1(extradata []byte, hint mediaprobe.ContainerShape) (codec.Parameters, error) {
	// Annex-B framed AV1 is a different length-delimited layout.
	if hint == mediaprobe.ShapeAnnexB {
		return codec.NewParameters(), utils.UnsupportedContainerError{}
	}
	payload, err := av1.FindSequenceHeader(extradata)
	if err != nil {
		return codec.NewParameters(), err
	}
	return av1.ParseSequenceHeader(payload)
}
