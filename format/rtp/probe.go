// Package rtp probes stream parameters straight off the wire: a raw RTP
// packet is unmarshalled, depayloaded for its codec and handed to the same
// header parsers the extradata path uses. One packet in, one verdict out;
// reassembly of fragmented units is the caller's job.
package rtp

import (
	"github.com/pion/rtp"
	"github.com/pion/rtp/codecs"
	"github.com/ugparu/mediaprobe"
	"github.com/ugparu/mediaprobe/codec"
	"github.com/ugparu/mediaprobe/probe"
	"github.com/ugparu/mediaprobe/utils"
	"github.com/ugparu/mediaprobe/utils/logger"
)

// ProbePacket extracts parameters from a single raw RTP packet. A record
// that already carries dimensions is returned untouched. Packets that do
// not start a parsable unit (inter frames, mid-frame fragments) come back
// as TryAgainError or BadSyncError so the caller can feed the next one.
func ProbePacket(codecType mediaprobe.CodecType,
	raw []byte,
	existing codec.Parameters) (codec.Parameters, error) {
	if existing.HasDimensions() || existing.SampleRate > 0 {
		return existing, nil
	}

	var pkt rtp.Packet
	if err := pkt.Unmarshal(raw); err != nil {
		logger.Debugf(codecType, "rtp unmarshal: %v", err)
		return existing, utils.InvalidDataError{}
	}

	payload, shape, err := depayload(codecType, pkt.Payload)
	if err != nil {
		return existing, err
	}

	return probe.Parse(codecType, payload, shape, existing)
}

// depayload strips the codec-specific RTP payload format and reports the
// container shape of what remains.
func depayload(codecType mediaprobe.CodecType, payload []byte) ([]byte, mediaprobe.ContainerShape, error) {
	switch codecType {
	case mediaprobe.VP8:
		var vp8Pkt codecs.VP8Packet
		frame, err := vp8Pkt.Unmarshal(payload)
		if err != nil {
			return nil, mediaprobe.ShapeUnknown, utils.InvalidDataError{}
		}
		// A packet that does not open a partition cannot hold the header.
		if vp8Pkt.S != 1 {
			return nil, mediaprobe.ShapeUnknown, utils.TryAgainError{}
		}
		return frame, mediaprobe.ShapeUnknown, nil
	case mediaprobe.H264:
		// The pion depayloader rebuilds Annex-B from single NALUs and
		// STAP-A aggregates; FU-A fragments fail and map to "try again".
		var h264Pkt codecs.H264Packet
		annexB, err := h264Pkt.Unmarshal(payload)
		if err != nil || len(annexB) == 0 {
			return nil, mediaprobe.ShapeUnknown, utils.TryAgainError{}
		}
		return annexB, mediaprobe.ShapeAnnexB, nil
	default:
		return nil, mediaprobe.ShapeUnknown, utils.UnimplementedError{}
	}
}
