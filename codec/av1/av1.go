// Package av1 locates and parses the AV1 sequence header OBU. Extradata
// arrives in two shapes: an AV1CodecConfigurationRecord box (marker bit set
// on the first byte) whose OBUs carry single-byte size fields, or a raw OBU
// stream whose first OBU is inspected directly.
package av1

import (
	"github.com/ugparu/mediaprobe/codec"
	"github.com/ugparu/mediaprobe/utils"
	"github.com/ugparu/mediaprobe/utils/bits"
)

// OBU types (AV1 spec 5.3.1); only the sequence header is consumed here.
const (
	OBUSequenceHeader    = 1
	OBUTemporalDelimiter = 2
	OBUFrameHeader       = 3
	OBUMetadata          = 5
	OBUFrame             = 6
)

// configRecordMarker is the top bit of byte 0 in an AV1CodecConfigurationRecord.
const configRecordMarker = 0x80

// configHeaderSize is the fixed prefix of the configuration record
// (marker/version, profile/level, flags byte, delay byte).
const configHeaderSize = 4

// maxScanBytes caps the sequence-header parse, bounding cost on hostile
// input; a real sequence header fits comfortably.
const maxScanBytes = 128

// minPayloadSize is the smallest buffer a sequence header can occupy.
const minPayloadSize = 4

// obuType extracts the 4-bit type from an OBU header byte.
func obuType(header byte) byte {
	return (header >> 3) & 0x0f //nolint:mnd // obu_type field position
}

// obuHasSizeField reports whether the OBU header announces a size field.
func obuHasSizeField(header byte) bool {
	return (header>>1)&1 != 0
}

// FindSequenceHeader returns the payload of the first sequence-header OBU in
// extradata, handling both container shapes. OBU sizes in the configuration
// record are read as single bytes, which is sufficient for the in-scope
// buffers; an OBU without a size field ends the scan.
func FindSequenceHeader(extradata []byte) ([]byte, error) {
	if len(extradata) < minPayloadSize {
		return nil, utils.TruncatedError{}
	}

	if extradata[0]&configRecordMarker != 0 {
		return findInConfigRecord(extradata)
	}

	// Raw OBU stream: inspect the first OBU header only.
	header := extradata[0]
	if obuType(header) != OBUSequenceHeader {
		return nil, utils.NoSequenceHeaderError{}
	}
	payloadOffset := 1
	if obuHasSizeField(header) && len(extradata) > 2 {
		payloadOffset = 2
	}
	return extradata[payloadOffset:], nil
}

func findInConfigRecord(extradata []byte) ([]byte, error) {
	offset := configHeaderSize
	for offset+2 <= len(extradata) {
		header := extradata[offset]
		if !obuHasSizeField(header) {
			break
		}
		size := int(extradata[offset+1])
		payloadStart := offset + 2
		if obuType(header) == OBUSequenceHeader {
			payloadEnd := payloadStart + size
			if payloadEnd > len(extradata) {
				payloadEnd = len(extradata)
			}
			return extradata[payloadStart:payloadEnd], nil
		}
		offset = payloadStart + size
	}
	return nil, utils.NoSequenceHeaderError{}
}

// ParseSequenceHeader decodes a sequence header OBU payload down to the
// frame dimensions. Timing info and decoder model info are declined rather
// than skipped; the trailing tool flags and color config are not parsed, so
// the pixel format is reported as the conservative 4:2:0 8-bit default.
func ParseSequenceHeader(payload []byte) (par codec.Parameters, err error) {
	par = codec.NewParameters()
	if len(payload) < minPayloadSize {
		return par, utils.TruncatedError{}
	}

	br := bits.NewLimitedReader(payload, maxScanBytes)

	var profile uint
	if profile, err = br.ReadBits(3); err != nil {
		return
	}
	// still_picture
	if _, err = br.ReadBit(); err != nil {
		return
	}
	var reducedStillPicture uint
	if reducedStillPicture, err = br.ReadBit(); err != nil {
		return
	}

	if reducedStillPicture == 0 {
		var timingInfoPresent uint
		if timingInfoPresent, err = br.ReadBit(); err != nil {
			return
		}
		if timingInfoPresent != 0 {
			// variable-length timing info is out of scope
			return par, utils.UnimplementedError{}
		}
		var decoderModelPresent uint
		if decoderModelPresent, err = br.ReadBit(); err != nil {
			return
		}
		if decoderModelPresent != 0 {
			return par, utils.UnimplementedError{}
		}
		// initial_display_delay_present_flag
		if _, err = br.ReadBit(); err != nil {
			return
		}
		var opCountMinus1 uint
		if opCountMinus1, err = br.ReadBits(5); err != nil {
			return
		}
		for op := uint(0); op < opCountMinus1+1; op++ {
			// operating_point_idc, seq_level_idx
			if _, err = br.ReadBits(12); err != nil {
				return
			}
			if _, err = br.ReadBits(5); err != nil {
				return
			}
			var tierSelector uint
			if tierSelector, err = br.ReadBits(5); err != nil {
				return
			}
			if tierSelector > 7 {
				if _, err = br.ReadBit(); err != nil {
					return
				}
			}
		}
	}

	var widthBitsMinus1, heightBitsMinus1 uint
	if widthBitsMinus1, err = br.ReadBits(4); err != nil {
		return
	}
	if heightBitsMinus1, err = br.ReadBits(4); err != nil {
		return
	}
	var widthMinus1, heightMinus1 uint
	if widthMinus1, err = br.ReadBits(int(widthBitsMinus1) + 1); err != nil {
		return
	}
	if heightMinus1, err = br.ReadBits(int(heightBitsMinus1) + 1); err != nil {
		return
	}

	par.Profile = int(profile)
	par.Width = widthMinus1 + 1
	par.Height = heightMinus1 + 1
	par.PixelFormat = codec.YUV420P

	return par, nil
}
