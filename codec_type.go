package mediaprobe

// CodecType identifies the compression format of an elementary stream.
type CodecType uint32

// avCodecTypeMagic is a magic number used to create unique codec types.
const avCodecTypeMagic = 233333

// makeAudioCodecType creates an audio CodecType based on the provided base.
func makeAudioCodecType(base uint32) (c CodecType) {
	c = CodecType(base)<<codecTypeOtherBits | CodecType(codecTypeAudioBit)
	return
}

// makeVideoCodecType creates a video CodecType based on the provided base.
func makeVideoCodecType(base uint32) (c CodecType) {
	c = CodecType(base) << codecTypeOtherBits
	return
}

// Variables representing specific codec types. The zero value is "other":
// a stream the prober has no parser for.
var (
	H264 = makeVideoCodecType(avCodecTypeMagic + 1) //nolint:mnd
	H265 = makeVideoCodecType(avCodecTypeMagic + 2) //nolint:mnd
	VP8  = makeVideoCodecType(avCodecTypeMagic + 3) //nolint:mnd
	VP9  = makeVideoCodecType(avCodecTypeMagic + 4) //nolint:mnd
	AV1  = makeVideoCodecType(avCodecTypeMagic + 5) //nolint:mnd
	AAC  = makeAudioCodecType(avCodecTypeMagic + 1) //nolint:mnd
	PCM  = makeAudioCodecType(avCodecTypeMagic + 2) //nolint:mnd
	OPUS = makeAudioCodecType(avCodecTypeMagic + 3) //nolint:mnd
)

// Bitwise flags for codec types.
const (
	codecTypeAudioBit  = 0x1
	codecTypeOtherBits = 1
)

// String returns the human-readable string representation of a CodecType.
func (ct CodecType) String() string {
	switch ct {
	case H264:
		return "H264"
	case H265:
		return "H265"
	case VP8:
		return "VP8"
	case VP9:
		return "VP9"
	case AV1:
		return "AV1"
	case AAC:
		return "AAC"
	case PCM:
		return "PCM"
	case OPUS:
		return "OPUS"
	}
	return "UNKNOWN"
}

// IsAudio returns true if the CodecType represents an audio codec.
func (ct CodecType) IsAudio() bool {
	return ct&codecTypeAudioBit != 0
}

// IsVideo returns true if the CodecType represents a video codec.
func (ct CodecType) IsVideo() bool {
	return ct&codecTypeAudioBit == 0
}
