package h264

// NaluCodedIDR represents the Network Abstraction Layer Unit (NALU) type for
// Coded IDR (Instantaneous Decoding Refresh).
const NaluCodedIDR = 5

// NaluSPS represents the Network Abstraction Layer Unit (NALU) type for Sequence Parameter Set.
const NaluSPS = 7

// NaluPPS represents the Network Abstraction Layer Unit (NALU) type for Picture Parameter Set.
const NaluPPS = 8

// NaluTypeMask extracts the NAL unit type from the header byte.
const NaluTypeMask = 0x1f

// Common magic numbers used in the package
const (
	// Scaling list handling
	defaultScaleValue    = 8
	maxScaleValue        = 256
	scalingListSizeSmall = 16
	scalingListSizeLarge = 64
	scalingListThreshold = 6

	// Chroma format values
	chromaFormatMono = 0
	chromaFormat420  = 1
	chromaFormat422  = 2
	chromaFormat444  = 3

	// Aspect ratio values
	aspectRatioExtended = 255

	// Macroblock size
	mbSize = 16

	// The VUI timing denominator doubles num_units_in_tick because SPS
	// timing is expressed per field, not per frame.
	fieldsPerFrame = 2

	// HRD bit rate exponent base, per the bit_rate_scale definition.
	bitRateScaleBase = 6

	// Upper bound for cpb_cnt_minus1 + 1.
	maxCpbCount = 32

	// Largest chroma_sample_loc_type the enumeration covers.
	maxChromaLocType = 5
)

// highProfiles lists the profile_idc values whose SPS carries the chroma
// format and bit depth block.
var highProfiles = map[uint]bool{
	100: true, 110: true, 122: true, 244: true, 44: true, 83: true,
	86: true, 118: true, 128: true, 138: true, 139: true, 134: true, 135: true,
}

// sarTable maps aspect_ratio_idc 1..16 to sample aspect ratios (Table E-1).
var sarTable = [][2]uint32{
	{1, 1}, {12, 11}, {10, 11}, {16, 11}, {40, 33}, {24, 11}, {20, 11}, {32, 11},
	{80, 33}, {18, 11}, {15, 11}, {64, 33}, {160, 99}, {4, 3}, {3, 2}, {2, 1},
}

// SPSInfo represents information extracted from a Sequence Parameter Set.
type SPSInfo struct {
	ProfileIDC uint // Profile identifier for the SPS.
	LevelIDC   uint // Level identifier for the SPS.

	ChromaFormatIDC uint // Chroma subsampling mode; 1 (4:2:0) when not coded.
	BitDepthLuma    uint // Luma bit depth; 8 when not coded.

	MbWidth  uint // Frame width in macroblocks.
	MbHeight uint // Frame height in macroblocks, including the field factor.

	CropLeft   uint // Left cropping in pixels.
	CropRight  uint // Right cropping in pixels.
	CropTop    uint // Top cropping in pixels.
	CropBottom uint // Bottom cropping in pixels.

	Width  uint // Width of the video frame after cropping.
	Height uint // Height of the video frame after cropping.
}
