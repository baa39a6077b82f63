package h265

// NAL unit types used when classifying extradata contents.
const (
	NalUnitVps                 = 32
	NalUnitSps                 = 33
	NalUnitPps                 = 34
	NalUnitAccessUnitDelimiter = 35
	NalUnitPrefixSei           = 39

	// NaluTypeShift and NaluTypeMask extract the type from the first
	// header byte (forbidden bit, 6-bit type, layer id high bit).
	NaluTypeShift = 1
	NaluTypeMask  = 0x3f
)

// Structural bounds, per the H.265 level limits; counts beyond these cannot
// appear in a conforming stream and indicate corrupt data.
const (
	maxSubLayers          = 7
	maxShortTermRefPicSet = 64
	maxLongTermRefPics    = 32
	maxRefPicsPerSet      = 64
)

// Chroma format values.
const (
	chromaFormatMono = 0
	chromaFormat420  = 1
	chromaFormat422  = 2
	chromaFormat444  = 3
)

// Aspect ratio and chroma location bounds shared with the H.264 VUI layout.
const (
	aspectRatioExtended = 255
	maxChromaLocType    = 5
)

// sarTable maps aspect_ratio_idc 1..16 to sample aspect ratios; H.265 reuses
// the H.264 Table E-1 values.
var sarTable = [][2]uint32{
	{1, 1}, {12, 11}, {10, 11}, {16, 11}, {40, 33}, {24, 11}, {20, 11}, {32, 11},
	{80, 33}, {18, 11}, {15, 11}, {64, 33}, {160, 99}, {4, 3}, {3, 2}, {2, 1},
}

// SPSInfo represents information extracted from an H.265 Sequence Parameter Set.
type SPSInfo struct {
	NumTemporalLayers uint
	TemporalIDNested  uint

	GeneralProfileSpace              uint
	GeneralTierFlag                  uint
	GeneralProfileIDC                uint
	GeneralProfileCompatibilityFlags uint32
	GeneralConstraintIndicatorFlags  uint64
	GeneralLevelIDC                  uint

	ChromaFormat           uint
	PicWidthInLumaSamples  uint
	PicHeightInLumaSamples uint
	BitDepthLuma           uint
	BitDepthChroma         uint

	Width  uint
	Height uint
}
