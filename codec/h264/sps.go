//nolint:mnd // field widths below follow the H.264 SPS syntax tables
package h264

import (
	"github.com/ugparu/mediaprobe/codec"
	"github.com/ugparu/mediaprobe/utils"
	"github.com/ugparu/mediaprobe/utils/bits"
	"github.com/ugparu/mediaprobe/utils/nal"
)

// minSPSSize is the smallest NAL unit that can hold a parseable SPS.
const minSPSSize = 4

// ParseSPS decodes an H.264 sequence parameter set NAL unit (header byte
// included) and returns the parameters it pins down: geometry, profile and
// level, pixel format, and whatever the VUI carries (sample aspect ratio,
// color description, signal range, chroma location, timing, HRD bit rate).
func ParseSPS(nalu []byte) (par codec.Parameters, err error) {
	par = codec.NewParameters()
	if len(nalu) < minSPSSize {
		return par, utils.TruncatedError{}
	}

	var info SPSInfo
	rbsp := nal.Unescape(nalu[1:])
	br := bits.NewReader(rbsp)

	if info.ProfileIDC, err = br.ReadBits(8); err != nil {
		return
	}
	// constraint_set flags + reserved_zero_2bits
	if _, err = br.ReadBits(8); err != nil {
		return
	}
	if info.LevelIDC, err = br.ReadBits(8); err != nil {
		return
	}
	// seq_parameter_set_id
	if _, err = br.ReadExponentialGolombCode(); err != nil {
		return
	}

	info.ChromaFormatIDC = chromaFormat420
	info.BitDepthLuma = 8
	separateColourPlane := uint(0)

	if highProfiles[info.ProfileIDC] {
		if info.ChromaFormatIDC, err = br.ReadExponentialGolombCode(); err != nil {
			return
		}
		if info.ChromaFormatIDC > chromaFormat444 {
			return par, utils.InvalidDataError{}
		}
		if info.ChromaFormatIDC == chromaFormat444 {
			if separateColourPlane, err = br.ReadBit(); err != nil {
				return
			}
		}
		var bdlm8 uint
		if bdlm8, err = br.ReadExponentialGolombCode(); err != nil {
			return
		}
		info.BitDepthLuma = bdlm8 + 8
		// bit_depth_chroma_minus8
		if _, err = br.ReadExponentialGolombCode(); err != nil {
			return
		}
		// qpprime_y_zero_transform_bypass_flag
		if _, err = br.ReadBit(); err != nil {
			return
		}
		var scalingMatrixPresent uint
		if scalingMatrixPresent, err = br.ReadBit(); err != nil {
			return
		}
		if scalingMatrixPresent != 0 {
			if err = skipScalingMatrix(br, info.ChromaFormatIDC); err != nil {
				return
			}
		}
	}

	// log2_max_frame_num_minus4
	if _, err = br.ReadExponentialGolombCode(); err != nil {
		return
	}
	var pocType uint
	if pocType, err = br.ReadExponentialGolombCode(); err != nil {
		return
	}
	if err = skipPicOrderCnt(br, pocType); err != nil {
		return
	}
	// max_num_ref_frames
	if _, err = br.ReadExponentialGolombCode(); err != nil {
		return
	}
	// gaps_in_frame_num_value_allowed_flag
	if _, err = br.ReadBit(); err != nil {
		return
	}

	var widthInMbsMinus1, heightInMapUnitsMinus1 uint
	if widthInMbsMinus1, err = br.ReadExponentialGolombCode(); err != nil {
		return
	}
	if heightInMapUnitsMinus1, err = br.ReadExponentialGolombCode(); err != nil {
		return
	}
	var frameMbsOnly uint
	if frameMbsOnly, err = br.ReadBit(); err != nil {
		return
	}
	if frameMbsOnly == 0 {
		// mb_adaptive_frame_field_flag
		if _, err = br.ReadBit(); err != nil {
			return
		}
	}
	// direct_8x8_inference_flag
	if _, err = br.ReadBit(); err != nil {
		return
	}

	info.MbWidth = widthInMbsMinus1 + 1
	info.MbHeight = (2 - frameMbsOnly) * (heightInMapUnitsMinus1 + 1)

	var croppingFlag uint
	if croppingFlag, err = br.ReadBit(); err != nil {
		return
	}
	if croppingFlag != 0 {
		if err = readCropping(br, &info, separateColourPlane, frameMbsOnly); err != nil {
			return
		}
	}

	info.Width = info.MbWidth * mbSize
	info.Height = info.MbHeight * mbSize
	if info.Width <= info.CropLeft+info.CropRight || info.Height <= info.CropTop+info.CropBottom {
		return par, utils.InvalidDataError{}
	}
	info.Width -= info.CropLeft + info.CropRight
	info.Height -= info.CropTop + info.CropBottom

	par.Width = info.Width
	par.Height = info.Height
	par.Profile = int(info.ProfileIDC)
	par.Level = int(info.LevelIDC)
	par.PixelFormat = pixelFormat(info.ChromaFormatIDC, info.BitDepthLuma)

	var vuiPresent uint
	if vuiPresent, err = br.ReadBit(); err != nil {
		return
	}
	if vuiPresent != 0 {
		if err = parseVUI(br, &par); err != nil {
			return
		}
	}

	return par, nil
}

// pixelFormat maps chroma_format_idc and luma bit depth to the record tag.
// Only the combinations the extractor can vouch for are mapped; everything
// else stays unknown.
func pixelFormat(chromaFormatIDC, bitDepthLuma uint) codec.PixelFormat {
	if chromaFormatIDC == chromaFormatMono {
		return codec.Gray8
	}
	switch bitDepthLuma {
	case 8:
		return codec.YUV420P
	case 10:
		return codec.YUV420P10
	}
	return codec.PixelFormatUnknown
}

func skipScalingMatrix(br *bits.Reader, chromaFormatIDC uint) (err error) {
	count := 8
	if chromaFormatIDC == chromaFormat444 {
		count = 12
	}
	for i := 0; i < count; i++ {
		var present uint
		if present, err = br.ReadBit(); err != nil {
			return err
		}
		if present == 0 {
			continue
		}
		size := scalingListSizeSmall
		if i >= scalingListThreshold {
			size = scalingListSizeLarge
		}
		if err = skipScalingList(br, size); err != nil {
			return err
		}
	}
	return nil
}

func skipScalingList(br *bits.Reader, size int) error {
	lastScale := defaultScaleValue
	nextScale := defaultScaleValue
	for i := 0; i < size; i++ {
		if nextScale != 0 {
			delta, err := br.ReadSE()
			if err != nil {
				return err
			}
			nextScale = (lastScale + delta + maxScaleValue) % maxScaleValue
		}
		if nextScale != 0 {
			lastScale = nextScale
		}
	}
	return nil
}

func skipPicOrderCnt(br *bits.Reader, pocType uint) (err error) {
	switch pocType {
	case 0:
		// log2_max_pic_order_cnt_lsb_minus4
		_, err = br.ReadExponentialGolombCode()
	case 1:
		// delta_pic_order_always_zero_flag
		if _, err = br.ReadBit(); err != nil {
			return err
		}
		// offset_for_non_ref_pic, offset_for_top_to_bottom_field
		if _, err = br.ReadSE(); err != nil {
			return err
		}
		if _, err = br.ReadSE(); err != nil {
			return err
		}
		var numRefFrames uint
		if numRefFrames, err = br.ReadExponentialGolombCode(); err != nil {
			return err
		}
		for i := uint(0); i < numRefFrames; i++ {
			if _, err = br.ReadSE(); err != nil {
				return err
			}
		}
	}
	return err
}

// readCropping converts the coded crop offsets to pixels using the crop unit
// of the stream's chroma array type and frame/field mode.
func readCropping(br *bits.Reader, info *SPSInfo, separateColourPlane, frameMbsOnly uint) (err error) {
	var left, right, top, bottom uint
	if left, err = br.ReadExponentialGolombCode(); err != nil {
		return err
	}
	if right, err = br.ReadExponentialGolombCode(); err != nil {
		return err
	}
	if top, err = br.ReadExponentialGolombCode(); err != nil {
		return err
	}
	if bottom, err = br.ReadExponentialGolombCode(); err != nil {
		return err
	}

	chromaArrayType := info.ChromaFormatIDC
	if separateColourPlane != 0 {
		chromaArrayType = 0
	}
	cropUnitX := uint(1)
	cropUnitY := 2 - frameMbsOnly
	if chromaArrayType == chromaFormat420 || chromaArrayType == chromaFormat422 {
		cropUnitX = 2
	}
	if chromaArrayType == chromaFormat420 {
		cropUnitY = 2 * (2 - frameMbsOnly)
	}

	info.CropLeft = left * cropUnitX
	info.CropRight = right * cropUnitX
	info.CropTop = top * cropUnitY
	info.CropBottom = bottom * cropUnitY
	return nil
}

//nolint:gocyclo,cyclop // the VUI is one long flag-gated field sequence
func parseVUI(br *bits.Reader, par *codec.Parameters) (err error) {
	var flag uint

	// aspect_ratio_info_present_flag
	if flag, err = br.ReadBit(); err != nil {
		return err
	}
	if flag != 0 {
		if err = readAspectRatio(br, par); err != nil {
			return err
		}
	}

	// overscan_info_present_flag
	if flag, err = br.ReadBit(); err != nil {
		return err
	}
	if flag != 0 {
		if _, err = br.ReadBit(); err != nil {
			return err
		}
	}

	// video_signal_type_present_flag
	if flag, err = br.ReadBit(); err != nil {
		return err
	}
	if flag != 0 {
		if err = readVideoSignalType(br, par); err != nil {
			return err
		}
	}

	// chroma_loc_info_present_flag
	if flag, err = br.ReadBit(); err != nil {
		return err
	}
	if flag != 0 {
		var topField uint
		if topField, err = br.ReadExponentialGolombCode(); err != nil {
			return err
		}
		if _, err = br.ReadExponentialGolombCode(); err != nil {
			return err
		}
		if topField <= maxChromaLocType {
			par.ChromaLocation = codec.ChromaLocation(topField + 1)
		}
	}

	// timing_info_present_flag
	if flag, err = br.ReadBit(); err != nil {
		return err
	}
	if flag != 0 {
		var numUnitsInTick, timeScale uint32
		if numUnitsInTick, err = br.ReadBits32(32); err != nil {
			return err
		}
		if timeScale, err = br.ReadBits32(32); err != nil {
			return err
		}
		// fixed_frame_rate_flag
		if _, err = br.ReadBit(); err != nil {
			return err
		}
		if numUnitsInTick != 0 && timeScale != 0 {
			par.FrameRate = codec.Rational{Num: timeScale, Den: numUnitsInTick * fieldsPerFrame}
		}
	}

	// nal_hrd_parameters_present_flag
	if flag, err = br.ReadBit(); err != nil {
		return err
	}
	if flag != 0 {
		if err = readHRD(br, par); err != nil {
			return err
		}
	}
	// vcl_hrd_parameters_present_flag
	if flag, err = br.ReadBit(); err != nil {
		return err
	}
	if flag != 0 {
		if err = readHRD(br, par); err != nil {
			return err
		}
	}

	// The rest of the VUI (low delay, pic struct, bitstream restriction)
	// carries nothing this extractor reports.
	return nil
}

func readAspectRatio(br *bits.Reader, par *codec.Parameters) (err error) {
	var idc uint
	if idc, err = br.ReadBits(8); err != nil {
		return err
	}
	switch {
	case idc == aspectRatioExtended:
		var num, den uint
		if num, err = br.ReadBits(16); err != nil {
			return err
		}
		if den, err = br.ReadBits(16); err != nil {
			return err
		}
		if num != 0 && den != 0 {
			par.SAR = codec.Rational{Num: uint32(num), Den: uint32(den)}
		}
	case idc >= 1 && idc <= uint(len(sarTable)):
		sar := sarTable[idc-1]
		par.SAR = codec.Rational{Num: sar[0], Den: sar[1]}
	}
	return nil
}

func readVideoSignalType(br *bits.Reader, par *codec.Parameters) (err error) {
	// video_format
	if _, err = br.ReadBits(3); err != nil {
		return err
	}
	var fullRange uint
	if fullRange, err = br.ReadBit(); err != nil {
		return err
	}
	if fullRange != 0 {
		par.ColorRange = codec.ColorRangeFull
	} else {
		par.ColorRange = codec.ColorRangeLimited
	}

	var descPresent uint
	if descPresent, err = br.ReadBit(); err != nil {
		return err
	}
	if descPresent != 0 {
		var primaries, transfer, matrix uint
		if primaries, err = br.ReadBits(8); err != nil {
			return err
		}
		if transfer, err = br.ReadBits(8); err != nil {
			return err
		}
		if matrix, err = br.ReadBits(8); err != nil {
			return err
		}
		par.ColorPrimaries = uint8(primaries)
		par.ColorTransfer = uint8(transfer)
		par.ColorMatrix = uint8(matrix)
	}
	return nil
}

// readHRD walks hrd_parameters() and reports the first coded bit rate,
// applying the bit_rate_scale exponent. An already-set bit rate (NAL HRD
// before VCL HRD) is kept.
func readHRD(br *bits.Reader, par *codec.Parameters) (err error) {
	var cpbCntMinus1 uint
	if cpbCntMinus1, err = br.ReadExponentialGolombCode(); err != nil {
		return err
	}
	if cpbCntMinus1+1 > maxCpbCount {
		return utils.InvalidDataError{}
	}
	var bitRateScale uint
	if bitRateScale, err = br.ReadBits(4); err != nil {
		return err
	}
	// cpb_size_scale
	if _, err = br.ReadBits(4); err != nil {
		return err
	}
	for i := uint(0); i < cpbCntMinus1+1; i++ {
		var bitRateValueMinus1 uint
		if bitRateValueMinus1, err = br.ReadExponentialGolombCode(); err != nil {
			return err
		}
		// cpb_size_value_minus1
		if _, err = br.ReadExponentialGolombCode(); err != nil {
			return err
		}
		// cbr_flag
		if _, err = br.ReadBit(); err != nil {
			return err
		}
		if i == 0 && par.BitRate == 0 {
			par.BitRate = (bitRateValueMinus1 + 1) << (bitRateScaleBase + bitRateScale)
		}
	}
	// initial_cpb_removal_delay_length_minus1, cpb_removal_delay_length_minus1,
	// dpb_output_delay_length_minus1, time_offset_length
	if _, err = br.ReadBits(20); err != nil {
		return err
	}
	return nil
}
