//nolint:mnd // field widths below follow the H.265 SPS syntax tables
package h265

import (
	"github.com/ugparu/mediaprobe/codec"
	"github.com/ugparu/mediaprobe/utils"
	"github.com/ugparu/mediaprobe/utils/bits"
	"github.com/ugparu/mediaprobe/utils/nal"
)

// minSPSSize is the smallest NAL unit that can hold a parseable SPS: the
// 2-byte NAL header plus the fixed PTL prefix.
const minSPSSize = 4

// ParseSPS decodes an H.265 sequence parameter set NAL unit (2-byte header
// included). Dimensions are coded directly in luma samples; profile and
// level come from the profile-tier-level block, and the VUI mirrors the
// H.264 layout with HEVC-specific timing.
//
//nolint:gocyclo,cyclop,funlen // the SPS is one long field sequence
func ParseSPS(nalu []byte) (par codec.Parameters, err error) {
	par = codec.NewParameters()
	if len(nalu) < minSPSSize {
		return par, utils.TruncatedError{}
	}

	var info SPSInfo
	rbsp := nal.Unescape(nalu[2:])
	br := bits.NewReader(rbsp)

	// sps_video_parameter_set_id
	if _, err = br.ReadBits(4); err != nil {
		return
	}
	var spsMaxSubLayersMinus1 uint
	if spsMaxSubLayersMinus1, err = br.ReadBits(3); err != nil {
		return
	}
	if spsMaxSubLayersMinus1 >= maxSubLayers {
		return par, utils.InvalidDataError{}
	}
	info.NumTemporalLayers = spsMaxSubLayersMinus1 + 1
	if info.TemporalIDNested, err = br.ReadBit(); err != nil {
		return
	}
	if err = parsePTL(br, &info, spsMaxSubLayersMinus1); err != nil {
		return
	}

	// sps_seq_parameter_set_id
	if _, err = br.ReadExponentialGolombCode(); err != nil {
		return
	}
	if info.ChromaFormat, err = br.ReadExponentialGolombCode(); err != nil {
		return
	}
	if info.ChromaFormat > chromaFormat444 {
		return par, utils.InvalidDataError{}
	}
	if info.ChromaFormat == chromaFormat444 {
		// separate_colour_plane_flag
		if _, err = br.ReadBit(); err != nil {
			return
		}
	}
	if info.PicWidthInLumaSamples, err = br.ReadExponentialGolombCode(); err != nil {
		return
	}
	if info.PicHeightInLumaSamples, err = br.ReadExponentialGolombCode(); err != nil {
		return
	}
	info.Width = info.PicWidthInLumaSamples
	info.Height = info.PicHeightInLumaSamples

	var conformanceWindow uint
	if conformanceWindow, err = br.ReadBit(); err != nil {
		return
	}
	if conformanceWindow != 0 {
		// window offsets do not change the coded dimensions reported here
		for i := 0; i < 4; i++ {
			if _, err = br.ReadExponentialGolombCode(); err != nil {
				return
			}
		}
	}

	var bdlm8 uint
	if bdlm8, err = br.ReadExponentialGolombCode(); err != nil {
		return
	}
	info.BitDepthLuma = bdlm8 + 8
	var bdcm8 uint
	if bdcm8, err = br.ReadExponentialGolombCode(); err != nil {
		return
	}
	info.BitDepthChroma = bdcm8 + 8

	var log2MaxPocLsbMinus4 uint
	if log2MaxPocLsbMinus4, err = br.ReadExponentialGolombCode(); err != nil {
		return
	}
	if log2MaxPocLsbMinus4 > 12 {
		return par, utils.InvalidDataError{}
	}

	var subLayerOrderingPresent uint
	if subLayerOrderingPresent, err = br.ReadBit(); err != nil {
		return
	}
	first := spsMaxSubLayersMinus1
	if subLayerOrderingPresent != 0 {
		first = 0
	}
	for i := first; i <= spsMaxSubLayersMinus1; i++ {
		// sps_max_dec_pic_buffering_minus1, sps_max_num_reorder_pics,
		// sps_max_latency_increase_plus1
		for i := 0; i < 3; i++ {
			if _, err = br.ReadExponentialGolombCode(); err != nil {
				return
			}
		}
	}

	// log2_min_luma_coding_block_size_minus3 .. max_transform_hierarchy_depth_intra
	for i := 0; i < 6; i++ {
		if _, err = br.ReadExponentialGolombCode(); err != nil {
			return
		}
	}

	var scalingListEnabled uint
	if scalingListEnabled, err = br.ReadBit(); err != nil {
		return
	}
	if scalingListEnabled != 0 {
		var dataPresent uint
		if dataPresent, err = br.ReadBit(); err != nil {
			return
		}
		if dataPresent != 0 {
			if err = skipScalingListData(br); err != nil {
				return
			}
		}
	}

	// amp_enabled_flag, sample_adaptive_offset_enabled_flag
	if _, err = br.ReadBits(2); err != nil {
		return
	}
	var pcmEnabled uint
	if pcmEnabled, err = br.ReadBit(); err != nil {
		return
	}
	if pcmEnabled != 0 {
		if err = skipPCMInfo(br); err != nil {
			return
		}
	}

	var numShortTermSets uint
	if numShortTermSets, err = br.ReadExponentialGolombCode(); err != nil {
		return
	}
	if numShortTermSets > maxShortTermRefPicSet {
		return par, utils.InvalidDataError{}
	}
	if err = skipShortTermRefPicSets(br, numShortTermSets); err != nil {
		return
	}

	var longTermPresent uint
	if longTermPresent, err = br.ReadBit(); err != nil {
		return
	}
	if longTermPresent != 0 {
		var numLongTerm uint
		if numLongTerm, err = br.ReadExponentialGolombCode(); err != nil {
			return
		}
		if numLongTerm > maxLongTermRefPics {
			return par, utils.InvalidDataError{}
		}
		for i := uint(0); i < numLongTerm; i++ {
			// lt_ref_pic_poc_lsb_sps, used_by_curr_pic_lt_sps_flag
			if _, err = br.ReadBits(int(log2MaxPocLsbMinus4) + 4); err != nil {
				return
			}
			if _, err = br.ReadBit(); err != nil {
				return
			}
		}
	}

	// sps_temporal_mvp_enabled_flag, strong_intra_smoothing_enabled_flag
	if _, err = br.ReadBits(2); err != nil {
		return
	}

	par.Width = info.Width
	par.Height = info.Height
	par.Profile = int(info.GeneralProfileIDC)
	par.Level = int(info.GeneralLevelIDC)
	par.PixelFormat = pixelFormat(info.ChromaFormat, info.BitDepthLuma)
	if !par.HasDimensions() {
		return par, utils.InvalidDataError{}
	}

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

// pixelFormat maps chroma_format_idc and luma bit depth to the record tag,
// falling back to the 4:2:0 family when only the bit depth is conclusive.
func pixelFormat(chromaFormat, bitDepth uint) codec.PixelFormat {
	depthIdx := 0
	switch bitDepth {
	case 8:
		depthIdx = 0
	case 10:
		depthIdx = 1
	case 12:
		depthIdx = 2
	default:
		return codec.PixelFormatUnknown
	}
	switch chromaFormat {
	case chromaFormatMono:
		return []codec.PixelFormat{codec.Gray8, codec.Gray10, codec.Gray12}[depthIdx]
	case chromaFormat422:
		return []codec.PixelFormat{codec.YUV422P, codec.YUV422P10, codec.YUV422P12}[depthIdx]
	case chromaFormat444:
		return []codec.PixelFormat{codec.YUV444P, codec.YUV444P10, codec.YUV444P12}[depthIdx]
	default:
		// 4:2:0, and the original's bit-depth fallback
		return []codec.PixelFormat{codec.YUV420P, codec.YUV420P10, codec.YUV420P12}[depthIdx]
	}
}

func parsePTL(br *bits.Reader, info *SPSInfo, maxSubLayersMinus1 uint) error {
	var err error
	if info.GeneralProfileSpace, err = br.ReadBits(2); err != nil {
		return err
	}
	if info.GeneralTierFlag, err = br.ReadBit(); err != nil {
		return err
	}
	if info.GeneralProfileIDC, err = br.ReadBits(5); err != nil {
		return err
	}
	if info.GeneralProfileCompatibilityFlags, err = br.ReadBits32(32); err != nil {
		return err
	}
	if info.GeneralConstraintIndicatorFlags, err = br.ReadBits64(48); err != nil {
		return err
	}
	if info.GeneralLevelIDC, err = br.ReadBits(8); err != nil {
		return err
	}
	if maxSubLayersMinus1 == 0 {
		return nil
	}

	subLayerProfilePresent := make([]uint, maxSubLayersMinus1)
	subLayerLevelPresent := make([]uint, maxSubLayersMinus1)
	for i := uint(0); i < maxSubLayersMinus1; i++ {
		if subLayerProfilePresent[i], err = br.ReadBit(); err != nil {
			return err
		}
		if subLayerLevelPresent[i], err = br.ReadBit(); err != nil {
			return err
		}
	}
	for i := maxSubLayersMinus1; i < 8; i++ {
		// reserved_zero_2bits
		if _, err = br.ReadBits(2); err != nil {
			return err
		}
	}
	for i := uint(0); i < maxSubLayersMinus1; i++ {
		if subLayerProfilePresent[i] != 0 {
			// sub_layer profile space/tier/idc/compatibility/constraints
			if _, err = br.ReadBits64(88); err != nil {
				return err
			}
		}
		if subLayerLevelPresent[i] != 0 {
			// sub_layer_level_idc
			if _, err = br.ReadBits(8); err != nil {
				return err
			}
		}
	}
	return nil
}

func skipScalingListData(br *bits.Reader) (err error) {
	for sizeID := 0; sizeID < 4; sizeID++ {
		step := 1
		if sizeID == 3 {
			step = 3
		}
		for matrixID := 0; matrixID < 6; matrixID += step {
			var predMode uint
			if predMode, err = br.ReadBit(); err != nil {
				return err
			}
			if predMode == 0 {
				// scaling_list_pred_matrix_id_delta
				if _, err = br.ReadExponentialGolombCode(); err != nil {
					return err
				}
				continue
			}
			coefNum := 1 << (4 + (sizeID << 1))
			if coefNum > 64 {
				coefNum = 64
			}
			if sizeID > 1 {
				// scaling_list_dc_coef_minus8
				if _, err = br.ReadSE(); err != nil {
					return err
				}
			}
			for i := 0; i < coefNum; i++ {
				// scaling_list_delta_coef
				if _, err = br.ReadSE(); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func skipPCMInfo(br *bits.Reader) (err error) {
	// pcm_sample_bit_depth_luma_minus1, pcm_sample_bit_depth_chroma_minus1
	if _, err = br.ReadBits(8); err != nil {
		return err
	}
	// log2_min_pcm_luma_coding_block_size_minus3, log2_diff
	if _, err = br.ReadExponentialGolombCode(); err != nil {
		return err
	}
	if _, err = br.ReadExponentialGolombCode(); err != nil {
		return err
	}
	// pcm_loop_filter_disabled_flag
	_, err = br.ReadBit()
	return err
}

// skipShortTermRefPicSets walks every st_ref_pic_set in the SPS, tracking
// NumDeltaPocs so the inter-predicted sets can be sized.
func skipShortTermRefPicSets(br *bits.Reader, count uint) (err error) {
	numDeltaPocs := make([]uint, count)
	for i := uint(0); i < count; i++ {
		interPred := uint(0)
		if i != 0 {
			if interPred, err = br.ReadBit(); err != nil {
				return err
			}
		}
		if interPred != 0 {
			// delta_rps_sign, abs_delta_rps_minus1
			if _, err = br.ReadBit(); err != nil {
				return err
			}
			if _, err = br.ReadExponentialGolombCode(); err != nil {
				return err
			}
			kept := uint(0)
			for j := uint(0); j <= numDeltaPocs[i-1]; j++ {
				var used uint
				if used, err = br.ReadBit(); err != nil {
					return err
				}
				useDelta := uint(1)
				if used == 0 {
					if useDelta, err = br.ReadBit(); err != nil {
						return err
					}
				}
				if used != 0 || useDelta != 0 {
					kept++
				}
			}
			numDeltaPocs[i] = kept
			continue
		}
		var negatives, positives uint
		if negatives, err = br.ReadExponentialGolombCode(); err != nil {
			return err
		}
		if positives, err = br.ReadExponentialGolombCode(); err != nil {
			return err
		}
		if negatives+positives > maxRefPicsPerSet {
			return utils.InvalidDataError{}
		}
		for i := uint(0); i < negatives+positives; i++ {
			// delta_poc_minus1, used_by_curr_pic_flag
			if _, err = br.ReadExponentialGolombCode(); err != nil {
				return err
			}
			if _, err = br.ReadBit(); err != nil {
				return err
			}
		}
		numDeltaPocs[i] = negatives + positives
	}
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

	// neutral_chroma_indication_flag, field_seq_flag, frame_field_info_present_flag
	if _, err = br.ReadBits(3); err != nil {
		return err
	}

	// default_display_window_flag
	if flag, err = br.ReadBit(); err != nil {
		return err
	}
	if flag != 0 {
		for i := 0; i < 4; i++ {
			if _, err = br.ReadExponentialGolombCode(); err != nil {
				return err
			}
		}
	}

	// vui_timing_info_present_flag
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
		if numUnitsInTick != 0 && timeScale != 0 {
			par.FrameRate = codec.Rational{Num: timeScale, Den: numUnitsInTick}
		}
	}

	// Anything after the timing block (HRD, bitstream restriction) carries
	// nothing this extractor reports.
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
