// internal/syntax/cpe.go
package syntax

import "github.com/llehouerou/go-aac/internal/bits"

// CPEConfig holds configuration for Channel Pair Element parsing.
// Ported from: channel_pair_element() parameters in ~/dev/faad2/libfaad/syntax.c:698
type CPEConfig struct {
	SFIndex     uint8  // Sample rate index (0-11)
	FrameLength uint16 // Frame length (960 or 1024)
	ObjectType  uint8  // Audio object type
}

// CPEResult holds the result of parsing a Channel Pair Element.
// Ported from: channel_pair_element() return values in ~/dev/faad2/libfaad/syntax.c:698-826
type CPEResult struct {
	Element   Element // Parsed element data (contains ICS1 and ICS2)
	SpecData1 []int16 // Spectral coefficients for channel 1 (1024 or 960 values)
	SpecData2 []int16 // Spectral coefficients for channel 2 (1024 or 960 values)
	Tag       uint8   // Element instance tag (for channel mapping)
}

// copyWindowInfo mirrors the window layout of a common_window CPE's first
// channel onto its second: the window sequence and max_sfb are shared by
// the bitstream, but the derived SFB offsets are recomputed independently
// rather than copied, since WindowGroupingInfo is cheap and side-effect free.
func copyWindowInfo(dst, src *ICStream, sfIndex uint8, frameLength uint16) error {
	dst.WindowSequence = src.WindowSequence
	dst.WindowShape = src.WindowShape
	dst.MaxSFB = src.MaxSFB
	dst.ScaleFactorGrouping = src.ScaleFactorGrouping
	return WindowGroupingInfo(dst, sfIndex, frameLength)
}

// ParseChannelPairElement parses channel_pair_element(): the shared window
// info (when common_window is set) followed by two independent
// individual_channel_stream() bodies.
//
// Ported from: channel_pair_element() in ~/dev/faad2/libfaad/syntax.c:698-826
func ParseChannelPairElement(r *bits.Reader, tag uint8, cfg *CPEConfig) (*CPEResult, error) {
	result := &CPEResult{
		Tag:       tag,
		SpecData1: make([]int16, cfg.FrameLength),
		SpecData2: make([]int16, cfg.FrameLength),
	}
	result.Element.ElementInstanceTag = tag
	result.Element.PairedChannel = 1
	result.Element.CommonWindow = r.Get1Bit() != 0

	if result.Element.CommonWindow {
		icsInfoCfg := &ICSInfoConfig{
			SFIndex:      cfg.SFIndex,
			FrameLength:  cfg.FrameLength,
			ObjectType:   cfg.ObjectType,
			CommonWindow: true,
		}
		if err := ParseICSInfo(r, &result.Element.ICS1, icsInfoCfg); err != nil {
			return nil, err
		}

		msMaskPresent := uint8(r.GetBits(2))
		result.Element.ICS1.MSMaskPresent = msMaskPresent
		if msMaskPresent == 3 {
			return nil, ErrMSMaskReserved
		}
		if msMaskPresent == 1 {
			for g := uint8(0); g < result.Element.ICS1.NumWindowGroups; g++ {
				for sfb := uint8(0); sfb < result.Element.ICS1.MaxSFB; sfb++ {
					result.Element.ICS1.MSUsed[g][sfb] = r.Get1Bit()
				}
			}
		}

		if err := copyWindowInfo(&result.Element.ICS2, &result.Element.ICS1, cfg.SFIndex, cfg.FrameLength); err != nil {
			return nil, err
		}
	}

	streamCfg := &ICStreamConfig{
		SFIndex:      cfg.SFIndex,
		FrameLength:  cfg.FrameLength,
		ObjectType:   cfg.ObjectType,
		CommonWindow: result.Element.CommonWindow,
	}
	if err := ParseIndividualChannelStream(r, &result.Element.ICS1, streamCfg, result.SpecData1); err != nil {
		return nil, err
	}
	if err := ParseIndividualChannelStream(r, &result.Element.ICS2, streamCfg, result.SpecData2); err != nil {
		return nil, err
	}

	return result, nil
}
