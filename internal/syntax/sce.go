// internal/syntax/sce.go
package syntax

import "github.com/llehouerou/go-aac/internal/bits"

// SCEConfig holds configuration for Single Channel Element parsing.
// Ported from: single_lfe_channel_element() parameters in ~/dev/faad2/libfaad/syntax.c:1060
type SCEConfig struct {
	SFIndex     uint8  // Sample rate index (0-11)
	FrameLength uint16 // Frame length (960 or 1024)
	ObjectType  uint8  // Audio object type
}

// SCEResult holds the result of parsing a Single Channel Element.
// Ported from: single_lfe_channel_element() return values in ~/dev/faad2/libfaad/syntax.c:1060-1095
type SCEResult struct {
	Element  Element // Parsed element data
	SpecData []int16 // Spectral coefficients (1024 or 960 values)
	Tag      uint8   // Element instance tag (for channel mapping)
}

// ParseSingleChannelElement parses single_lfe_channel_element() for the
// given pre-read element_instance_tag. Used for both SCE and LFE elements,
// which share the same bitstream layout.
//
// Ported from: single_lfe_channel_element() in ~/dev/faad2/libfaad/syntax.c:1060-1095
func ParseSingleChannelElement(r *bits.Reader, tag uint8, cfg *SCEConfig) (*SCEResult, error) {
	result := &SCEResult{
		Tag:      tag,
		SpecData: make([]int16, cfg.FrameLength),
	}
	result.Element.ElementInstanceTag = tag
	result.Element.PairedChannel = -1

	icsCfg := &ICStreamConfig{
		SFIndex:      cfg.SFIndex,
		FrameLength:  cfg.FrameLength,
		ObjectType:   cfg.ObjectType,
		CommonWindow: false,
	}
	if err := ParseIndividualChannelStream(r, &result.Element.ICS1, icsCfg, result.SpecData); err != nil {
		return nil, err
	}

	if result.Element.ICS1.IsUsed {
		return nil, ErrIntensityStereoInSCE
	}

	return result, nil
}
