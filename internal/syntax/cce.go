// internal/syntax/cce.go
package syntax

import (
	"github.com/llehouerou/go-aac/internal/bits"
	"github.com/llehouerou/go-aac/internal/huffman"
)

// CCEConfig holds configuration for Coupling Channel Element parsing.
// Ported from: coupling_channel_element() parameters in ~/dev/faad2/libfaad/syntax.c:987
type CCEConfig struct {
	SFIndex     uint8  // Sample rate index (0-11)
	FrameLength uint16 // Frame length (960 or 1024)
	ObjectType  uint8  // Audio object type
}

// CCECoupledElement holds information about a coupled element target.
// Ported from: coupling_channel_element() loop in ~/dev/faad2/libfaad/syntax.c:1006-1027
type CCECoupledElement struct {
	TargetIsCPE bool  // True if target is a CPE (vs SCE)
	TargetTag   uint8 // Target element instance tag (0-15)
	CCL         bool  // Apply coupling to left channel (only if TargetIsCPE)
	CCR         bool  // Apply coupling to right channel (only if TargetIsCPE)
}

// CCEResult holds the result of parsing a Coupling Channel Element.
// Note: CCE data is parsed but not used for decoding (rarely used in practice).
// Ported from: coupling_channel_element() in ~/dev/faad2/libfaad/syntax.c:987-1076
type CCEResult struct {
	Tag                 uint8                // Element instance tag (0-15)
	IndSwCCEFlag        bool                 // Independently switched CCE
	NumCoupledElements  uint8                // Number of coupled elements (0-7)
	CoupledElements     [8]CCECoupledElement // Coupled element targets
	NumGainElementLists uint8                // Number of gain element lists
	CCDomain            bool                 // Coupling domain (0=before TNS, 1=after TNS)
	GainElementSign     bool                 // Sign of gain elements
	GainElementScale    uint8                // Scale of gain elements (0-3)
	Element             Element              // Parsed ICS element
	SpecData            []int16              // Spectral data (parsed but not used)
}

// parseCCEHeader parses the element_instance_tag through gain_element_scale
// portion of coupling_channel_element(), before the coupled element's own
// individual_channel_stream() and gain lists.
//
// Ported from: coupling_channel_element() header loop in ~/dev/faad2/libfaad/syntax.c:987-1027
func parseCCEHeader(r *bits.Reader, result *CCEResult) error {
	result.Tag = uint8(r.GetBits(LenTag))
	result.IndSwCCEFlag = r.Get1Bit() != 0
	result.NumCoupledElements = uint8(r.GetBits(3))

	for c := uint8(0); c <= result.NumCoupledElements; c++ {
		result.NumGainElementLists++

		ce := &result.CoupledElements[c]
		ce.TargetIsCPE = r.Get1Bit() != 0
		ce.TargetTag = uint8(r.GetBits(LenTag))

		if ce.TargetIsCPE {
			ce.CCL = r.Get1Bit() != 0
			ce.CCR = r.Get1Bit() != 0
			if ce.CCL && ce.CCR {
				result.NumGainElementLists++
			}
		}
	}

	result.CCDomain = r.Get1Bit() != 0
	result.GainElementSign = r.Get1Bit() != 0
	result.GainElementScale = uint8(r.GetBits(2))

	return nil
}

// ParseCouplingChannelElement parses a full coupling_channel_element():
// the header, the coupled channel's individual_channel_stream(), and the
// per-list gain data. Coupling is rare in practice and this decoder does
// not apply the decoded gains to any target channel (matching the
// CCEResult doc comment): the element is parsed only so the bitstream
// stays byte-aligned for whatever element follows it.
//
// Ported from: coupling_channel_element() in ~/dev/faad2/libfaad/syntax.c:987-1076
func ParseCouplingChannelElement(r *bits.Reader, cfg *CCEConfig) (*CCEResult, error) {
	result := &CCEResult{}
	if err := parseCCEHeader(r, result); err != nil {
		return nil, err
	}

	result.SpecData = make([]int16, cfg.FrameLength)
	streamCfg := &ICStreamConfig{
		SFIndex:      cfg.SFIndex,
		FrameLength:  cfg.FrameLength,
		ObjectType:   cfg.ObjectType,
		CommonWindow: false,
	}
	if err := ParseIndividualChannelStream(r, &result.Element.ICS1, streamCfg, result.SpecData); err != nil {
		return nil, err
	}

	for list := uint8(0); list < result.NumGainElementLists; list++ {
		cge := list == 0
		for g := uint8(0); g < result.Element.ICS1.NumWindowGroups; g++ {
			for sfb := uint8(0); sfb < result.Element.ICS1.MaxSFB; sfb++ {
				if result.Element.ICS1.SFBCB[g][sfb] == uint8(0) {
					continue
				}
				if !cge {
					cge = r.Get1Bit() != 0
				}
				if cge {
					huffman.ScaleFactor(r)
				} else {
					r.GetBits(2)
				}
			}
		}
	}

	return result, nil
}
