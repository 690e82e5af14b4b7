// internal/syntax/ics_stream.go
package syntax

import "github.com/llehouerou/go-aac/internal/bits"

// ICStreamConfig holds configuration for individual_channel_stream parsing.
type ICStreamConfig struct {
	SFIndex      uint8
	FrameLength  uint16
	ObjectType   uint8
	CommonWindow bool // true when window info was already parsed by the caller (CPE)
	ScalFlag     bool // true inside an AAC-scalable base layer (not supported; always false here)
}

// SideInfoConfig and ICSConfig are the same configuration shape used by
// different callers in FAAD2 (side_info() vs individual_channel_stream()
// for error-resilience object types); this decoder does not special-case
// ER bitstream layout, so both share ICStreamConfig's fields.
type SideInfoConfig = ICStreamConfig
type ICSConfig = ICStreamConfig

// ParseIndividualChannelStream parses individual_channel_stream(): global
// gain, optional ics_info, section data, scale factors, pulse/TNS/gain
// control flags, and finally the Huffman-coded spectral data.
//
// Ported from: individual_channel_stream() in ~/dev/faad2/libfaad/syntax.c:952-1020
func ParseIndividualChannelStream(r *bits.Reader, ics *ICStream, cfg *ICStreamConfig, specData []int16) error {
	ics.GlobalGain = uint8(r.GetBits(8))

	if !cfg.CommonWindow {
		icsCfg := &ICSInfoConfig{
			SFIndex:      cfg.SFIndex,
			FrameLength:  cfg.FrameLength,
			ObjectType:   cfg.ObjectType,
			CommonWindow: cfg.CommonWindow,
		}
		if err := ParseICSInfo(r, ics, icsCfg); err != nil {
			return err
		}
	}

	if err := ParseSectionData(r, ics); err != nil {
		return err
	}
	if err := ParseScaleFactorData(r, ics); err != nil {
		return err
	}

	ics.PulseDataPresent = r.Get1Bit() != 0
	if ics.PulseDataPresent {
		if ics.WindowSequence == EightShortSequence {
			return ErrPulseInShortBlock
		}
		if err := ParsePulseData(r, ics, &ics.Pul); err != nil {
			return err
		}
	}

	ics.TNSDataPresent = r.Get1Bit() != 0
	if ics.TNSDataPresent {
		if err := ParseTNSData(r, ics, &ics.TNS); err != nil {
			return err
		}
	}

	ics.GainControlDataPresent = r.Get1Bit() != 0
	if ics.GainControlDataPresent {
		return ErrGainControlNotSupported
	}

	return ParseSpectralData(r, ics, specData, cfg.FrameLength)
}
