// internal/syntax/fill.go
package syntax

import "github.com/llehouerou/go-aac/internal/bits"

// parseExcludedChannels parses the excluded_channels() element for DRC.
// Returns the number of bytes consumed (for byte counting in DRC parsing).
//
// Ported from: excluded_channels() in ~/dev/faad2/libfaad/syntax.c:2367-2394
func parseExcludedChannels(r *bits.Reader, drc *DRCInfo) uint8 {
	var n uint8
	numExclChan := 7

	// Read first 7 exclude_mask bits
	for i := 0; i < 7; i++ {
		drc.ExcludeMask[i] = r.Get1Bit()
	}
	n++

	// Read additional excluded channels groups
	for {
		additionalBit := r.Get1Bit()
		drc.AdditionalExcludedChns[n-1] = additionalBit

		if additionalBit == 0 {
			break
		}

		// Check bounds
		if numExclChan >= MaxChannels-7 {
			return n
		}

		// Read next 7 exclude_mask bits
		for i := numExclChan; i < numExclChan+7; i++ {
			if i < MaxChannels {
				drc.ExcludeMask[i] = r.Get1Bit()
			}
		}
		n++
		numExclChan += 7
	}

	return n
}

// parseDynamicRangeInfo parses dynamic_range_info() and returns the number
// of bytes consumed, so the caller can subtract it from the fill element's
// remaining byte count.
//
// Ported from: dynamic_range_info() in ~/dev/faad2/libfaad/syntax.c:2320-2365
func parseDynamicRangeInfo(r *bits.Reader, drc *DRCInfo) uint8 {
	n := uint8(1)
	drc.Present = true
	drc.NumBands = 1

	if r.Get1Bit() != 0 {
		drc.PCEInstanceTag = uint8(r.GetBits(4))
		r.FlushBits(4) // drc_tag_reserved_bits
		n++
	}

	drc.ExcludedChnsPresent = r.Get1Bit() != 0
	if drc.ExcludedChnsPresent {
		n += parseExcludedChannels(r, drc)
	}

	if r.Get1Bit() != 0 {
		drc.NumBands = uint8(r.GetBits(4)) + 1
		n++
		for i := uint8(0); i < drc.NumBands; i++ {
			drc.BandTop[i] = uint8(r.GetBits(8))
			n++
		}
	}

	if r.Get1Bit() != 0 {
		drc.ProgRefLevel = uint8(r.GetBits(7))
		r.FlushBits(1) // reserved
		n++
	}

	for i := uint8(0); i < drc.NumBands; i++ {
		drc.DynRngSgn[i] = r.Get1Bit()
		drc.DynRngCtl[i] = uint8(r.GetBits(7))
		n++
	}

	return n
}

// ParseFillElement parses fill_element(): a count-prefixed run of extension
// payloads. Only the dynamic range control extension is decoded; anything
// else (including SBR fill data, which this decoder does not support) is
// skipped byte for byte.
//
// Ported from: fill_element() in ~/dev/faad2/libfaad/syntax.c:1109-1158
func ParseFillElement(r *bits.Reader, drc *DRCInfo) error {
	count := uint16(r.GetBits(4))
	if count == 15 {
		count += uint16(r.GetBits(8)) - 1
	}

	for count > 0 {
		extType := ExtensionType(r.GetBits(4))
		count--

		switch extType {
		case ExtDynamicRange:
			consumed := parseDynamicRangeInfo(r, drc)
			if uint16(consumed) > count {
				count = 0
			} else {
				count -= uint16(consumed)
			}
		default:
			for i := uint16(0); i < count; i++ {
				r.GetBits(LenByte)
			}
			count = 0
		}
	}

	return nil
}
