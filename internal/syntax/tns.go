// internal/syntax/tns.go
package syntax

import "github.com/llehouerou/go-aac/internal/bits"

// TNSInfo contains Temporal Noise Shaping filter data.
// TNS applies an all-pole filter to shape the quantization noise.
// Filters are stored per window: up to 3 for a long window, 1 for a short window.
//
// Ported from: tns_info in ~/dev/faad2/libfaad/structs.h:218-227
type TNSInfo struct {
	NFilt        [MaxWindowGroups]uint8        // Number of filters per window (0-3 long, 0-1 short)
	CoefRes      [MaxWindowGroups]uint8        // Coefficient resolution (3 or 4 bits)
	Length       [MaxWindowGroups][4]uint8     // Filter length (region) per filter
	Order        [MaxWindowGroups][4]uint8     // Filter order (0-20 for long, 0-7 for short)
	Direction    [MaxWindowGroups][4]uint8     // Filter direction (0=upward, 1=downward)
	CoefCompress [MaxWindowGroups][4]uint8     // Coefficient compression flag
	Coef         [MaxWindowGroups][4][32]uint8 // Filter coefficients (up to 32 per filter)
}

// ParseTNSData parses tns_data() from the bitstream: per-window filter
// counts, coefficient resolution, and per-filter length/order/direction/
// coefficients.
//
// Ported from: tns_data() in ~/dev/faad2/libfaad/syntax.c:1438-1487
func ParseTNSData(r *bits.Reader, ics *ICStream, tns *TNSInfo) error {
	var nFiltBits, lengthBits, orderBits uint
	if ics.WindowSequence == EightShortSequence {
		nFiltBits, lengthBits, orderBits = 1, 4, 3
	} else {
		nFiltBits, lengthBits, orderBits = 2, 6, 5
	}

	for w := uint8(0); w < ics.NumWindows; w++ {
		tns.NFilt[w] = uint8(r.GetBits(nFiltBits))
		if tns.NFilt[w] == 0 {
			continue
		}
		tns.CoefRes[w] = uint8(r.GetBits(1))

		for f := uint8(0); f < tns.NFilt[w]; f++ {
			tns.Length[w][f] = uint8(r.GetBits(lengthBits))
			tns.Order[w][f] = uint8(r.GetBits(orderBits))
			if tns.Order[w][f] == 0 {
				continue
			}

			tns.Direction[w][f] = uint8(r.GetBits(1))
			tns.CoefCompress[w][f] = uint8(r.GetBits(1))

			coefBits := uint(3)
			if tns.CoefRes[w] != 0 {
				coefBits = 4
			}
			if tns.CoefCompress[w][f] != 0 {
				coefBits--
			}

			for i := uint8(0); i < tns.Order[w][f]; i++ {
				tns.Coef[w][f][i] = uint8(r.GetBits(coefBits))
			}
		}
	}

	return nil
}
