// internal/spectrum/tns.go
package spectrum

import (
	"github.com/llehouerou/go-aac/internal/syntax"
	"github.com/llehouerou/go-aac/internal/tables"
)

// TNSDecodeConfig holds configuration for frame-level TNS decoding.
type TNSDecodeConfig struct {
	// ICS is the individual channel stream carrying the parsed TNS filters
	ICS *syntax.ICStream

	// SRIndex is the sample rate index (0-15)
	SRIndex uint8

	// ObjectType is the AAC object type
	ObjectType tables.ObjectType

	// FrameLength is the frame length (typically 1024 or 960)
	FrameLength uint16
}

// TNSDecodeFrame applies every TNS filter present in a channel's ics_info to
// its spectral coefficients. Filters are applied per window, working down
// from the top scale factor band, each covering the band range described by
// its length and reconstructed via Levinson-Durbin from the transmitted
// reflection coefficients.
//
// Ported from: tns_decode_frame() in ~/dev/faad2/libfaad/tns.c:59-123
func TNSDecodeFrame(spec []float64, cfg *TNSDecodeConfig) {
	ics := cfg.ICS
	tns := &ics.TNS
	nshort := cfg.FrameLength / 8

	for w := uint8(0); w < ics.NumWindows; w++ {
		bottom := ics.MaxSFB

		for f := uint8(0); f < tns.NFilt[w]; f++ {
			top := bottom
			length := tns.Length[w][f]
			if length > top {
				bottom = 0
			} else {
				bottom = top - length
			}

			order := tns.Order[w][f]
			if order > TNSMaxOrder {
				order = TNSMaxOrder
			}
			if order == 0 {
				continue
			}

			var lpc [TNSMaxOrder + 1]float64
			tnsDecodeCoef(order, tns.CoefRes[w], tns.CoefCompress[w][f], tns.Coef[w][f][:], lpc[:])

			start := bottom
			if start > ics.MaxSFB {
				start = ics.MaxSFB
			}
			end := top
			if end > ics.MaxSFB {
				end = ics.MaxSFB
			}

			startBin := ics.SWBOffset[start]
			endBin := ics.SWBOffset[end]
			if endBin > ics.SWBOffsetMax {
				endBin = ics.SWBOffsetMax
			}
			size := int16(endBin) - int16(startBin)
			if size <= 0 {
				continue
			}

			base := uint16(w) * nshort
			if tns.Direction[w][f] != 0 {
				tnsARFilterWithOffset(spec, int(base+endBin-1), size, -1, lpc[:], order)
			} else {
				tnsARFilterWithOffset(spec, int(base+startBin), size, 1, lpc[:], order)
			}
		}
	}
}

// tnsARFilter applies an all-pole (AR) IIR filter to spectral coefficients.
// This is the core TNS decoding filter operation.
//
// The filter is defined by:
//
//	y[n] = x[n] - lpc[1]*y[n-1] - lpc[2]*y[n-2] - ... - lpc[order]*y[n-order]
//
// Parameters:
//   - spectrum: spectral data to filter (modified in-place), starting at offset 0
//   - size: number of samples to filter
//   - inc: direction (+1 for forward, -1 for backward)
//   - lpc: LPC filter coefficients (lpc[0] is always 1.0)
//   - order: filter order
//
// For forward filtering, pass the slice starting at the first sample.
// For backward filtering, this is a convenience wrapper that calls tnsARFilterWithOffset.
//
// Uses a double ringbuffer for efficient state management.
//
// Ported from: tns_ar_filter() in ~/dev/faad2/libfaad/tns.c:244-293
func tnsARFilter(spectrum []float64, size int16, inc int8, lpc []float64, order uint8) {
	tnsARFilterWithOffset(spectrum, 0, size, inc, lpc, order)
}

// tnsARFilterWithOffset applies an all-pole (AR) IIR filter to spectral coefficients
// starting at a specific offset within the spectrum slice.
//
// This version allows backward filtering by specifying a starting offset (e.g., the
// last element index for backward filtering) and a negative increment.
//
// Parameters:
//   - spectrum: full spectral data buffer (modified in-place)
//   - startOffset: index of first sample to process
//   - size: number of samples to filter
//   - inc: direction (+1 for forward, -1 for backward)
//   - lpc: LPC filter coefficients (lpc[0] is always 1.0)
//   - order: filter order
//
// Ported from: tns_ar_filter() in ~/dev/faad2/libfaad/tns.c:244-293
func tnsARFilterWithOffset(spectrum []float64, startOffset int, size int16, inc int8, lpc []float64, order uint8) {
	if size <= 0 || order == 0 {
		return
	}

	// State is stored as a double ringbuffer for efficient wraparound
	state := make([]float64, 2*TNSMaxOrder)
	stateIndex := int8(0)

	// Process each sample
	idx := startOffset
	for i := int16(0); i < size; i++ {
		// Compute filter output: y = x - sum(lpc[j+1] * state[j])
		y := 0.0
		for j := uint8(0); j < order; j++ {
			y += state[int(stateIndex)+int(j)] * lpc[j+1]
		}
		y = spectrum[idx] - y

		// Update double ringbuffer state
		stateIndex--
		if stateIndex < 0 {
			stateIndex = int8(order - 1)
		}
		state[stateIndex] = y
		state[int(stateIndex)+int(order)] = y

		// Write output and advance
		spectrum[idx] = y
		idx += int(inc)
	}
}

// tnsMAFilter applies a moving-average (FIR) filter to spectral coefficients.
// It is the non-feedback counterpart of tnsARFilter, used to re-derive the
// TNS-filtered form of a spectrum an encoder would have seen (LTP's
// predicted spectrum estimate must go through the same TNS shaping as the
// original before it can be compared against or added to decoded data).
//
// The filter is defined by:
//
//	y[n] = x[n] + lpc[1]*x[n-1] + lpc[2]*x[n-2] + ... + lpc[order]*x[n-order]
//
// Ported from: tns_ma_filter() in ~/dev/faad2/libfaad/tns.c:295-340
func tnsMAFilter(spectrum []float64, size int16, inc int8, lpc []float64, order uint8) {
	tnsMAFilterWithOffset(spectrum, 0, size, inc, lpc, order)
}

// tnsMAFilterWithOffset is tnsMAFilter starting at a specific offset, mirroring
// tnsARFilterWithOffset.
//
// Ported from: tns_ma_filter() in ~/dev/faad2/libfaad/tns.c:295-340
func tnsMAFilterWithOffset(spectrum []float64, startOffset int, size int16, inc int8, lpc []float64, order uint8) {
	if size <= 0 || order == 0 {
		return
	}

	state := make([]float64, 2*TNSMaxOrder)
	stateIndex := int8(0)

	idx := startOffset
	for i := int16(0); i < size; i++ {
		x := spectrum[idx]
		y := x
		for j := uint8(0); j < order; j++ {
			y += state[int(stateIndex)+int(j)] * lpc[j+1]
		}

		stateIndex--
		if stateIndex < 0 {
			stateIndex = int8(order - 1)
		}
		state[stateIndex] = x
		state[int(stateIndex)+int(order)] = x

		spectrum[idx] = y
		idx += int(inc)
	}
}

// TNSEncodeFrame re-applies the TNS shaping described by a channel's ics_info
// to a spectrum that has not yet been through it, using the moving-average
// filter that is the analysis-side counterpart of TNSDecodeFrame's synthesis
// filter. LTP uses this to bring its time-domain prediction estimate back in
// line with the TNS-shaped form of the spectrum it is added to.
//
// Filters are applied in reverse transmission order, undoing the cascade the
// same way the encoder built it up.
//
// Ported from: tns_encode_frame() in ~/dev/faad2/libfaad/tns.c:125-191
func TNSEncodeFrame(spec []float64, cfg *TNSDecodeConfig) {
	ics := cfg.ICS
	tns := &ics.TNS
	nshort := cfg.FrameLength / 8

	for w := uint8(0); w < ics.NumWindows; w++ {
		nfilt := tns.NFilt[w]
		tops := make([]uint8, nfilt)
		bottoms := make([]uint8, nfilt)

		bottom := ics.MaxSFB
		for f := uint8(0); f < nfilt; f++ {
			top := bottom
			length := tns.Length[w][f]
			if length > top {
				bottom = 0
			} else {
				bottom = top - length
			}
			tops[f] = top
			bottoms[f] = bottom
		}

		for i := int(nfilt) - 1; i >= 0; i-- {
			f := uint8(i)
			top := tops[f]
			bot := bottoms[f]

			order := tns.Order[w][f]
			if order > TNSMaxOrder {
				order = TNSMaxOrder
			}
			if order == 0 {
				continue
			}

			var lpc [TNSMaxOrder + 1]float64
			tnsDecodeCoef(order, tns.CoefRes[w], tns.CoefCompress[w][f], tns.Coef[w][f][:], lpc[:])

			start := bot
			if start > ics.MaxSFB {
				start = ics.MaxSFB
			}
			end := top
			if end > ics.MaxSFB {
				end = ics.MaxSFB
			}

			startBin := ics.SWBOffset[start]
			endBin := ics.SWBOffset[end]
			if endBin > ics.SWBOffsetMax {
				endBin = ics.SWBOffsetMax
			}
			size := int16(endBin) - int16(startBin)
			if size <= 0 {
				continue
			}

			base := uint16(w) * nshort
			if tns.Direction[w][f] != 0 {
				tnsMAFilterWithOffset(spec, int(base+endBin-1), size, -1, lpc[:], order)
			} else {
				tnsMAFilterWithOffset(spec, int(base+startBin), size, 1, lpc[:], order)
			}
		}
	}
}

// tnsDecodeCoef converts transmitted TNS coefficients to LPC filter coefficients.
// Uses Levinson-Durbin recursion to convert reflection coefficients to direct form.
//
// Parameters:
//   - order: filter order (0-20)
//   - coefRes: coefficient resolution (0=3-bit, 1=4-bit)
//   - coefCompress: compression flag (0 or 1)
//   - coef: transmitted coefficient indices
//   - lpc: output LPC coefficients (must be len >= order+1)
//
// Ported from: tns_decode_coef() in ~/dev/faad2/libfaad/tns.c:193-242
func tnsDecodeCoef(order uint8, coefRes uint8, coefCompress uint8, coef []uint8, lpc []float64) {
	// Get the appropriate coefficient table
	tnsCoef := getTNSCoefTable(coefCompress, coefRes)

	// Convert transmitted indices to coefficient values
	tmp2 := make([]float64, TNSMaxOrder+1)
	for i := uint8(0); i < order; i++ {
		tmp2[i] = tnsCoef[coef[i]]
	}

	// Levinson-Durbin recursion to convert reflection coefficients to LPC
	// a[0] is always 1.0
	lpc[0] = 1.0

	b := make([]float64, TNSMaxOrder+1)
	for m := uint8(1); m <= order; m++ {
		// Set a[m] = reflection coefficient
		lpc[m] = tmp2[m-1]

		// Update previous coefficients
		for i := uint8(1); i < m; i++ {
			b[i] = lpc[i] + lpc[m]*lpc[m-i]
		}
		for i := uint8(1); i < m; i++ {
			lpc[i] = b[i]
		}
	}
}
