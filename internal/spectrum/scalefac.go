package spectrum

import (
	"math"

	"github.com/llehouerou/go-aac/internal/syntax"
)

// ApplyScaleFactorsConfig holds configuration for scale factor application.
type ApplyScaleFactorsConfig struct {
	// ICS contains window and scale factor information
	ICS *syntax.ICStream

	// FrameLength is the frame length (typically 1024 or 960)
	FrameLength uint16
}

// ApplyScaleFactors multiplies dequantized spectral coefficients by
// 2^((sf-100)/4) for every scale factor band. Intensity stereo and noise
// (PNS) bands are not scaled; their coefficients are set to zero.
//
// Ported from: apply individual scale factor loop in
// ~/dev/faad2/libfaad/specrec.c:670-706
func ApplyScaleFactors(spec []float64, cfg *ApplyScaleFactorsConfig) {
	ics := cfg.ICS
	nshort := cfg.FrameLength / 8
	group := uint16(0)

	for g := uint8(0); g < ics.NumWindowGroups; g++ {
		for w := uint8(0); w < ics.WindowGroupLength[g]; w++ {
			for sfb := uint8(0); sfb < ics.MaxSFB; sfb++ {
				start := ics.SWBOffset[sfb]
				end := ics.SWBOffset[sfb+1]
				if end > ics.SWBOffsetMax {
					end = ics.SWBOffsetMax
				}

				if IsIntensityICS(ics, g, sfb) != 0 || IsNoiseICS(ics, g, sfb) {
					for i := start; i < end; i++ {
						spec[group*nshort+i] = 0
					}
					continue
				}

				scale := math.Pow(2, 0.25*(float64(ics.ScaleFactors[g][sfb])-100))
				for i := start; i < end; i++ {
					bin := group*nshort + i
					spec[bin] *= scale
				}
			}
			group++
		}
	}
}
