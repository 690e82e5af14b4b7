// internal/spectrum/pns.go
package spectrum

import (
	"math"

	"github.com/llehouerou/go-aac/internal/syntax"
)

// NoiseOffset is the offset applied to PNS scale factors.
// Ported from: NOISE_OFFSET in ~/dev/faad2/libfaad/pns.h:40
const NoiseOffset = 90

// PNSState holds the random number generator state for PNS decoding.
// The state must be preserved across frames for proper decoder behavior.
//
// Ported from: __r1, __r2 in ~/dev/faad2/libfaad/structs.h:406-407
type PNSState struct {
	R1 uint32
	R2 uint32
}

// NewPNSState creates a new PNS state with default initial values.
func NewPNSState() *PNSState {
	// Initial values pre-computed as equivalent to (1, 1) after 1024 iterations.
	// Copied from: ~/dev/faad2/libfaad/decoder.c:152-153
	return &PNSState{
		R1: 0x2bb431ea,
		R2: 0x206155b7,
	}
}

// PNSDecodeConfig holds configuration for PNS decoding.
type PNSDecodeConfig struct {
	// ICSL is the left channel's individual channel stream
	ICSL *syntax.ICStream

	// ICSR is the right channel's individual channel stream (nil for mono)
	ICSR *syntax.ICStream

	// FrameLength is the frame length (typically 1024 or 960)
	FrameLength uint16

	// ChannelPair is true if this is a CPE (channel pair element)
	ChannelPair bool

	// ObjectType is the AAC object type (for IMDCT scaling in fixed-point, unused in float)
	ObjectType uint8
}

// PNSDecode fills noise (PNS) scale factor bands with a pseudo-random
// vector normalized to the energy implied by the transmitted scale factor.
// When the element is a channel pair and the right channel shares the same
// noise band, the same underlying random vector is reused (sign-flipped
// when the M/S mask marks the band as inverted) so that subsequent M/S
// decoding correlates correctly between channels.
//
// Ported from: pns_decode() in ~/dev/faad2/libfaad/pns.c:81-159
func PNSDecode(specL, specR []float64, state *PNSState, cfg *PNSDecodeConfig) {
	icsL := cfg.ICSL
	icsR := cfg.ICSR
	nshort := cfg.FrameLength / 8
	group := uint16(0)

	for g := uint8(0); g < icsL.NumWindowGroups; g++ {
		for w := uint8(0); w < icsL.WindowGroupLength[g]; w++ {
			for sfb := uint8(0); sfb < icsL.MaxSFB; sfb++ {
				if !IsNoiseICS(icsL, g, sfb) {
					continue
				}

				start := icsL.SWBOffset[sfb]
				end := icsL.SWBOffset[sfb+1]
				if end > icsL.SWBOffsetMax {
					end = icsL.SWBOffsetMax
				}
				size := end - start
				if size == 0 {
					continue
				}

				noise := make([]float64, size)
				energy := 0.0
				for i := range noise {
					v := float64(int32(RNG(&state.R1, &state.R2))>>16) - 32768.0
					noise[i] = v
					energy += v * v
				}
				if energy == 0 {
					continue
				}
				normalize := 1.0 / math.Sqrt(energy/float64(size))

				scaleL := normalize * math.Pow(2, 0.25*(float64(icsL.ScaleFactors[g][sfb])-NoiseOffset))
				for i, v := range noise {
					bin := group*nshort + start + uint16(i)
					specL[bin] = v * scaleL
				}

				if cfg.ChannelPair && icsR != nil && IsNoiseICS(icsR, g, sfb) {
					sign := 1.0
					if icsL.MSUsed[g][sfb] != 0 {
						sign = -1.0
					}
					scaleR := normalize * math.Pow(2, 0.25*(float64(icsR.ScaleFactors[g][sfb])-NoiseOffset))
					for i, v := range noise {
						bin := group*nshort + start + uint16(i)
						specR[bin] = sign * v * scaleR
					}
				}
			}
			group++
		}
	}
}
