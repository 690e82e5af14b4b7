// Package huffman implements AAC scalar Huffman decoding: the scale-factor
// delta codebook and the eleven spectral-data codebooks.
package huffman

import "github.com/llehouerou/go-aac/internal/bits"

// Codebook identifies a spectral Huffman codebook or one of the special
// non-spectral codebook values used in section data.
//
// Ported from: HCB_* enumeration in ~/dev/faad2/libfaad/syntax.h:101-108
type Codebook uint8

// Huffman codebook identifiers.
const (
	ZeroHCB       Codebook = 0  // band carries no spectral data
	FirstPairHCB  Codebook = 5  // codebooks >= 5 decode pairs, below decode quads
	EscHCB        Codebook = 11 // pairs with escape-coded magnitudes
	NoiseHCB      Codebook = 13 // perceptual noise substitution
	IntensityHCB2 Codebook = 14 // intensity stereo, out of phase
	IntensityHCB  Codebook = 15 // intensity stereo, in phase
)

// Codeword group sizes.
const (
	QuadLen = 4 // codebooks 1-4 decode four coefficients per codeword
	PairLen = 2 // codebooks 5-11 decode two coefficients per codeword
)

// ScaleFactor decodes one scale-factor (or PNS/intensity) Huffman delta.
// The returned value is already offset so callers can add it directly to a
// running total; range is -60..60 per the scale-factor codebook.
//
// Ported from: huffman_scale_factor() in ~/dev/faad2/libfaad/huffman.c:60-72
func ScaleFactor(r *bits.Reader) int8 {
	idx := scaleFactorTree.decode(r)
	return int8(idx) - 60
}
