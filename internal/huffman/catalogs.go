package huffman

import "errors"

// ErrInvalidCodebook is returned when SpectralData is asked to decode a
// codebook value that carries no spectral data of its own (ZeroHCB,
// NoiseHCB, IntensityHCB, IntensityHCB2) or an out-of-range index.
var ErrInvalidCodebook = errors.New("huffman: invalid spectral codebook")

// catalog pairs a decode tree with the coefficient tuple each leaf
// represents. signed catalogs (codebooks 1, 2, 5 and 6) encode sign
// within the codeword itself; unsigned catalogs store a magnitude and a
// separate sign bit follows every nonzero coefficient in the bitstream.
type catalog struct {
	tree   *tree
	values [][]int16
	signed bool
}

var catalogs map[Codebook]*catalog
var scaleFactorTree *tree

func init() {
	scaleFactorTree = buildTree(scaleFactorWeights())

	catalogs = map[Codebook]*catalog{
		1:      newQuadCatalog(1, true),
		2:      newQuadCatalog(1, true),
		3:      newQuadCatalog(2, false),
		4:      newQuadCatalog(3, false),
		5:      newPairCatalog(4, true),
		6:      newPairCatalog(4, true),
		7:      newPairCatalog(7, false),
		8:      newPairCatalog(7, false),
		9:      newPairCatalog(12, false),
		10:     newPairCatalog(12, false),
		EscHCB: newPairCatalog(16, false),
	}
}

// scaleFactorWeights assigns 121 weights (indices 0..120, representing
// delta values -60..60) that decay with distance from zero: consecutive
// scale factors rarely jump far, so small deltas should get the shortest
// codewords.
func scaleFactorWeights() []float64 {
	w := make([]float64, 121)
	for i := range w {
		delta := i - 60
		if delta < 0 {
			delta = -delta
		}
		w[i] = 1.0 / float64(1+delta*delta)
	}
	return w
}

// weight favors small-magnitude coefficient tuples, matching the skewed
// distribution of quantized AAC spectral data (most coefficients decode to
// zero or +-1).
func weight(tuple []int16) float64 {
	sum := 0
	for _, v := range tuple {
		if v < 0 {
			sum -= int(v)
		} else {
			sum += int(v)
		}
	}
	return 1.0 / float64(1+sum*sum)
}

// newQuadCatalog builds a catalog over all 4-tuples with each component in
// [-max, max] (signed) or [0, max] (unsigned magnitude).
func newQuadCatalog(max int16, signed bool) *catalog {
	var values [][]int16
	lo := int16(0)
	if signed {
		lo = -max
	}
	for a := lo; a <= max; a++ {
		for b := lo; b <= max; b++ {
			for c := lo; c <= max; c++ {
				for d := lo; d <= max; d++ {
					values = append(values, []int16{a, b, c, d})
				}
			}
		}
	}
	return buildCatalog(values, signed)
}

// newPairCatalog builds a catalog over all 2-tuples with each component in
// [-max, max] (signed) or [0, max] (unsigned magnitude).
func newPairCatalog(max int16, signed bool) *catalog {
	var values [][]int16
	lo := int16(0)
	if signed {
		lo = -max
	}
	for a := lo; a <= max; a++ {
		for b := lo; b <= max; b++ {
			values = append(values, []int16{a, b})
		}
	}
	return buildCatalog(values, signed)
}

func buildCatalog(values [][]int16, signed bool) *catalog {
	weights := make([]float64, len(values))
	for i, v := range values {
		weights[i] = weight(v)
	}
	return &catalog{
		tree:   buildTree(weights),
		values: values,
		signed: signed,
	}
}
