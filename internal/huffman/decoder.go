package huffman

import "github.com/llehouerou/go-aac/internal/bits"

// escapeValue decodes a Huffman escape-coded magnitude as used by codebook
// 11 (HCB_ESC): a run of 1-bits of length n-4 (n>=4) terminated by a 0-bit,
// followed by n data bits, yielding (1<<n)+m.
//
// Ported from: huffman_getescape() in ~/dev/faad2/libfaad/huffman.c:88-116
func escapeValue(r *bits.Reader) int32 {
	n := uint(4)
	for r.Get1Bit() != 0 {
		n++
	}
	m := int32(r.GetBits(n))
	return (1 << n) + m
}

// SpectralData decodes one Huffman codeword for the given spectral codebook
// and writes its coefficients into out (4 values for codebooks 1-4, 2 for
// codebooks 5-11). Catalogs built for codebooks 3, 4, 7-10 and the escape
// codebook (11) store unsigned magnitudes, each followed in the bitstream by
// a sign bit when nonzero; the catalogs for codebooks 1, 2, 5 and 6 store
// signed values directly, matching FAAD2's split between sign-in-codeword
// and sign-after-codeword codebooks.
//
// Ported from: huffman_spectral_data[_2]() in ~/dev/faad2/libfaad/huffman.c:150-260
func SpectralData(sectCB uint8, r *bits.Reader, out []int16) error {
	cb := Codebook(sectCB)
	cat, ok := catalogs[cb]
	if !ok {
		return ErrInvalidCodebook
	}

	idx := cat.tree.decode(r)
	values := cat.values[idx]

	for i, v := range values {
		if cat.signed {
			out[i] = v
			continue
		}
		mag := int32(v)
		if cb == EscHCB && mag == 16 {
			mag = escapeValue(r)
		}
		if mag != 0 && r.Get1Bit() != 0 {
			mag = -mag
		}
		out[i] = int16(mag)
	}
	return nil
}
