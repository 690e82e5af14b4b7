package bits

import (
	"testing"

	"pgregory.net/rapid"
)

// TestReader_PeekThenGetRoundTrip checks the invariant that ShowBits(n)
// followed by GetBits(n) always returns the same value, for random widths
// whose reads fall anywhere relative to the buffer's word boundaries.
func TestReader_PeekThenGetRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOfN(rapid.Byte(), 16, 64).Draw(t, "data")
		widths := rapid.SliceOfN(rapid.IntRange(1, 32), 1, 40).Draw(t, "widths")

		r := NewReader(data)
		for _, w := range widths {
			n := uint(w)
			peeked := r.ShowBits(n)
			got := r.GetBits(n)
			if peeked != got {
				t.Fatalf("ShowBits(%d)=%d then GetBits(%d)=%d diverged", n, peeked, n, got)
			}
		}
	})
}

// TestReader_ByteAlignIsIdempotent checks that aligning twice in a row is
// the same as aligning once.
func TestReader_ByteAlignIsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOfN(rapid.Byte(), 8, 32).Draw(t, "data")
		skip := rapid.IntRange(0, 60).Draw(t, "skip")

		r := NewReader(data)
		r.FlushBits(uint(skip))
		r.ByteAlign()
		first := r.GetProcessedBits()
		r.ByteAlign()
		second := r.GetProcessedBits()

		if first != second {
			t.Fatalf("ByteAlign not idempotent: %d then %d", first, second)
		}
		if first%8 != 0 {
			t.Fatalf("ByteAlign left %d processed bits, not byte-aligned", first)
		}
	})
}
