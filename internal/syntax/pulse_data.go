package syntax

import "github.com/llehouerou/go-aac/internal/bits"

// ParsePulseData parses the pulse_data() element from the bitstream.
// Pulse coding is only valid for long blocks (checked by the caller via
// ics.WindowSequence) and only adjusts up to four spectral coefficients.
//
// Ported from: pulse_data() in ~/dev/faad2/libfaad/syntax.c:1697-1715
func ParsePulseData(r *bits.Reader, ics *ICStream, pul *PulseInfo) error {
	pul.NumberPulse = uint8(r.GetBits(2))
	pul.PulseStartSFB = uint8(r.GetBits(6))

	if pul.PulseStartSFB > ics.NumSWB {
		return ErrPulseStartSFB
	}

	for i := uint8(0); i <= pul.NumberPulse; i++ {
		pul.PulseOffset[i] = uint8(r.GetBits(5))
		pul.PulseAmp[i] = uint8(r.GetBits(4))
	}

	return nil
}
