// Package spectrum provides spectral processing functions for AAC decoding.

package spectrum

import (
	"math"

	"github.com/llehouerou/go-aac/internal/syntax"
)

// predAlpha and predA are the adaptation constants for the MAIN profile
// backward-adaptive predictor.
//
// Ported from: ALPHA, A in ~/dev/faad2/libfaad/ic_predict.c:47-48
const (
	predAlpha = 0.90625
	predA     = 0.953125
)

// PredState holds the state for one spectral coefficient's predictor.
// The values are quantized to 16-bit for memory efficiency and stability.
//
// Ported from: pred_state in ~/dev/faad2/libfaad/structs.h:51-55
type PredState struct {
	R   [2]int16 // Predictor state (past output)
	COR [2]int16 // Correlation accumulators
	VAR [2]int16 // Variance accumulators
}

// NewPredState creates a new predictor state with initial values.
func NewPredState() *PredState {
	s := &PredState{}
	ResetPredState(s)
	return s
}

// ResetPredState resets a single predictor state to initial values.
// After reset, the predictor will output zero prediction.
//
// Ported from: reset_pred_state() in ~/dev/faad2/libfaad/ic_predict.c:198-206
func ResetPredState(state *PredState) {
	state.R[0] = 0
	state.R[1] = 0
	state.COR[0] = 0
	state.COR[1] = 0
	state.VAR[0] = 0x3F80 // 1.0 in quantized form
	state.VAR[1] = 0x3F80 // 1.0 in quantized form
}

// ResetAllPredictors resets all predictor states in the array.
//
// Ported from: reset_all_predictors() in ~/dev/faad2/libfaad/ic_predict.c:236-241
func ResetAllPredictors(states []PredState, frameLen uint16) {
	for i := uint16(0); i < frameLen && int(i) < len(states); i++ {
		ResetPredState(&states[i])
	}
}

// quantPred truncates a float32 sample to its upper 16 bits (sign, exponent,
// and the 7 most significant mantissa bits), the reduced-precision form
// predictor state is stored in.
//
// Ported from: quant_pred() in ~/dev/faad2/libfaad/ic_predict.c:55-60
func quantPred(x float32) int16 {
	return int16(math.Float32bits(x) >> 16)
}

// invQuantPred reconstructs a float32 value from its quantized upper-16-bit
// form, with the low 16 mantissa bits set to zero.
//
// Ported from: inv_quant_pred() in ~/dev/faad2/libfaad/ic_predict.c:62-67
func invQuantPred(q int16) float32 {
	return math.Float32frombits(uint32(uint16(q)) << 16)
}

// fltRound rounds a float32 value to the precision retained by quantPred,
// rounding at bit 15 instead of truncating.
//
// Ported from: flt_round() in ~/dev/faad2/libfaad/ic_predict.c:69-79
func fltRound(pf float32) float32 {
	bits := math.Float32bits(pf)
	if bits&0x8000 != 0 {
		bits = (bits &^ 0xFFFF) + 0x10000
	} else {
		bits &^= 0xFFFF
	}
	return math.Float32frombits(bits)
}

// icPredict runs one step of the backward-adaptive second-order lattice
// predictor used by MAIN profile prediction: it predicts the current sample
// from the two-tap delay line in state, optionally adds the prediction to
// the input, and always updates the adaptive state from the unfiltered
// input sample so that prediction statistics keep tracking the signal even
// when prediction is not applied to a given bin.
//
// Ported from: ic_predict() in ~/dev/faad2/libfaad/ic_predict.c:81-131
func icPredict(state *PredState, input float32, pred bool) float32 {
	r0 := invQuantPred(state.R[0])
	r1 := invQuantPred(state.R[1])
	cor0 := invQuantPred(state.COR[0])
	cor1 := invQuantPred(state.COR[1])
	var0 := invQuantPred(state.VAR[0])
	var1 := invQuantPred(state.VAR[1])

	var k1, k2 float32
	if var0 > 1 {
		k1 = fltRound(cor0 / var0 * predAlpha)
	}
	if var1 > 1 {
		k2 = fltRound(cor1 / var1 * predAlpha)
	}

	predicted := fltRound(k1*r0 + k2*r1)

	output := input
	if pred {
		output = input + predicted
	}

	e0 := input
	e1 := e0 - k1*r0

	newVar0 := predA*var0 + 0.5*(r0*r0+e0*e0)
	newCor0 := predA*cor0 + r0*e0
	newVar1 := predA*var1 + 0.5*(r1*r1+e1*e1)
	newCor1 := predA*cor1 + r1*e1

	state.VAR[0] = quantPred(fltRound(newVar0))
	state.COR[0] = quantPred(fltRound(newCor0))
	state.VAR[1] = quantPred(fltRound(newVar1))
	state.COR[1] = quantPred(fltRound(newCor1))
	state.R[1] = quantPred(fltRound(r0))
	state.R[0] = quantPred(fltRound(e0))

	return output
}

// resetPredictorsPeriodic resets every 30th predictor state starting at
// (groupNumber-1), spreading full predictor resets across 30 consecutive
// frames instead of resetting everything at once.
//
// Ported from: the reset_group_number loop in
// ~/dev/faad2/libfaad/ic_predict.c:150-160
func resetPredictorsPeriodic(states []PredState, frameLen uint16, groupNumber uint8) {
	if groupNumber == 0 {
		return
	}
	offset := uint16(groupNumber-1) % 30
	for bin := offset; bin < frameLen && int(bin) < len(states); bin += 30 {
		ResetPredState(&states[bin])
	}
}

// ICPrediction applies MAIN profile intra-channel prediction to a decoded
// spectrum. Eight-short-sequence frames never carry prediction and instead
// force a full predictor reset. Otherwise, a transmitted predictor_reset
// triggers the periodic 30-way reset before predicting every bin whose
// scale factor band has prediction_used set.
//
// Ported from: ic_prediction() in ~/dev/faad2/libfaad/ic_predict.c:140-196
func ICPrediction(ics *syntax.ICStream, spec []float32, states []PredState, frameLen uint16, sfIndex uint8) {
	if ics.WindowSequence == syntax.EightShortSequence {
		ResetAllPredictors(states, frameLen)
		return
	}

	if ics.Pred.PredictorReset {
		resetPredictorsPeriodic(states, frameLen, ics.Pred.PredictorResetGroupNumber)
	}

	limit := ics.Pred.Limit
	if limit > ics.MaxSFB {
		limit = ics.MaxSFB
	}

	for sfb := uint8(0); sfb < limit; sfb++ {
		if !ics.Pred.PredictionUsed[sfb] {
			continue
		}

		start := ics.SWBOffset[sfb]
		end := ics.SWBOffset[sfb+1]
		if end > ics.SWBOffsetMax {
			end = ics.SWBOffsetMax
		}

		for bin := start; bin < end && int(bin) < len(states); bin++ {
			spec[bin] = icPredict(&states[bin], spec[bin], true)
		}
	}
}

// PNSResetPredState resets the MAIN profile predictor state for every bin
// whose scale factor band uses the noise (PNS) codebook, so that a band
// later re-used for real spectral data does not inherit adaptive state
// built up while it carried substituted noise. Eight-short-sequence frames
// already have their predictors fully reset by ICPrediction, so this is a
// no-op for short blocks.
//
// Ported from: pns_reset_pred_state() in ~/dev/faad2/libfaad/ic_predict.c:208-234
func PNSResetPredState(ics *syntax.ICStream, states []PredState) {
	if ics.WindowSequence == syntax.EightShortSequence {
		return
	}

	for sfb := uint8(0); sfb < ics.MaxSFB; sfb++ {
		if !IsNoiseICS(ics, 0, sfb) {
			continue
		}

		start := ics.SWBOffset[sfb]
		end := ics.SWBOffset[sfb+1]
		if end > ics.SWBOffsetMax {
			end = ics.SWBOffsetMax
		}

		for bin := start; bin < end && int(bin) < len(states); bin++ {
			ResetPredState(&states[bin])
		}
	}
}
