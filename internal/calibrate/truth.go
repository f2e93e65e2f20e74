// Package calibrate maps heterogeneous judgments onto one 0-100 truth scale
// and a seven-band label.
package calibrate

import (
	"math"

	"github.com/ppiankov/evidentia/internal/model"
)

// Neutral is the truth percentage that carries no information
const Neutral = 50.0

// MixedConfidence is the confidence at or above which a middle-band verdict
// is MIXED (weighed evidence on both sides) rather than UNVERIFIED.
const MixedConfidence = 60.0

// Band thresholds, highest first. A percentage belongs to the first band
// whose floor it reaches.
var bandFloors = []struct {
	floor float64
	band  model.Band
}{
	{86, model.BandTrue},
	{72, model.BandMostlyTrue},
	{58, model.BandLeaningTrue},
	{43, model.BandMixed}, // resolved against confidence
	{29, model.BandLeaningFalse},
	{15, model.BandMostlyFalse},
	{0, model.BandFalse},
}

// NormalizePercentage clamps x to [0,100]. Inputs in [0,1] are fractions, so
// 1 means 100%. NaN carries no information and becomes Neutral.
func NormalizePercentage(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return Neutral
	case x >= 0 && x <= 1:
		return x * 100
	case x < 0:
		return 0
	case x > 100:
		return 100
	default:
		return x
	}
}

// MapToBand returns the band for a truth percentage. The confidence only
// matters inside the middle band.
func MapToBand(pct, confidence float64) model.Band {
	pct = clamp(pct, 0, 100)
	for _, b := range bandFloors {
		if pct < b.floor {
			continue
		}
		if b.band == model.BandMixed {
			if NormalizePercentage(confidence) >= MixedConfidence {
				return model.BandMixed
			}
			return model.BandUnverified
		}
		return b.band
	}
	return model.BandFalse
}

// labelRange is the closed percentage interval a qualitative label may occupy
func labelRange(label model.QualitativeLabel) (lo, hi float64) {
	switch label {
	case model.LabelStrongSupport:
		return 72, 100
	case model.LabelPartialSupport:
		return 58, 72
	case model.LabelUncertain:
		return 43, 57
	case model.LabelRefuted:
		return 0, 28
	default:
		return 0, 100
	}
}

// BandFromQualitativeLabel converts a four-way judgment into a percentage.
// Each label maps linearly into its own range, monotonic in confidence:
//
//	strong-support  72 + 28c
//	partial-support 58 + 14c
//	uncertain       50
//	refuted         28(1-c)
//
// Confidence above 1 is read as a percentage. Unknown labels are Neutral.
func BandFromQualitativeLabel(label model.QualitativeLabel, confidence float64) float64 {
	c := clamp(NormalizePercentage(confidence)/100, 0, 1)

	switch label {
	case model.LabelStrongSupport:
		return 72 + 28*c
	case model.LabelPartialSupport:
		return 58 + 14*c
	case model.LabelRefuted:
		return 28 * (1 - c)
	default:
		return Neutral
	}
}

// LabelForPercentage is the inverse bucketing of BandFromQualitativeLabel
func LabelForPercentage(pct float64) model.QualitativeLabel {
	switch {
	case pct >= 72:
		return model.LabelStrongSupport
	case pct >= 58:
		return model.LabelPartialSupport
	case pct > 28:
		return model.LabelUncertain
	default:
		return model.LabelRefuted
	}
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
