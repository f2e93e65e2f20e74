package calibrate

import (
	"fmt"
	"regexp"

	"github.com/ppiankov/evidentia/internal/model"
)

// Calibration is the canonical reading of one raw judgment
type Calibration struct {
	RawScore        float64
	RawConfidence   float64
	TruthPercentage float64
	Confidence      float64
	Band            model.Band
	Escalated       bool
}

// Calibrator turns raw claim judgments into calibrated verdict numbers
type Calibrator struct {
	escalation []*regexp.Regexp
}

// NewCalibrator compiles the escalation patterns. A claim whose text matches
// any of them is stepped one label toward refuted when the judgment reports
// counter-evidence.
func NewCalibrator(escalationPatterns []string) (*Calibrator, error) {
	c := &Calibrator{}
	for _, p := range escalationPatterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("compile escalation pattern %q: %w", p, err)
		}
		c.escalation = append(c.escalation, re)
	}
	return c, nil
}

// Calibrate maps a raw judgment onto the truth scale.
//
// A numeric score is used when present, clamped into the range of the
// qualitative label if both are given. A label alone uses the linear label
// mapping. Neither yields Neutral.
func (c *Calibrator) Calibrate(j model.ClaimJudgment, claimText string) Calibration {
	conf := NormalizePercentage(j.Confidence)
	label := j.Label

	var score float64
	hasScore := j.Score != nil
	if hasScore {
		score = NormalizePercentage(*j.Score)
	}

	raw := Neutral
	switch {
	case hasScore:
		raw = score
	case label != model.LabelUnknown && label != "":
		raw = BandFromQualitativeLabel(label, conf)
	}

	out := Calibration{RawScore: raw, RawConfidence: conf, Confidence: conf}

	if c.escalates(j, claimText) {
		if label == model.LabelUnknown || label == "" {
			label = LabelForPercentage(raw)
		}
		if stepped := stepTowardRefuted(label); stepped != label {
			label = stepped
			out.Escalated = true
			// The escalated label overrides a stale numeric score
			hasScore = false
		}
	}

	truth := raw
	switch {
	case hasScore && label != model.LabelUnknown && label != "":
		lo, hi := labelRange(label)
		truth = clamp(score, lo, hi)
	case label != model.LabelUnknown && label != "":
		truth = BandFromQualitativeLabel(label, conf)
	}

	out.TruthPercentage = truth
	out.Band = MapToBand(truth, conf)
	return out
}

func (c *Calibrator) escalates(j model.ClaimJudgment, claimText string) bool {
	if len(c.escalation) == 0 {
		return false
	}
	if !j.CounterEvidence && len(j.OpposingFactIDs) == 0 {
		return false
	}
	for _, re := range c.escalation {
		if re.MatchString(claimText) {
			return true
		}
	}
	return false
}

func stepTowardRefuted(label model.QualitativeLabel) model.QualitativeLabel {
	switch label {
	case model.LabelStrongSupport:
		return model.LabelPartialSupport
	case model.LabelPartialSupport:
		return model.LabelUncertain
	case model.LabelUncertain:
		return model.LabelRefuted
	default:
		return label
	}
}
