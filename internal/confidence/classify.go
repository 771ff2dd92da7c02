package confidence

import "slices"

// Evaluation is the result of scoring a field map along with the fields that
// drove the decision.
type Evaluation struct {
	State State `json:"state"`
	// Threshold is the acceptance threshold in percent.
	Threshold float64 `json:"threshold"`
	// Unresolved lists required fields below threshold without a manual confirmation.
	Unresolved []string `json:"unresolved"`
	// BelowThreshold lists required fields below threshold on their extracted
	// confidence, whether or not they were confirmed since.
	BelowThreshold []string `json:"below_threshold"`
}

// Classify computes the confidence state of fields against thresholdPercent.
// See Evaluate.
func Classify(fields FieldMap, thresholdPercent float64, required *RequiredSet) State {
	return Evaluate(fields, thresholdPercent, required).State
}

// Evaluate scores fields against thresholdPercent, a percentage in [0, 100].
//
// Only fields in required participate. A participating field is low when its
// confidence is a number strictly below thresholdPercent/100; fields without a
// numeric confidence are never low. The first matching rule decides:
//
//	no fields                          EMPTY
//	a low field is not manual          NEEDS_REVISION
//	low fields exist, all manual       VERIFIED
//	otherwise                          TRUSTED
func Evaluate(fields FieldMap, thresholdPercent float64, required *RequiredSet) Evaluation {
	e := Evaluation{
		Threshold:      thresholdPercent,
		Unresolved:     []string{},
		BelowThreshold: []string{},
	}

	if len(fields) == 0 {
		e.State = Empty
		return e
	}

	fraction := thresholdPercent / 100

	for name, f := range fields {
		if !required.Contains(name) {
			continue
		}
		c, ok := f.Score()
		if !ok || c >= fraction {
			continue
		}
		e.BelowThreshold = append(e.BelowThreshold, name)
		if !f.Manual {
			e.Unresolved = append(e.Unresolved, name)
		}
	}

	slices.Sort(e.Unresolved)
	slices.Sort(e.BelowThreshold)

	switch {
	case len(e.Unresolved) > 0:
		e.State = NeedsRevision
	case len(e.BelowThreshold) > 0:
		e.State = Verified
	default:
		e.State = Trusted
	}

	return e
}
