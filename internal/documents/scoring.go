package documents

import (
	"context"
	"log/slog"

	"github.com/JaimeStill/docket/internal/confidence"
)

// Scoring is a snapshot of the inputs a classification runs against.
type Scoring struct {
	Threshold float64
	// Required is nil when every field counts.
	Required *confidence.RequiredSet
}

// DefaultScoring classifies at the default threshold with every field required.
func DefaultScoring() Scoring {
	return Scoring{Threshold: confidence.DefaultThreshold}
}

// Classify returns the state of fields under this snapshot.
func (s Scoring) Classify(fields confidence.FieldMap) confidence.State {
	return confidence.Classify(fields, s.Threshold, s.Required)
}

// Evaluate returns the full evaluation of fields under this snapshot.
func (s Scoring) Evaluate(fields confidence.FieldMap) confidence.Evaluation {
	return confidence.Evaluate(fields, s.Threshold, s.Required)
}

// ThresholdSource resolves the confidence threshold. Implementations never fail.
type ThresholdSource interface {
	Threshold(ctx context.Context) float64
}

// RequiredSource loads the set of fields that count toward confidence.
type RequiredSource interface {
	RequiredSet(ctx context.Context) (*confidence.RequiredSet, error)
}

// Scorer assembles Scoring snapshots from the settings and field reference systems.
type Scorer struct {
	threshold ThresholdSource
	required  RequiredSource
	logger    *slog.Logger
}

// NewScorer creates a Scorer. Either source may be nil, in which case its
// default applies.
func NewScorer(threshold ThresholdSource, required RequiredSource, logger *slog.Logger) *Scorer {
	return &Scorer{
		threshold: threshold,
		required:  required,
		logger:    logger.With("component", "scorer"),
	}
}

// Snapshot loads the current threshold and required set. A failure to load the
// required set degrades to requiring every field; storing extracted data is
// never blocked on it.
func (s *Scorer) Snapshot(ctx context.Context) Scoring {
	scoring := DefaultScoring()
	if s == nil {
		return scoring
	}

	if s.threshold != nil {
		scoring.Threshold = s.threshold.Threshold(ctx)
	}

	if s.required != nil {
		required, err := s.required.RequiredSet(ctx)
		if err != nil {
			s.logger.Warn("required field lookup failed; treating every field as required", "error", err)
		} else {
			scoring.Required = required
		}
	}

	return scoring
}
