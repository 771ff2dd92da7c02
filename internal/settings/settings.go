// Package settings owns the tenant-wide settings record and resolves the
// confidence threshold every classification runs against.
package settings

import "time"

// Settings is the single global settings record.
// A nil ConfidenceThreshold means the default threshold applies.
type Settings struct {
	ConfidenceThreshold *float64  `json:"confidence_threshold"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// UpdateCommand replaces the settings record. A nil threshold clears it.
type UpdateCommand struct {
	ConfidenceThreshold *float64 `json:"confidence_threshold"`
}

// ThresholdResponse reports the threshold classifications currently use.
type ThresholdResponse struct {
	Threshold float64 `json:"threshold"`
}
