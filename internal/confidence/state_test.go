package confidence_test

import (
	"errors"
	"testing"

	"github.com/JaimeStill/docket/internal/confidence"
)

func TestParseState(t *testing.T) {
	for _, s := range confidence.States {
		got, err := confidence.ParseState(string(s))
		if err != nil || got != s {
			t.Errorf("ParseState(%q) = %q, %v", s, got, err)
		}
	}

	for _, bad := range []string{"", "verified", "UNKNOWN"} {
		if _, err := confidence.ParseState(bad); !errors.Is(err, confidence.ErrInvalidState) {
			t.Errorf("ParseState(%q) error = %v, want ErrInvalidState", bad, err)
		}
	}
}

func TestValidThreshold(t *testing.T) {
	tests := []struct {
		v    float64
		want bool
	}{
		{0, true},
		{70, true},
		{100, true},
		{72.5, true},
		{-1, false},
		{100.01, false},
	}

	for _, tt := range tests {
		if got := confidence.ValidThreshold(tt.v); got != tt.want {
			t.Errorf("ValidThreshold(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestRequiredSet(t *testing.T) {
	var all *confidence.RequiredSet
	if !all.Contains("anything") {
		t.Error("nil set should require every field")
	}
	if all.Len() != -1 {
		t.Errorf("nil Len() = %d, want -1", all.Len())
	}

	none := confidence.NewRequiredSet()
	if none.Contains("anything") {
		t.Error("empty set should require nothing")
	}

	s := confidence.NewRequiredSet("Total", "VendorName")
	if !s.Contains("Total") || s.Contains("DueDate") {
		t.Error("Contains mismatch")
	}
	if names := s.Names(); len(names) != 2 || names[0] != "Total" {
		t.Errorf("Names() = %v", names)
	}
}
