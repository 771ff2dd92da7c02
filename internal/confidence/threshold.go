package confidence

import "math"

// DefaultThreshold is the acceptance threshold, in percent, used when no
// usable tenant setting exists.
const DefaultThreshold float64 = 70

// ValidThreshold reports whether v is a finite percentage in [0, 100].
func ValidThreshold(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v >= 0 && v <= 100
}
