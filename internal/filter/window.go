package filter

import (
	"math"
	"sort"
	"time"
)

// Threshold maps a maximum history age in days to a platform window value.
type Threshold struct {
	MaxAgeDays int    `yaml:"max_age_days" validate:"gte=0"`
	Value      string `yaml:"value" validate:"required"`
}

// WindowPolicy is the per-platform lookback configuration.
type WindowPolicy struct {
	Default    string      `yaml:"default" validate:"required"`
	Thresholds []Threshold `yaml:"thresholds" validate:"dive"`
}

// ComputeWindow returns how far back a source should search given the most
// recent discovery time. No history means the default window. Otherwise the
// first threshold (ascending by age) that covers the whole-day age wins.
func ComputeWindow(last *time.Time, now time.Time, thresholds []Threshold, def string) string {
	if last == nil {
		return def
	}
	ageDays := int(math.Floor(now.Sub(*last).Hours() / 24))

	sorted := make([]Threshold, len(thresholds))
	copy(sorted, thresholds)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MaxAgeDays < sorted[j].MaxAgeDays
	})

	for _, th := range sorted {
		if th.MaxAgeDays >= ageDays {
			return th.Value
		}
	}
	return def
}

func (p WindowPolicy) Compute(last *time.Time, now time.Time) string {
	return ComputeWindow(last, now, p.Thresholds, p.Default)
}
