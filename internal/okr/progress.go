// Package okr holds the progress arithmetic, ownership rules and dashboard
// rollups shared by every route. Everything here is pure: callers pass in
// snapshots loaded from the store and get plain values back.
package okr

import (
	"math"

	"github.com/yukikurage/okr-tracker/internal/models"
)

const (
	minProgress = 0.0
	maxProgress = 100.0
)

// KeyResultProgress returns current/target as a percentage clamped to [0, 100].
// A zero target, or a ratio that is not a number, yields 0 rather than an error.
func KeyResultProgress(target, current float64) float64 {
	if target == 0 {
		return 0
	}
	ratio := (current / target) * 100
	if math.IsNaN(ratio) {
		return 0
	}
	return clamp(ratio, minProgress, maxProgress)
}

// ObjectiveProgress averages already-clamped key result percentages.
// An empty input yields 0. Entries outside [0, 100] are clamped and NaN
// counts as 0.
func ObjectiveProgress(progresses []float64) float64 {
	if len(progresses) == 0 {
		return 0
	}

	var total float64
	for _, p := range progresses {
		if math.IsNaN(p) {
			continue
		}
		total += clamp(p, minProgress, maxProgress)
	}
	return total / float64(len(progresses))
}

// ObjectiveProgressOf computes an objective's progress from its key results.
func ObjectiveProgressOf(keyResults []models.KeyResult) float64 {
	progresses := make([]float64, 0, len(keyResults))
	for _, kr := range keyResults {
		progresses = append(progresses, KeyResultProgress(kr.TargetValue, kr.CurrentValue))
	}
	return ObjectiveProgress(progresses)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
