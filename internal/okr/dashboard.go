package okr

import (
	"fmt"
	"sort"
	"time"

	"github.com/yukikurage/okr-tracker/internal/constants"
	"github.com/yukikurage/okr-tracker/internal/models"
)

// ObjectiveSnapshot pairs an objective with its key results as loaded by the caller.
type ObjectiveSnapshot struct {
	Objective  models.Objective
	KeyResults []models.KeyResult
}

// Progress returns the snapshot's objective progress.
func (s ObjectiveSnapshot) Progress() float64 {
	return ObjectiveProgressOf(s.KeyResults)
}

// ObjectiveSummary is an objective with its computed progress.
type ObjectiveSummary struct {
	Objective models.Objective
	Progress  float64
}

// Dashboard is the rollup shown on a user's dashboard.
type Dashboard struct {
	OverallProgress float64
	CompletedCount  int
	TotalCount      int
	Objectives      []ObjectiveSummary
	Upcoming        []ObjectiveSummary
}

// Aggregate builds the dashboard for actor at now. Every snapshot must belong
// to actor. Upcoming holds incomplete objectives ending at or after now, in
// ascending end date order (ties keep input order), capped at
// constants.MaxUpcomingObjectives.
func Aggregate(actor uint64, now time.Time, snapshots []ObjectiveSnapshot) (Dashboard, error) {
	dashboard := Dashboard{
		TotalCount: len(snapshots),
		Objectives: make([]ObjectiveSummary, 0, len(snapshots)),
	}

	progresses := make([]float64, 0, len(snapshots))
	upcoming := make([]ObjectiveSummary, 0)

	for _, snapshot := range snapshots {
		if err := AuthorizeObjective(actor, snapshot.Objective).Err(); err != nil {
			return Dashboard{}, fmt.Errorf("objective %d: %w", snapshot.Objective.ID, err)
		}

		summary := ObjectiveSummary{
			Objective: snapshot.Objective,
			Progress:  snapshot.Progress(),
		}
		dashboard.Objectives = append(dashboard.Objectives, summary)
		progresses = append(progresses, summary.Progress)

		if snapshot.Objective.IsComplete {
			dashboard.CompletedCount++
			continue
		}
		if !snapshot.Objective.EndDate.Before(now) {
			upcoming = append(upcoming, summary)
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Objective.EndDate.Before(upcoming[j].Objective.EndDate)
	})
	if len(upcoming) > constants.MaxUpcomingObjectives {
		upcoming = upcoming[:constants.MaxUpcomingObjectives]
	}

	dashboard.OverallProgress = ObjectiveProgress(progresses)
	dashboard.Upcoming = upcoming
	return dashboard, nil
}
