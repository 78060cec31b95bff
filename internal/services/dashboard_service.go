package services

import (
	"fmt"
	"time"

	"github.com/yukikurage/okr-tracker/internal/okr"
)

// DashboardService builds the per-user dashboard
type DashboardService struct {
	objectives *ObjectiveService
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(objectives *ObjectiveService) *DashboardService {
	return &DashboardService{objectives: objectives}
}

// Build loads all of the actor's objectives and key results and aggregates
// them as of now
func (s *DashboardService) Build(actor uint64, now time.Time) (okr.Dashboard, error) {
	snapshots, err := s.objectives.Snapshots(actor)
	if err != nil {
		return okr.Dashboard{}, err
	}

	dashboard, err := okr.Aggregate(actor, now, snapshots)
	if err != nil {
		return okr.Dashboard{}, fmt.Errorf("failed to build dashboard: %w", err)
	}

	return dashboard, nil
}
