package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/studiowebux/fitadmin/internal/types"
)

// statsPageLimit is large enough to count every trainer from one page
const statsPageLimit = 1000

// Dashboard aggregates overview figures
type Dashboard struct {
	users     *Users
	exercises *Exercises
}

// Stats fetches trainers, trainees and exercises concurrently and aggregates
// them. Users are counted from trainers; programs have no backing endpoint
// and stay at zero. A failed fetch does not cancel the others, so only the
// failure itself is surfaced.
func (d *Dashboard) Stats(ctx context.Context) (*types.DashboardStats, error) {
	var (
		trainers  *types.Page[types.Trainer]
		trainees  *types.Page[types.Trainee]
		exercises *types.Page[types.Exercise]
	)

	var g errgroup.Group
	g.Go(func() (err error) {
		trainers, err = d.users.Trainers(ctx, PageQuery{Page: 1, Limit: statsPageLimit})
		return err
	})
	g.Go(func() (err error) {
		trainees, err = d.users.Trainees(ctx, PageQuery{Page: 1, Limit: 1})
		return err
	})
	g.Go(func() (err error) {
		exercises, err = d.exercises.List(ctx, PageQuery{Page: 1, Limit: 1})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &types.DashboardStats{
		TotalTrainers:  total(trainers.Meta, len(trainers.Data)),
		TotalTrainees:  total(trainees.Meta, len(trainees.Data)),
		TotalExercises: total(exercises.Meta, len(exercises.Data)),
	}
	for _, t := range trainers.Data {
		switch {
		case t.IsActive():
			stats.ActiveUsers++
		case t.Status == types.TrainerSuspended:
			stats.InactiveUsers++
		}
	}
	stats.TotalUsers = stats.TotalTrainers
	return stats, nil
}

// total prefers the paginated total over the count of returned rows
func total(meta types.PageMeta, rows int) int {
	if meta.Total > 0 {
		return meta.Total
	}
	return rows
}
