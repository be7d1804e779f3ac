package edition

import (
	"context"
	"time"

	"github.com/openera/rankings/internal/domain/tournament"
)

// PeriodFilter selects editions by end date window [Start, End) with
// optional level, surface and indoor narrowing. Empty slices mean no
// filtering; IndoorOnly false keeps outdoor editions too.
type PeriodFilter struct {
	Start      time.Time
	End        time.Time
	Levels     []tournament.Level
	Surfaces   []tournament.Surface
	IndoorOnly bool
}

// Matches reports whether e falls inside the filter.
func (f PeriodFilter) Matches(e Edition) bool {
	if e.DateEnd.Before(f.Start) || !e.DateEnd.Before(f.End) {
		return false
	}
	if len(f.Levels) > 0 {
		found := false
		for _, l := range f.Levels {
			if e.TournamentLevel == l {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(f.Surfaces) > 0 {
		found := false
		for _, s := range f.Surfaces {
			if e.TournamentSurface == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.IndoorOnly && !e.TournamentIsIndoor {
		return false
	}
	return true
}

// Repository describes edition persistence needs from use cases.
// Insert enforces one edition per (tournament, year). Statistics and
// ReplaceStatistics expose the per-player counters memoized for an
// edition; the bool result of Statistics is the computed flag.
type Repository interface {
	GetByID(ctx context.Context, id uint32) (Edition, bool, error)
	GetByTournamentAndYear(ctx context.Context, tournamentID uint32, year uint16) (Edition, bool, error)
	ListByTournament(ctx context.Context, tournamentID uint32) ([]Edition, error)
	ListByPeriod(ctx context.Context, filter PeriodFilter) ([]Edition, error)
	List(ctx context.Context) ([]Edition, error)
	Insert(ctx context.Context, e Edition) error
	ReplaceStatistics(ctx context.Context, editionID uint32, stats []Stat) error
	Statistics(ctx context.Context, editionID uint32) ([]Stat, bool, error)
}
