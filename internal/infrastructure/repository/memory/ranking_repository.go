package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/openera/rankings/internal/domain/ranking"
)

type rankingKey struct {
	playerID uint64
	year     uint16
	week     uint8
}

type RankingRepository struct {
	mu      sync.RWMutex
	entries map[rankingKey]ranking.Entry
}

func NewRankingRepository() *RankingRepository {
	return &RankingRepository{entries: make(map[rankingKey]ranking.Entry)}
}

func (r *RankingRepository) Upsert(_ context.Context, e ranking.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[rankingKey{e.PlayerID, e.Year, e.Week}] = e

	return nil
}

func (r *RankingRepository) Get(_ context.Context, playerID uint64, year uint16, week uint8) (ranking.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[rankingKey{playerID, year, week}]
	return e, ok, nil
}

func (r *RankingRepository) ListWeek(_ context.Context, year uint16, week uint8) ([]ranking.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []ranking.Entry
	for key, e := range r.entries {
		if key.year == year && key.week == week {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })

	return out, nil
}

func (r *RankingRepository) ListPlayerWeeksAfter(_ context.Context, playerID uint64, year uint16, weekExclusive uint8) ([]ranking.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []ranking.Entry
	for key, e := range r.entries {
		if key.playerID == playerID && key.year == year && key.week > weekExclusive {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Week < out[j].Week })

	return out, nil
}

func (r *RankingRepository) SetRank(_ context.Context, playerID uint64, year uint16, week uint8, scope ranking.Scope, rank uint16) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := rankingKey{playerID, year, week}
	e, ok := r.entries[key]
	if !ok {
		return nil
	}
	if scope == ranking.ScopeRolling {
		e.RollingRank = rank
	} else {
		e.CalendarRank = rank
	}
	r.entries[key] = e

	return nil
}

func (r *RankingRepository) LatestEloBefore(_ context.Context, playerID uint64, year uint16, week uint8) (uint16, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		best      ranking.Entry
		bestFound bool
	)
	for key, e := range r.entries {
		if key.playerID != playerID {
			continue
		}
		if key.year > year || (key.year == year && key.week >= week) {
			continue
		}
		if !bestFound || key.year > best.Year || (key.year == best.Year && key.week > best.Week) {
			best = e
			bestFound = true
		}
	}
	if !bestFound {
		return 0, false, nil
	}
	return best.Elo, true, nil
}

func (r *RankingRepository) UpdateElo(_ context.Context, playerID uint64, year uint16, week uint8, elo uint16) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := rankingKey{playerID, year, week}
	e, ok := r.entries[key]
	if !ok {
		// Boundary weeks the points sweep never wrote stay absent.
		return nil
	}
	e.Elo = elo
	r.entries[key] = e

	return nil
}

func (r *RankingRepository) DeleteYear(_ context.Context, year uint16) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.entries {
		if key.year == year {
			delete(r.entries, key)
		}
	}

	return nil
}
