package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/openera/rankings/internal/domain/edition"
)

type editionKey struct {
	tournamentID uint32
	year         uint16
}

type EditionRepository struct {
	mu        sync.RWMutex
	editions  map[uint32]edition.Edition
	byTourn   map[editionKey]uint32
	stats     map[uint32][]edition.Stat
	statsDone map[uint32]bool
}

func NewEditionRepository(editions []edition.Edition) *EditionRepository {
	r := &EditionRepository{
		editions:  make(map[uint32]edition.Edition, len(editions)),
		byTourn:   make(map[editionKey]uint32, len(editions)),
		stats:     make(map[uint32][]edition.Stat),
		statsDone: make(map[uint32]bool),
	}
	for _, e := range editions {
		r.editions[e.ID] = e
		r.byTourn[editionKey{e.TournamentID, e.Year}] = e.ID
	}
	return r
}

func (r *EditionRepository) GetByID(_ context.Context, id uint32) (edition.Edition, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.editions[id]
	return e, ok, nil
}

func (r *EditionRepository) GetByTournamentAndYear(_ context.Context, tournamentID uint32, year uint16) (edition.Edition, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byTourn[editionKey{tournamentID, year}]
	if !ok {
		return edition.Edition{}, false, nil
	}
	return r.editions[id], true, nil
}

func (r *EditionRepository) ListByTournament(_ context.Context, tournamentID uint32) ([]edition.Edition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []edition.Edition
	for _, e := range r.editions {
		if e.TournamentID == tournamentID {
			out = append(out, e)
		}
	}
	sortEditions(out)

	return out, nil
}

func (r *EditionRepository) ListByPeriod(_ context.Context, filter edition.PeriodFilter) ([]edition.Edition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []edition.Edition
	for _, e := range r.editions {
		if filter.Matches(e) {
			out = append(out, e)
		}
	}
	sortEditions(out)

	return out, nil
}

func (r *EditionRepository) List(_ context.Context) ([]edition.Edition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]edition.Edition, 0, len(r.editions))
	for _, e := range r.editions {
		out = append(out, e)
	}
	sortEditions(out)

	return out, nil
}

func (r *EditionRepository) Insert(_ context.Context, e edition.Edition) error {
	if err := e.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.editions[e.ID]; ok {
		return fmt.Errorf("edition %d already exists", e.ID)
	}
	key := editionKey{e.TournamentID, e.Year}
	if _, ok := r.byTourn[key]; ok {
		return fmt.Errorf("tournament %d already has an edition in %d", e.TournamentID, e.Year)
	}
	r.editions[e.ID] = e
	r.byTourn[key] = e.ID

	return nil
}

func (r *EditionRepository) ReplaceStatistics(_ context.Context, editionID uint32, stats []edition.Stat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.editions[editionID]; !ok {
		return fmt.Errorf("edition %d not found", editionID)
	}
	r.stats[editionID] = append([]edition.Stat(nil), stats...)
	r.statsDone[editionID] = true

	return nil
}

func (r *EditionRepository) Statistics(_ context.Context, editionID uint32) ([]edition.Stat, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := r.stats[editionID]
	out := make([]edition.Stat, len(stats))
	copy(out, stats)

	return out, r.statsDone[editionID], nil
}

func sortEditions(editions []edition.Edition) {
	sort.Slice(editions, func(i, j int) bool {
		if !editions[i].DateBegin.Equal(editions[j].DateBegin) {
			return editions[i].DateBegin.Before(editions[j].DateBegin)
		}
		return editions[i].ID < editions[j].ID
	})
}
