package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/openera/rankings/internal/domain/tournament"
)

type TournamentRepository struct {
	mu          sync.RWMutex
	tournaments map[uint32]tournament.Tournament
}

func NewTournamentRepository(tournaments []tournament.Tournament) *TournamentRepository {
	index := make(map[uint32]tournament.Tournament, len(tournaments))
	for _, t := range tournaments {
		index[t.ID] = t
	}
	return &TournamentRepository{tournaments: index}
}

func (r *TournamentRepository) GetByID(_ context.Context, id uint32) (tournament.Tournament, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tournaments[id]
	return t, ok, nil
}

func (r *TournamentRepository) List(_ context.Context) ([]tournament.Tournament, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tournament.Tournament, 0, len(r.tournaments))
	for _, t := range r.tournaments {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *TournamentRepository) Insert(_ context.Context, t tournament.Tournament) error {
	if err := t.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tournaments[t.ID]; ok {
		return fmt.Errorf("tournament %d already exists", t.ID)
	}
	r.tournaments[t.ID] = t

	return nil
}
