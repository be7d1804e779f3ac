package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/openera/rankings/internal/domain/match"
)

type MatchRepository struct {
	mu        sync.RWMutex
	matches   map[uint64]*match.Match
	byEdition map[uint32][]*match.Match
	byPlayer  map[uint64][]*match.Match
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{
		matches:   make(map[uint64]*match.Match),
		byEdition: make(map[uint32][]*match.Match),
		byPlayer:  make(map[uint64][]*match.Match),
	}
}

func (r *MatchRepository) ListByEdition(_ context.Context, editionID uint32) ([]*match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := r.byEdition[editionID]
	out := make([]*match.Match, len(matches))
	copy(out, matches)

	return out, nil
}

func (r *MatchRepository) ListByPlayer(_ context.Context, playerID uint64) ([]*match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := r.byPlayer[playerID]
	out := make([]*match.Match, len(matches))
	copy(out, matches)

	return out, nil
}

func (r *MatchRepository) List(_ context.Context) ([]*match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*match.Match, 0, len(r.matches))
	for _, m := range r.matches {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *MatchRepository) Insert(ctx context.Context, m *match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, other := range r.byEdition[m.EditionID] {
		if other.MatchNum == m.MatchNum {
			return fmt.Errorf("edition %d already has match number %d", m.EditionID, m.MatchNum)
		}
	}

	return r.insertLocked(m)
}

func (r *MatchRepository) InsertUnchecked(_ context.Context, m *match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.insertLocked(m)
}

func (r *MatchRepository) insertLocked(m *match.Match) error {
	if m == nil {
		return fmt.Errorf("match cannot be nil")
	}
	if _, ok := r.matches[m.ID]; ok {
		return fmt.Errorf("match %d already exists", m.ID)
	}

	r.matches[m.ID] = m
	r.byEdition[m.EditionID] = append(r.byEdition[m.EditionID], m)
	r.byPlayer[m.Winner.PlayerID] = append(r.byPlayer[m.Winner.PlayerID], m)
	if m.Loser.PlayerID != m.Winner.PlayerID {
		r.byPlayer[m.Loser.PlayerID] = append(r.byPlayer[m.Loser.PlayerID], m)
	}

	return nil
}
