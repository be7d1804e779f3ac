package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/openera/rankings/internal/domain/player"
)

type PlayerRepository struct {
	mu      sync.RWMutex
	players map[uint64]player.Player
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	index := make(map[uint64]player.Player, len(players))
	for _, p := range players {
		index[p.ID] = p
	}
	return &PlayerRepository{players: index}
}

func (r *PlayerRepository) GetByID(_ context.Context, id uint64) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.players[id]
	return p, ok, nil
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *PlayerRepository) Insert(_ context.Context, p player.Player) error {
	if err := p.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[p.ID]; ok {
		return fmt.Errorf("player %d already exists", p.ID)
	}
	r.players[p.ID] = p

	return nil
}

func (r *PlayerRepository) AddNationalityHistory(_ context.Context, playerID uint64, code string, endDate time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok {
		return fmt.Errorf("player %d not found", playerID)
	}
	if err := p.AddNationalityPeriod(code, endDate); err != nil {
		return err
	}
	r.players[playerID] = p

	return nil
}
