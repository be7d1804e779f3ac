package player

import (
	"context"
	"time"
)

// Repository describes player persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, id uint64) (Player, bool, error)
	List(ctx context.Context) ([]Player, error)
	Insert(ctx context.Context, p Player) error
	AddNationalityHistory(ctx context.Context, playerID uint64, code string, endDate time.Time) error
}
