package match

import "context"

// Repository describes match persistence needs from use cases. Insert
// enforces match-number uniqueness within an edition; InsertUnchecked
// skips that check and is reserved for the bulk loader, which
// reconciles numbering when the batch closes.
type Repository interface {
	ListByEdition(ctx context.Context, editionID uint32) ([]*Match, error)
	ListByPlayer(ctx context.Context, playerID uint64) ([]*Match, error)
	List(ctx context.Context) ([]*Match, error)
	Insert(ctx context.Context, m *Match) error
	InsertUnchecked(ctx context.Context, m *Match) error
}
