package ranking

import "context"

// Repository is the persistence sink for ranking rows.
//
// UpdateElo writes the rating of an existing row and is a silent no-op
// when the row does not exist; the ELO replay touches boundary weeks
// the points sweep may never have created.
type Repository interface {
	Upsert(ctx context.Context, e Entry) error
	Get(ctx context.Context, playerID uint64, year uint16, week uint8) (Entry, bool, error)
	ListWeek(ctx context.Context, year uint16, week uint8) ([]Entry, error)
	ListPlayerWeeksAfter(ctx context.Context, playerID uint64, year uint16, weekExclusive uint8) ([]Entry, error)
	SetRank(ctx context.Context, playerID uint64, year uint16, week uint8, scope Scope, rank uint16) error
	LatestEloBefore(ctx context.Context, playerID uint64, year uint16, week uint8) (uint16, bool, error)
	UpdateElo(ctx context.Context, playerID uint64, year uint16, week uint8, elo uint16) error
	DeleteYear(ctx context.Context, year uint16) error
}
