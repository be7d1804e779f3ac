package postgres

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/openera/rankings/internal/domain/match"
	qb "github.com/openera/rankings/internal/platform/querybuilder"
)

// MatchRepository keeps match-number uniqueness out of the schema on
// purpose: Insert checks it per row while InsertUnchecked skips the
// probe for batch loads, which reconcile the numbering afterwards.
type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) ListByEdition(ctx context.Context, editionID uint32) ([]*match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("edition_id", int64(editionID))).
		OrderBy("match_num").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches by edition query: %w", err)
	}
	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) ListByPlayer(ctx context.Context, playerID uint64) ([]*match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Expr("(winner_id = ? OR loser_id = ?)", int64(playerID), int64(playerID))).
		OrderBy("edition_id", "match_num").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches by player query: %w", err)
	}
	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) List(ctx context.Context) ([]*match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		OrderBy("edition_id", "match_num").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}
	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) Insert(ctx context.Context, m *match.Match) error {
	query, args, err := qb.Select("COUNT(1)").From("matches").
		Where(
			qb.Eq("edition_id", int64(m.EditionID)),
			qb.Eq("match_num", int32(m.MatchNum)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build match number probe query: %w", err)
	}
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return fmt.Errorf("probe match number: %w", err)
	}
	if count > 0 {
		return errors.Newf("match number %d already used at edition %d", m.MatchNum, m.EditionID)
	}
	return r.InsertUnchecked(ctx, m)
}

func (r *MatchRepository) InsertUnchecked(ctx context.Context, m *match.Match) error {
	row, err := matchToRow(m)
	if err != nil {
		return err
	}
	query, args, err := qb.InsertModel("matches", row, "")
	if err != nil {
		return fmt.Errorf("build insert match query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert match %d: %w", m.ID, err)
	}
	return nil
}

func (r *MatchRepository) selectMatches(ctx context.Context, query string, args []any) ([]*match.Match, error) {
	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}
	out := make([]*match.Match, 0, len(rows))
	for _, row := range rows {
		m, err := matchFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
