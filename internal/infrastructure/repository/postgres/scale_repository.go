package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/openera/rankings/internal/domain/match"
	"github.com/openera/rankings/internal/domain/scale"
	"github.com/openera/rankings/internal/domain/tournament"
	qb "github.com/openera/rankings/internal/platform/querybuilder"
)

type scaleTableModel struct {
	Level             int16 `db:"level"`
	Round             int16 `db:"round"`
	WinnerPoints      int64 `db:"winner_points"`
	LoserPoints       int64 `db:"loser_points"`
	LoserExemptPoints int64 `db:"loser_exempt_points"`
	Cumulative        bool  `db:"cumulative"`
}

// ScaleRepository loads the full points attribution in one shot; the
// table is small and read-only during a sweep.
type ScaleRepository struct {
	db *sqlx.DB
}

func NewScaleRepository(db *sqlx.DB) *ScaleRepository {
	return &ScaleRepository{db: db}
}

func (r *ScaleRepository) Load(ctx context.Context) (*scale.Table, error) {
	query, args, err := qb.Select("*").From("points_scale").
		OrderBy("level", "round").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build load scale query: %w", err)
	}

	var rows []scaleTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("load points scale: %w", err)
	}

	out := make([]scale.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, scale.Row{
			Level:             tournament.Level(row.Level),
			Round:             match.Round(row.Round),
			WinnerPoints:      uint32(row.WinnerPoints),
			LoserPoints:       uint32(row.LoserPoints),
			LoserExemptPoints: uint32(row.LoserExemptPoints),
			Cumulative:        row.Cumulative,
		})
	}
	return scale.NewTable(out), nil
}
