package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/openera/rankings/internal/domain/tournament"
	qb "github.com/openera/rankings/internal/platform/querybuilder"
)

type tournamentTableModel struct {
	ID           int64  `db:"id"`
	Name         string `db:"name"`
	City         string `db:"city"`
	Level        int16  `db:"level"`
	Surface      int16  `db:"surface"`
	Indoor       bool   `db:"indoor"`
	SlotOrder    int16  `db:"slot_order"`
	LastYear     int32  `db:"last_year"`
	SubstituteID int64  `db:"substitute_id"`
}

type TournamentRepository struct {
	db *sqlx.DB
}

func NewTournamentRepository(db *sqlx.DB) *TournamentRepository {
	return &TournamentRepository{db: db}
}

func (r *TournamentRepository) GetByID(ctx context.Context, id uint32) (tournament.Tournament, bool, error) {
	query, args, err := qb.Select("*").From("tournaments").
		Where(qb.Eq("id", int64(id))).
		ToSQL()
	if err != nil {
		return tournament.Tournament{}, false, fmt.Errorf("build get tournament query: %w", err)
	}

	var row tournamentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tournament.Tournament{}, false, nil
		}
		return tournament.Tournament{}, false, fmt.Errorf("get tournament: %w", err)
	}
	return tournamentFromRow(row), true, nil
}

func (r *TournamentRepository) List(ctx context.Context) ([]tournament.Tournament, error) {
	query, args, err := qb.Select("*").From("tournaments").OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list tournaments query: %w", err)
	}
	var rows []tournamentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select tournaments: %w", err)
	}
	out := make([]tournament.Tournament, 0, len(rows))
	for _, row := range rows {
		out = append(out, tournamentFromRow(row))
	}
	return out, nil
}

func (r *TournamentRepository) Insert(ctx context.Context, t tournament.Tournament) error {
	model := tournamentTableModel{
		ID:           int64(t.ID),
		Name:         t.Name,
		City:         t.City,
		Level:        int16(t.Level),
		Surface:      int16(t.Surface),
		Indoor:       t.Indoor,
		SlotOrder:    int16(t.SlotOrder),
		LastYear:     int32(t.LastYear),
		SubstituteID: int64(t.SubstituteID),
	}
	query, args, err := qb.InsertModel("tournaments", model, "")
	if err != nil {
		return fmt.Errorf("build insert tournament query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert tournament %d: %w", t.ID, err)
	}
	return nil
}

func tournamentFromRow(row tournamentTableModel) tournament.Tournament {
	return tournament.Tournament{
		ID:           uint32(row.ID),
		Name:         row.Name,
		City:         row.City,
		Level:        tournament.Level(row.Level),
		Surface:      tournament.Surface(row.Surface),
		Indoor:       row.Indoor,
		SlotOrder:    uint8(row.SlotOrder),
		LastYear:     uint16(row.LastYear),
		SubstituteID: uint32(row.SubstituteID),
	}
}
