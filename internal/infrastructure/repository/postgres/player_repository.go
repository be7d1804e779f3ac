package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/openera/rankings/internal/domain/player"
	qb "github.com/openera/rankings/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) GetByID(ctx context.Context, id uint64) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Eq("id", int64(id))).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player: %w", err)
	}

	history, err := r.listHistory(ctx, id)
	if err != nil {
		return player.Player{}, false, err
	}
	p, err := playerFromRow(row, history)
	if err != nil {
		return player.Player{}, false, err
	}
	return p, true, nil
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}
	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	historyQuery, historyArgs, err := qb.Select("*").From("players_nationality_history").
		OrderBy("player_id", "end_date").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list nationality history query: %w", err)
	}
	var historyRows []nationalityHistoryTableModel
	if err := r.db.SelectContext(ctx, &historyRows, historyQuery, historyArgs...); err != nil {
		return nil, fmt.Errorf("select nationality history: %w", err)
	}
	historyByPlayer := make(map[int64][]nationalityHistoryTableModel)
	for _, h := range historyRows {
		historyByPlayer[h.PlayerID] = append(historyByPlayer[h.PlayerID], h)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		p, err := playerFromRow(row, historyByPlayer[row.ID])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *PlayerRepository) Insert(ctx context.Context, p player.Player) error {
	model := playerTableModel{
		ID:            int64(p.ID),
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Nationality:   p.Nationality,
		Hand:          int16(p.Hand),
		Height:        int32(p.Height),
		DateOfBirth:   p.DateOfBirth,
		ActivityBegin: p.ActivityBegin,
		ActivityEnd:   p.ActivityEnd,
	}
	query, args, err := qb.InsertModel("players", model, "")
	if err != nil {
		return fmt.Errorf("build insert player query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert player %d: %w", p.ID, err)
	}

	for _, period := range p.NationalityHistory() {
		if err := r.AddNationalityHistory(ctx, p.ID, period.Code, period.EndDate); err != nil {
			return err
		}
	}
	return nil
}

func (r *PlayerRepository) AddNationalityHistory(ctx context.Context, playerID uint64, code string, endDate time.Time) error {
	query, args, err := qb.InsertInto("players_nationality_history").
		Columns("player_id", "nationality", "end_date").
		Values(int64(playerID), code, endDate).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert nationality history query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert nationality history of player %d: %w", playerID, err)
	}
	return nil
}

func (r *PlayerRepository) listHistory(ctx context.Context, playerID uint64) ([]nationalityHistoryTableModel, error) {
	query, args, err := qb.Select("*").From("players_nationality_history").
		Where(qb.Eq("player_id", int64(playerID))).
		OrderBy("end_date").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get nationality history query: %w", err)
	}
	var rows []nationalityHistoryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select nationality history of player %d: %w", playerID, err)
	}
	return rows, nil
}

func playerFromRow(row playerTableModel, history []nationalityHistoryTableModel) (player.Player, error) {
	p, err := player.New(
		uint64(row.ID),
		row.FirstName,
		row.LastName,
		row.Nationality,
		player.Handedness(row.Hand),
		uint32(row.Height),
		row.DateOfBirth,
		row.ActivityBegin,
		row.ActivityEnd,
	)
	if err != nil {
		return player.Player{}, fmt.Errorf("map player %d: %w", row.ID, err)
	}
	for _, h := range history {
		if err := p.AddNationalityPeriod(h.Nationality, h.EndDate); err != nil {
			return player.Player{}, fmt.Errorf("map nationality history of player %d: %w", row.ID, err)
		}
	}
	return p, nil
}
