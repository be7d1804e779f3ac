package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/openera/rankings/internal/domain/edition"
	qb "github.com/openera/rankings/internal/platform/querybuilder"
)

type EditionRepository struct {
	db *sqlx.DB
}

func NewEditionRepository(db *sqlx.DB) *EditionRepository {
	return &EditionRepository{db: db}
}

func (r *EditionRepository) GetByID(ctx context.Context, id uint32) (edition.Edition, bool, error) {
	query, args, err := qb.Select("*").From("editions").
		Where(qb.Eq("id", int64(id))).
		ToSQL()
	if err != nil {
		return edition.Edition{}, false, fmt.Errorf("build get edition query: %w", err)
	}

	var row editionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return edition.Edition{}, false, nil
		}
		return edition.Edition{}, false, fmt.Errorf("get edition: %w", err)
	}
	return editionFromRow(row), true, nil
}

func (r *EditionRepository) GetByTournamentAndYear(ctx context.Context, tournamentID uint32, year uint16) (edition.Edition, bool, error) {
	query, args, err := qb.Select("*").From("editions").
		Where(
			qb.Eq("tournament_id", int64(tournamentID)),
			qb.Eq("year", int32(year)),
		).
		ToSQL()
	if err != nil {
		return edition.Edition{}, false, fmt.Errorf("build get edition by tournament query: %w", err)
	}

	var row editionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return edition.Edition{}, false, nil
		}
		return edition.Edition{}, false, fmt.Errorf("get edition by tournament: %w", err)
	}
	return editionFromRow(row), true, nil
}

func (r *EditionRepository) ListByTournament(ctx context.Context, tournamentID uint32) ([]edition.Edition, error) {
	query, args, err := qb.Select("*").From("editions").
		Where(qb.Eq("tournament_id", int64(tournamentID))).
		OrderBy("year").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list editions by tournament query: %w", err)
	}
	return r.selectEditions(ctx, query, args)
}

func (r *EditionRepository) ListByPeriod(ctx context.Context, filter edition.PeriodFilter) ([]edition.Edition, error) {
	builder := qb.Select("*").From("editions").
		Where(
			qb.Gte("date_end", filter.Start),
			qb.Lt("date_end", filter.End),
		)
	if len(filter.Levels) > 0 {
		levels := make([]any, 0, len(filter.Levels))
		for _, l := range filter.Levels {
			levels = append(levels, int16(l))
		}
		builder = builder.Where(qb.In("level", levels))
	}
	if len(filter.Surfaces) > 0 {
		surfaces := make([]any, 0, len(filter.Surfaces))
		for _, s := range filter.Surfaces {
			surfaces = append(surfaces, int16(s))
		}
		builder = builder.Where(qb.In("surface", surfaces))
	}
	if filter.IndoorOnly {
		builder = builder.Where(qb.Eq("indoor", true))
	}

	query, args, err := builder.OrderBy("date_begin", "id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list editions by period query: %w", err)
	}
	return r.selectEditions(ctx, query, args)
}

func (r *EditionRepository) List(ctx context.Context) ([]edition.Edition, error) {
	query, args, err := qb.Select("*").From("editions").OrderBy("date_begin", "id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list editions query: %w", err)
	}
	return r.selectEditions(ctx, query, args)
}

func (r *EditionRepository) Insert(ctx context.Context, e edition.Edition) error {
	query, args, err := qb.InsertModel("editions", editionToRow(e), "")
	if err != nil {
		return fmt.Errorf("build insert edition query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert edition %d: %w", e.ID, err)
	}
	return nil
}

// ReplaceStatistics swaps the edition's counter rows in one
// transaction and flips the computed flag.
func (r *EditionRepository) ReplaceStatistics(ctx context.Context, editionID uint32, stats []edition.Stat) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace statistics: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM edition_stats WHERE edition_id = $1", int64(editionID)); err != nil {
		return fmt.Errorf("delete statistics of edition %d: %w", editionID, err)
	}

	if len(stats) > 0 {
		builder := qb.InsertInto("edition_stats").Columns("edition_id", "player_id", "stat_type", "value")
		for _, stat := range stats {
			builder = builder.Values(int64(editionID), int64(stat.PlayerID), string(stat.Type), int64(stat.Value))
		}
		query, args, err := builder.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert statistics query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert statistics of edition %d: %w", editionID, err)
		}
	}

	updateQuery, updateArgs, err := qb.Update("editions").
		Set("stats_computed", true).
		Where(qb.Eq("id", int64(editionID))).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark edition computed query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, updateQuery, updateArgs...); err != nil {
		return fmt.Errorf("mark edition %d computed: %w", editionID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace statistics: %w", err)
	}
	return nil
}

func (r *EditionRepository) Statistics(ctx context.Context, editionID uint32) ([]edition.Stat, bool, error) {
	flagQuery, flagArgs, err := qb.Select("stats_computed").From("editions").
		Where(qb.Eq("id", int64(editionID))).
		ToSQL()
	if err != nil {
		return nil, false, fmt.Errorf("build read computed flag query: %w", err)
	}
	var computed bool
	if err := r.db.GetContext(ctx, &computed, flagQuery, flagArgs...); err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read computed flag of edition %d: %w", editionID, err)
	}
	if !computed {
		return nil, false, nil
	}

	query, args, err := qb.Select("*").From("edition_stats").
		Where(qb.Eq("edition_id", int64(editionID))).
		OrderBy("player_id", "stat_type").
		ToSQL()
	if err != nil {
		return nil, false, fmt.Errorf("build list statistics query: %w", err)
	}
	var rows []editionStatTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, false, fmt.Errorf("select statistics of edition %d: %w", editionID, err)
	}

	out := make([]edition.Stat, 0, len(rows))
	for _, row := range rows {
		out = append(out, edition.Stat{
			PlayerID: uint64(row.PlayerID),
			Type:     edition.StatType(row.StatType),
			Value:    uint32(row.Value),
		})
	}
	return out, true, nil
}

func (r *EditionRepository) selectEditions(ctx context.Context, query string, args []any) ([]edition.Edition, error) {
	var rows []editionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select editions: %w", err)
	}
	out := make([]edition.Edition, 0, len(rows))
	for _, row := range rows {
		out = append(out, editionFromRow(row))
	}
	return out, nil
}
