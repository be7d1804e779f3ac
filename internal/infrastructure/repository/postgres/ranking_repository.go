package postgres

import (
	"context"
	"fmt"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/openera/rankings/internal/domain/ranking"
	qb "github.com/openera/rankings/internal/platform/querybuilder"
)

type rankingTableModel struct {
	PlayerID       int64  `db:"player_id"`
	Year           int32  `db:"year"`
	Week           int16  `db:"week_no"`
	WeekPoints     int64  `db:"week_points"`
	CalendarPoints int64  `db:"calendar_points"`
	RollingPoints  int64  `db:"rolling_points"`
	CalendarRank   int32  `db:"calendar_rank"`
	RollingRank    int32  `db:"rolling_rank"`
	Elo            int32  `db:"elo"`
	Tournaments    string `db:"tournament_ids"`
	CalendarList   string `db:"calendar_tournament_ids"`
	RollingList    string `db:"rolling_tournament_ids"`
}

type RankingRepository struct {
	db *sqlx.DB
}

func NewRankingRepository(db *sqlx.DB) *RankingRepository {
	return &RankingRepository{db: db}
}

func (r *RankingRepository) Upsert(ctx context.Context, e ranking.Entry) error {
	row := rankingTableModel{
		PlayerID:       int64(e.PlayerID),
		Year:           int32(e.Year),
		Week:           int16(e.Week),
		WeekPoints:     int64(e.WeekPoints),
		CalendarPoints: int64(e.CalendarPoints),
		RollingPoints:  int64(e.RollingPoints),
		CalendarRank:   int32(e.CalendarRank),
		RollingRank:    int32(e.RollingRank),
		Elo:            int32(e.Elo),
		Tournaments:    encodeIDList(e.TournamentIDs),
		CalendarList:   encodeIDList(e.CalendarTournamentIDs),
		RollingList:    encodeIDList(e.RollingTournamentIDs),
	}
	query, args, err := qb.InsertModel("atp_ranking", row, `ON CONFLICT (player_id, year, week_no)
DO UPDATE SET
	week_points = EXCLUDED.week_points,
	calendar_points = EXCLUDED.calendar_points,
	rolling_points = EXCLUDED.rolling_points,
	calendar_rank = EXCLUDED.calendar_rank,
	rolling_rank = EXCLUDED.rolling_rank,
	elo = EXCLUDED.elo,
	tournament_ids = EXCLUDED.tournament_ids,
	calendar_tournament_ids = EXCLUDED.calendar_tournament_ids,
	rolling_tournament_ids = EXCLUDED.rolling_tournament_ids`)
	if err != nil {
		return fmt.Errorf("build upsert ranking query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert ranking of player %d: %w", e.PlayerID, err)
	}
	return nil
}

func (r *RankingRepository) Get(ctx context.Context, playerID uint64, year uint16, week uint8) (ranking.Entry, bool, error) {
	query, args, err := qb.Select("*").From("atp_ranking").
		Where(
			qb.Eq("player_id", int64(playerID)),
			qb.Eq("year", int32(year)),
			qb.Eq("week_no", int16(week)),
		).
		ToSQL()
	if err != nil {
		return ranking.Entry{}, false, fmt.Errorf("build get ranking query: %w", err)
	}

	var row rankingTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return ranking.Entry{}, false, nil
		}
		return ranking.Entry{}, false, fmt.Errorf("get ranking: %w", err)
	}
	entry, err := rankingFromRow(row)
	if err != nil {
		return ranking.Entry{}, false, err
	}
	return entry, true, nil
}

func (r *RankingRepository) ListWeek(ctx context.Context, year uint16, week uint8) ([]ranking.Entry, error) {
	query, args, err := qb.Select("*").From("atp_ranking").
		Where(
			qb.Eq("year", int32(year)),
			qb.Eq("week_no", int16(week)),
		).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list ranking week query: %w", err)
	}
	return r.selectEntries(ctx, query, args)
}

func (r *RankingRepository) ListPlayerWeeksAfter(ctx context.Context, playerID uint64, year uint16, weekExclusive uint8) ([]ranking.Entry, error) {
	query, args, err := qb.Select("*").From("atp_ranking").
		Where(
			qb.Eq("player_id", int64(playerID)),
			qb.Eq("year", int32(year)),
			qb.Gt("week_no", int16(weekExclusive)),
		).
		OrderBy("week_no").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player weeks query: %w", err)
	}
	return r.selectEntries(ctx, query, args)
}

func (r *RankingRepository) SetRank(ctx context.Context, playerID uint64, year uint16, week uint8, scope ranking.Scope, rank uint16) error {
	column := "calendar_rank"
	if scope == ranking.ScopeRolling {
		column = "rolling_rank"
	}
	query, args, err := qb.Update("atp_ranking").
		Set(column, int32(rank)).
		Where(
			qb.Eq("player_id", int64(playerID)),
			qb.Eq("year", int32(year)),
			qb.Eq("week_no", int16(week)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set rank query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set %s of player %d: %w", column, playerID, err)
	}
	return nil
}

func (r *RankingRepository) LatestEloBefore(ctx context.Context, playerID uint64, year uint16, week uint8) (uint16, bool, error) {
	query, args, err := qb.Select("elo").From("atp_ranking").
		Where(
			qb.Eq("player_id", int64(playerID)),
			qb.Expr("(year < ? OR (year = ? AND week_no < ?))", int32(year), int32(year), int16(week)),
		).
		OrderBy("year DESC", "week_no DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return 0, false, fmt.Errorf("build latest elo query: %w", err)
	}

	var elo int32
	if err := r.db.GetContext(ctx, &elo, query, args...); err != nil {
		if isNotFound(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("get latest elo of player %d: %w", playerID, err)
	}
	return uint16(elo), true, nil
}

// UpdateElo touches an existing row only; weeks the points sweep never
// wrote stay absent.
func (r *RankingRepository) UpdateElo(ctx context.Context, playerID uint64, year uint16, week uint8, elo uint16) error {
	query, args, err := qb.Update("atp_ranking").
		Set("elo", int32(elo)).
		Where(
			qb.Eq("player_id", int64(playerID)),
			qb.Eq("year", int32(year)),
			qb.Eq("week_no", int16(week)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update elo query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update elo of player %d: %w", playerID, err)
	}
	return nil
}

func (r *RankingRepository) DeleteYear(ctx context.Context, year uint16) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM atp_ranking WHERE year = $1", int32(year)); err != nil {
		return fmt.Errorf("delete ranking year %d: %w", year, err)
	}
	return nil
}

func (r *RankingRepository) selectEntries(ctx context.Context, query string, args []any) ([]ranking.Entry, error) {
	var rows []rankingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select ranking entries: %w", err)
	}
	out := make([]ranking.Entry, 0, len(rows))
	for _, row := range rows {
		entry, err := rankingFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

func rankingFromRow(row rankingTableModel) (ranking.Entry, error) {
	tournaments, err := decodeIDList(row.Tournaments)
	if err != nil {
		return ranking.Entry{}, fmt.Errorf("decode tournament list of player %d: %w", row.PlayerID, err)
	}
	calendarList, err := decodeIDList(row.CalendarList)
	if err != nil {
		return ranking.Entry{}, fmt.Errorf("decode calendar list of player %d: %w", row.PlayerID, err)
	}
	rollingList, err := decodeIDList(row.RollingList)
	if err != nil {
		return ranking.Entry{}, fmt.Errorf("decode rolling list of player %d: %w", row.PlayerID, err)
	}

	return ranking.Entry{
		PlayerID:              uint64(row.PlayerID),
		Year:                  uint16(row.Year),
		Week:                  uint8(row.Week),
		WeekPoints:            uint32(row.WeekPoints),
		CalendarPoints:        uint32(row.CalendarPoints),
		RollingPoints:         uint32(row.RollingPoints),
		CalendarRank:          uint16(row.CalendarRank),
		RollingRank:           uint16(row.RollingRank),
		Elo:                   uint16(row.Elo),
		TournamentIDs:         tournaments,
		CalendarTournamentIDs: calendarList,
		RollingTournamentIDs:  rollingList,
	}, nil
}

func encodeIDList(ids []uint32) string {
	if len(ids) == 0 {
		return "[]"
	}
	encoded, err := sonic.Marshal(ids)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}

func decodeIDList(raw string) ([]uint32, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var out []uint32
	if err := sonic.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}
