package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/openera/rankings/internal/domain/edition"
	"github.com/openera/rankings/internal/domain/player"
	"github.com/openera/rankings/internal/domain/ranking"
	"github.com/openera/rankings/internal/platform/calendar"
	"github.com/openera/rankings/internal/platform/logging"
)

// RankingService runs the weekly ATP points sweep of a year and
// exposes ranking table reads.
type RankingService struct {
	playerRepo  player.Repository
	editionRepo edition.Repository
	rankingRepo ranking.Repository
	stats       *StatsService
	elo         *EloService
	logger      *logging.Logger
}

func NewRankingService(playerRepo player.Repository, editionRepo edition.Repository, rankingRepo ranking.Repository, stats *StatsService, elo *EloService, logger *logging.Logger) *RankingService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RankingService{
		playerRepo:  playerRepo,
		editionRepo: editionRepo,
		rankingRepo: rankingRepo,
		stats:       stats,
		elo:         elo,
		logger:      logger,
	}
}

// ComputeYear recomputes every ranking week of a year from scratch:
// points of the week, calendar cumulative, rolling cumulative with the
// year-boundary roll-off, then ranks and ELO ratings.
func (s *RankingService) ComputeYear(ctx context.Context, year int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.ComputeYear")
	defer span.End()

	if year < 1 {
		return fmt.Errorf("%w: year %d", ErrInvalidInput, year)
	}

	weeksCount := calendar.WeeksInYear(year)
	previousYearIs53 := calendar.Is53WeekYear(year - 1)

	if err := s.rankingRepo.DeleteYear(ctx, uint16(year)); err != nil {
		return fmt.Errorf("clear ranking year %d: %w", year, err)
	}

	// The year window closes one day early on purpose; editions ending
	// on December 31st belong to the next ranking year.
	editionsOfTheYear, err := s.editionRepo.ListByPeriod(ctx, edition.PeriodFilter{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		return fmt.Errorf("list editions of year %d: %w", year, err)
	}
	for _, e := range editionsOfTheYear {
		if err := s.stats.EnsureEditionStatistics(ctx, e.ID); err != nil {
			return err
		}
	}

	players, err := s.eligiblePlayers(ctx, year)
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "ranking sweep started",
		"year", year,
		"weeks", weeksCount,
		"players", len(players),
		"editions", len(editionsOfTheYear),
	)

	for week := uint8(1); int(week) <= weeksCount; week++ {
		var weekEditions []edition.Edition
		for _, e := range editionsOfTheYear {
			if calendar.WeekNumber(e.DateEnd) == int(week) {
				weekEditions = append(weekEditions, e)
			}
		}

		for _, p := range players {
			if err := s.computePlayerWeek(ctx, p, year, week, weekEditions, previousYearIs53); err != nil {
				return err
			}
		}

		for _, scope := range []ranking.Scope{ranking.ScopeCalendar, ranking.ScopeRolling} {
			if err := s.assignRanks(ctx, uint16(year), week, scope); err != nil {
				return err
			}
		}
	}

	return nil
}

// eligiblePlayers keeps every known player whose activity span
// overlaps [year-1, year].
func (s *RankingService) eligiblePlayers(ctx context.Context, year int) ([]player.Player, error) {
	all, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	var out []player.Player
	for _, p := range all {
		if p.Unknown() {
			continue
		}
		if p.ActivityBegin.Year() <= year && p.ActivityEnd.Year()+1 >= year {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *RankingService) computePlayerWeek(ctx context.Context, p player.Player, year int, week uint8, weekEditions []edition.Edition, previousYearIs53 bool) error {
	var (
		weekPoints  uint32
		singleIDs   []uint32
		multiEvents bool
	)
	for _, e := range weekEditions {
		points, participated, err := s.editionPoints(ctx, e.ID, p.ID)
		if err != nil {
			return err
		}
		if !participated {
			continue
		}
		if len(singleIDs) > 0 {
			multiEvents = true
		}
		weekPoints += points
		singleIDs = append(singleIDs, e.TournamentID)
	}
	if multiEvents {
		s.logger.WarnContext(ctx, "player at multiple tournaments in one week",
			"player_id", p.ID,
			"year", year,
			"week", week,
			"tournament_ids", singleIDs,
		)
	}

	calendarPoints := weekPoints
	calendarIDs := append([]uint32(nil), singleIDs...)
	if previous, ok, err := s.rankingRepo.Get(ctx, p.ID, uint16(year), week-1); err != nil {
		return fmt.Errorf("read previous week of player %d: %w", p.ID, err)
	} else if ok {
		calendarPoints += previous.CalendarPoints
		calendarIDs = append(calendarIDs, previous.CalendarTournamentIDs...)
	}

	rollingPoints := calendarPoints
	rollingIDs := append([]uint32(nil), calendarIDs...)

	cutoff := week
	if previousYearIs53 {
		cutoff = week + 1
	}
	lastYearEntries, err := s.rankingRepo.ListPlayerWeeksAfter(ctx, p.ID, uint16(year-1), cutoff)
	if err != nil {
		return fmt.Errorf("read previous year of player %d: %w", p.ID, err)
	}
	for _, entry := range lastYearEntries {
		if len(entry.TournamentIDs) == 0 {
			continue
		}
		carried, carriedIDs, err := s.carryLastYearWeek(ctx, p.ID, year, entry, singleIDs)
		if err != nil {
			return err
		}
		rollingPoints += carried
		rollingIDs = append(rollingIDs, carriedIDs...)
	}

	// No tournament in the trailing window means no ranking row.
	if len(rollingIDs) == 0 {
		return nil
	}

	entry := ranking.Entry{
		PlayerID:              p.ID,
		Year:                  uint16(year),
		Week:                  week,
		WeekPoints:            weekPoints,
		CalendarPoints:        calendarPoints,
		RollingPoints:         rollingPoints,
		TournamentIDs:         singleIDs,
		CalendarTournamentIDs: calendarIDs,
		RollingTournamentIDs:  rollingIDs,
		// Fresh rows start at the baseline rating; the ELO pass rewrites
		// it right after from the played matches.
		Elo: ranking.DefaultElo,
	}
	if err := s.rankingRepo.Upsert(ctx, entry); err != nil {
		return fmt.Errorf("store ranking entry of player %d: %w", p.ID, err)
	}

	return s.elo.ComputeWeek(ctx, p.ID, uint16(year), week, weekEditions)
}

// editionPoints reads the memoized points counter of a player at an
// edition. The bool result distinguishes a participant with zero
// points from a player who never entered.
func (s *RankingService) editionPoints(ctx context.Context, editionID uint32, playerID uint64) (uint32, bool, error) {
	stats, _, err := s.editionRepo.Statistics(ctx, editionID)
	if err != nil {
		return 0, false, fmt.Errorf("read statistics of edition %d: %w", editionID, err)
	}
	for _, stat := range stats {
		if stat.PlayerID == playerID && stat.Type == edition.StatPoints {
			return stat.Value, true, nil
		}
	}
	return 0, false, nil
}

// carryLastYearWeek rolls one previous-year week into the trailing
// window. Tournaments replayed this week are dropped and the week's
// points are rebuilt from the surviving editions' counters.
func (s *RankingService) carryLastYearWeek(ctx context.Context, playerID uint64, year int, entry ranking.Entry, thisWeekIDs []uint32) (uint32, []uint32, error) {
	replayed := make(map[uint32]bool, len(thisWeekIDs))
	for _, id := range thisWeekIDs {
		replayed[id] = true
	}

	overlap := false
	for _, id := range entry.TournamentIDs {
		if replayed[id] {
			overlap = true
			break
		}
	}
	if !overlap {
		return entry.WeekPoints, append([]uint32(nil), entry.TournamentIDs...), nil
	}

	var (
		points uint32
		kept   []uint32
	)
	for _, tournamentID := range entry.TournamentIDs {
		if replayed[tournamentID] {
			continue
		}
		kept = append(kept, tournamentID)

		lastYearEdition, ok, err := s.editionRepo.GetByTournamentAndYear(ctx, tournamentID, uint16(year-1))
		if err != nil {
			return 0, nil, fmt.Errorf("read edition of tournament %d in %d: %w", tournamentID, year-1, err)
		}
		if !ok {
			continue
		}
		if err := s.stats.EnsureEditionStatistics(ctx, lastYearEdition.ID); err != nil {
			return 0, nil, err
		}
		editionPoints, _, err := s.editionPoints(ctx, lastYearEdition.ID, playerID)
		if err != nil {
			return 0, nil, err
		}
		points += editionPoints
	}
	return points, kept, nil
}

// assignRanks orders the week's rows by cumulative points, breaking
// ties on the contributing tournament count, and stores positional
// ranks 1..N.
func (s *RankingService) assignRanks(ctx context.Context, year uint16, week uint8, scope ranking.Scope) error {
	entries, err := s.rankingRepo.ListWeek(ctx, year, week)
	if err != nil {
		return fmt.Errorf("list ranking week %d/%d: %w", year, week, err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		pi, pj := entries[i].Points(scope), entries[j].Points(scope)
		if pi != pj {
			return pi > pj
		}
		ti, tj := tournamentTieBreak(entries[i].Tournaments(scope)), tournamentTieBreak(entries[j].Tournaments(scope))
		if ti != tj {
			return ti > tj
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})

	for i, entry := range entries {
		if err := s.rankingRepo.SetRank(ctx, entry.PlayerID, year, week, scope, uint16(i+1)); err != nil {
			return fmt.Errorf("store rank of player %d: %w", entry.PlayerID, err)
		}
	}
	return nil
}

// tournamentTieBreak counts the separators of the persisted id list,
// so an empty list and a single tournament compare equal.
func tournamentTieBreak(ids []uint32) int {
	if len(ids) == 0 {
		return 0
	}
	return len(ids) - 1
}

// RankingAtDate returns the ranking table of the week the date falls
// in, ordered by stored rank for the scope. Dates near year boundaries
// resolve to the ranking year the week belongs to.
func (s *RankingService) RankingAtDate(ctx context.Context, date time.Time, scope ranking.Scope, limit int) ([]ranking.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.RankingAtDate")
	defer span.End()

	year, week := calendar.RankingYearAndWeek(date)
	entries, err := s.rankingRepo.ListWeek(ctx, uint16(year), uint8(week))
	if err != nil {
		return nil, fmt.Errorf("list ranking week %d/%d: %w", year, week, err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if scope == ranking.ScopeRolling {
			return entries[i].RollingRank < entries[j].RollingRank
		}
		return entries[i].CalendarRank < entries[j].CalendarRank
	})
	return truncateEntries(entries, limit), nil
}

// EloRankingAtDate returns the same week's table ordered by ELO.
func (s *RankingService) EloRankingAtDate(ctx context.Context, date time.Time, limit int) ([]ranking.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.EloRankingAtDate")
	defer span.End()

	year, week := calendar.RankingYearAndWeek(date)
	entries, err := s.rankingRepo.ListWeek(ctx, uint16(year), uint8(week))
	if err != nil {
		return nil, fmt.Errorf("list ranking week %d/%d: %w", year, week, err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Elo != entries[j].Elo {
			return entries[i].Elo > entries[j].Elo
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})
	return truncateEntries(entries, limit), nil
}

func truncateEntries(entries []ranking.Entry, limit int) []ranking.Entry {
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
