package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"github.com/openera/rankings/internal/domain/edition"
	"github.com/openera/rankings/internal/domain/match"
	"github.com/openera/rankings/internal/domain/player"
	"github.com/openera/rankings/internal/domain/scale"
	"github.com/openera/rankings/internal/platform/logging"
)

// StatsService derives per-player per-edition counters from raw match
// records and memoizes them on the edition repository.
type StatsService struct {
	playerRepo  player.Repository
	editionRepo edition.Repository
	matchRepo   match.Repository
	scale       *scale.Table
	logger      *logging.Logger
}

func NewStatsService(playerRepo player.Repository, editionRepo edition.Repository, matchRepo match.Repository, table *scale.Table, logger *logging.Logger) *StatsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StatsService{
		playerRepo:  playerRepo,
		editionRepo: editionRepo,
		matchRepo:   matchRepo,
		scale:       table,
		logger:      logger,
	}
}

// ComputePlayerStatsForEdition computes one counter for one player at
// one edition. A player with no matches there scores zero on every
// counter.
func (s *StatsService) ComputePlayerStatsForEdition(ctx context.Context, playerID uint64, editionID uint32, statType edition.StatType) (uint32, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.ComputePlayerStatsForEdition")
	defer span.End()

	_, ok, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return 0, fmt.Errorf("get player %d: %w", playerID, err)
	}
	if !ok {
		return 0, fmt.Errorf("%w: player %d", ErrNotFound, playerID)
	}

	e, ok, err := s.editionRepo.GetByID(ctx, editionID)
	if err != nil {
		return 0, fmt.Errorf("get edition %d: %w", editionID, err)
	}
	if !ok {
		return 0, fmt.Errorf("%w: edition %d", ErrNotFound, editionID)
	}

	editionMatches, err := s.matchRepo.ListByEdition(ctx, editionID)
	if err != nil {
		return 0, fmt.Errorf("list matches of edition %d: %w", editionID, err)
	}
	var matches []*match.Match
	for _, m := range editionMatches {
		if m.HasPlayer(playerID) {
			matches = append(matches, m)
		}
	}
	if len(matches) == 0 {
		return 0, nil
	}

	switch statType {
	case edition.StatRound:
		return uint32(bestRoundMatch(matches).Round), nil
	case edition.StatIsWinner:
		if bestRoundMatch(matches).Won(playerID) {
			return 1, nil
		}
		return 0, nil
	case edition.StatPoints:
		return s.computePoints(ctx, playerID, e, matches)
	case edition.StatMatchWin:
		return countMatches(matches, func(m *match.Match) bool { return m.Won(playerID) && !m.Walkover }), nil
	case edition.StatMatchLost:
		return countMatches(matches, func(m *match.Match) bool { return !m.Won(playerID) && !m.Walkover }), nil
	case edition.StatSetWin:
		return sumSets(matches, func(m *match.Match, rec *match.SetRecord) uint32 {
			if rec.WonBy == m.Winner.PlayerID {
				return 1
			}
			return 0
		}), nil
	case edition.StatSetLost:
		return sumSets(matches, func(m *match.Match, rec *match.SetRecord) uint32 {
			if rec.WonBy != m.Winner.PlayerID {
				return 1
			}
			return 0
		}), nil
	case edition.StatGameWin:
		// Set attribution keys on the match winner for either player,
		// matching the persisted stat tables.
		return sumSets(matches, func(m *match.Match, rec *match.SetRecord) uint32 {
			if rec.WonBy == m.Winner.PlayerID {
				return uint32(rec.Set.WinnerGames)
			}
			return uint32(rec.Set.LoserGames)
		}), nil
	case edition.StatGameLost:
		return sumSets(matches, func(m *match.Match, rec *match.SetRecord) uint32 {
			if rec.WonBy != m.Winner.PlayerID {
				return uint32(rec.Set.WinnerGames)
			}
			return uint32(rec.Set.LoserGames)
		}), nil
	case edition.StatTieBreakWin:
		return sumSets(matches, func(m *match.Match, rec *match.SetRecord) uint32 {
			if rec.WonBy == m.Winner.PlayerID && rec.Set.IsTieBreak() {
				return 1
			}
			return 0
		}), nil
	case edition.StatTieBreakLost:
		return sumSets(matches, func(m *match.Match, rec *match.SetRecord) uint32 {
			if rec.WonBy != m.Winner.PlayerID && rec.Set.IsTieBreak() {
				return 1
			}
			return 0
		}), nil
	case edition.StatAce:
		return sumSideStat(matches, playerID, func(st match.SideStats) *uint32 { return st.Aces }), nil
	case edition.StatDoubleFault:
		return sumSideStat(matches, playerID, func(st match.SideStats) *uint32 { return st.DoubleFaults }), nil
	case edition.StatServePoints:
		return sumSideStat(matches, playerID, func(st match.SideStats) *uint32 { return st.ServePoints }), nil
	case edition.StatFirstServeIn:
		return sumSideStat(matches, playerID, func(st match.SideStats) *uint32 { return st.FirstServesIn }), nil
	case edition.StatFirstServeWon:
		return sumSideStat(matches, playerID, func(st match.SideStats) *uint32 { return st.FirstServesWon }), nil
	case edition.StatSecondServeWon:
		return sumSideStat(matches, playerID, func(st match.SideStats) *uint32 { return st.SecondServesWon }), nil
	case edition.StatServeGames:
		return sumSideStat(matches, playerID, func(st match.SideStats) *uint32 { return st.ServeGames }), nil
	case edition.StatBreakPointSaved:
		return sumSideStat(matches, playerID, func(st match.SideStats) *uint32 { return st.BreakPointsSaved }), nil
	case edition.StatBreakPointFaced:
		return sumSideStat(matches, playerID, func(st match.SideStats) *uint32 { return st.BreakPointsFaced }), nil
	}

	return 0, nil
}

// computePoints sums three disjoint match subsets: every match on a
// cumulative scale, first-round exits on non-cumulative scales, and
// the single best win on non-cumulative scales.
func (s *StatsService) computePoints(ctx context.Context, playerID uint64, e edition.Edition, matches []*match.Match) (uint32, error) {
	var total uint32
	for _, m := range matches {
		round := m.Round
		row := s.scale.LevelScale(e.TournamentLevel, &round)[0]

		counted := false
		if row.Cumulative {
			counted = true
		} else if !m.Won(playerID) {
			firstEntered := true
			for _, other := range matches {
				if other.Round.Before(m.Round) {
					firstEntered = false
					break
				}
			}
			counted = firstEntered
		} else {
			bestWin := true
			for _, other := range matches {
				if m.Round.Before(other.Round) && other.Won(playerID) {
					bestWin = false
					break
				}
			}
			counted = bestWin
		}
		if !counted {
			continue
		}

		exempt, err := s.PlayerWasExempt(ctx, m, playerID)
		if err != nil {
			return 0, err
		}
		total += s.scale.MatchPoints(m, e.TournamentLevel, playerID, exempt)
	}
	return total, nil
}

// PlayerWasExempt reports whether the player reached m without playing
// the previous round of the edition, which happens when a bye or a
// withdrawal skipped them ahead. Editions that never staged the
// previous round grant no exemption.
func (s *StatsService) PlayerWasExempt(ctx context.Context, m *match.Match, playerID uint64) (bool, error) {
	if m == nil {
		return false, fmt.Errorf("%w: match is required", ErrInvalidInput)
	}
	if !m.HasPlayer(playerID) {
		return false, fmt.Errorf("%w: player %d did not play match %d", ErrInvalidInput, playerID, m.ID)
	}

	previous, ok := m.Round.Predecessor()
	if !ok {
		return false, nil
	}

	editionMatches, err := s.matchRepo.ListByEdition(ctx, m.EditionID)
	if err != nil {
		return false, fmt.Errorf("list matches of edition %d: %w", m.EditionID, err)
	}

	roundWasPlayed := false
	for _, other := range editionMatches {
		if other.Round == previous {
			roundWasPlayed = true
			if other.HasPlayer(playerID) {
				return false, nil
			}
		}
	}
	return roundWasPlayed, nil
}

// EnsureEditionStatistics computes and stores the full counter set of
// an edition once; later calls are no-ops.
func (s *StatsService) EnsureEditionStatistics(ctx context.Context, editionID uint32) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.EnsureEditionStatistics")
	defer span.End()

	_, computed, err := s.editionRepo.Statistics(ctx, editionID)
	if err != nil {
		return fmt.Errorf("read statistics of edition %d: %w", editionID, err)
	}
	if computed {
		return nil
	}

	matches, err := s.matchRepo.ListByEdition(ctx, editionID)
	if err != nil {
		return fmt.Errorf("list matches of edition %d: %w", editionID, err)
	}

	playerIDs := make(map[uint64]struct{}, len(matches)*2)
	for _, m := range matches {
		playerIDs[m.Winner.PlayerID] = struct{}{}
		playerIDs[m.Loser.PlayerID] = struct{}{}
	}

	stats := make([]edition.Stat, 0, len(playerIDs)*len(edition.AllStatTypes))
	for playerID := range playerIDs {
		for _, statType := range edition.AllStatTypes {
			value, err := s.ComputePlayerStatsForEdition(ctx, playerID, editionID, statType)
			if err != nil {
				return fmt.Errorf("compute %s for player %d at edition %d: %w", statType, playerID, editionID, err)
			}
			stats = append(stats, edition.Stat{PlayerID: playerID, Type: statType, Value: value})
		}
	}

	if err := s.editionRepo.ReplaceStatistics(ctx, editionID, stats); err != nil {
		return fmt.Errorf("store statistics of edition %d: %w", editionID, err)
	}

	s.logger.DebugContext(ctx, "edition statistics computed",
		"edition_id", editionID,
		"players", len(playerIDs),
	)
	return nil
}

// ComputeYearEditionStatistics precomputes the counters of every
// edition of a year. Editions are independent, so the work runs on a
// bounded worker pool.
func (s *StatsService) ComputeYearEditionStatistics(ctx context.Context, year uint16, maxWorkers int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.ComputeYearEditionStatistics")
	defer span.End()

	if maxWorkers < 1 {
		maxWorkers = 1
	}

	editions, err := s.editionRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list editions: %w", err)
	}

	pool, err := ants.NewPool(maxWorkers)
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		combined error
	)
	for _, e := range editions {
		if e.Year != year {
			continue
		}
		editionID := e.ID
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if err := s.EnsureEditionStatistics(ctx, editionID); err != nil {
				mu.Lock()
				combined = errors.CombineErrors(combined, err)
				mu.Unlock()
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			combined = errors.CombineErrors(combined, submitErr)
			mu.Unlock()
		}
	}
	wg.Wait()

	return combined
}

// PlayerPointsInPeriod sums the points counter over editions starting
// inside [begin, end]. The edition start date decides membership, the
// exact match dates being unknown. A nil end means one year after
// begin.
func (s *StatsService) PlayerPointsInPeriod(ctx context.Context, playerID uint64, begin time.Time, end *time.Time) (uint32, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.PlayerPointsInPeriod")
	defer span.End()

	until := begin.AddDate(1, 0, 0)
	if end != nil {
		if !end.After(begin) {
			return 0, fmt.Errorf("%w: end date must be after begin date", ErrInvalidInput)
		}
		until = *end
	}

	editions, err := s.editionRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list editions: %w", err)
	}

	var total uint32
	for _, e := range editions {
		if e.DateBegin.Before(begin) || e.DateBegin.After(until) {
			continue
		}
		points, err := s.ComputePlayerStatsForEdition(ctx, playerID, e.ID, edition.StatPoints)
		if err != nil {
			return 0, err
		}
		total += points
	}
	return total, nil
}

// bestRoundMatch is the match at the most important round the player
// reached.
func bestRoundMatch(matches []*match.Match) *match.Match {
	best := matches[0]
	for _, m := range matches[1:] {
		if m.Round.SortOrder() < best.Round.SortOrder() {
			best = m
		}
	}
	return best
}

func countMatches(matches []*match.Match, pred func(*match.Match) bool) uint32 {
	var n uint32
	for _, m := range matches {
		if pred(m) {
			n++
		}
	}
	return n
}

func sumSets(matches []*match.Match, value func(*match.Match, *match.SetRecord) uint32) uint32 {
	var total uint32
	for _, m := range matches {
		for _, rec := range m.Sets() {
			if rec != nil {
				total += value(m, rec)
			}
		}
	}
	return total
}

func sumSideStat(matches []*match.Match, playerID uint64, field func(match.SideStats) *uint32) uint32 {
	var total uint32
	for _, m := range matches {
		stats := m.LoserStats
		if m.Won(playerID) {
			stats = m.WinnerStats
		}
		if v := field(stats); v != nil {
			total += *v
		}
	}
	return total
}
