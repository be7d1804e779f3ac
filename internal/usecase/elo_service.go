package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/openera/rankings/internal/domain/edition"
	"github.com/openera/rankings/internal/domain/match"
	"github.com/openera/rankings/internal/domain/ranking"
	"github.com/openera/rankings/internal/domain/tournament"
	"github.com/openera/rankings/internal/platform/calendar"
	"github.com/openera/rankings/internal/platform/logging"
)

// EloService replays one player's matches of a ranking week and stores
// the resulting rating.
type EloService struct {
	matchRepo   match.Repository
	rankingRepo ranking.Repository
	logger      *logging.Logger
}

func NewEloService(matchRepo match.Repository, rankingRepo ranking.Repository, logger *logging.Logger) *EloService {
	if logger == nil {
		logger = logging.Default()
	}
	return &EloService{
		matchRepo:   matchRepo,
		rankingRepo: rankingRepo,
		logger:      logger,
	}
}

// LevelKFactor is the ELO volatility per competition tier.
func LevelKFactor(level tournament.Level) float64 {
	switch level {
	case tournament.LevelGrandSlam:
		return 20
	case tournament.LevelMasters:
		return 15
	case tournament.LevelMasters1000:
		return 10
	case tournament.LevelOlympics:
		return 7.5
	case tournament.LevelAtp500:
		return 5
	case tournament.LevelAtp250:
		return 2.5
	default:
		return 1
	}
}

// ComputeElo applies the logistic update to both ratings after one
// match between p1 and p2.
func ComputeElo(eloP1, eloP2 float64, p1Won bool, k float64) (float64, float64) {
	actual1, actual2 := 0.0, 1.0
	if p1Won {
		actual1, actual2 = 1.0, 0.0
	}
	d1 := eloP1 + k*(actual1-1/(1+math.Pow(10, -(eloP1-eloP2)/400)))
	d2 := eloP2 + k*(actual2-1/(1+math.Pow(10, -(eloP2-eloP1)/400)))
	return d1, d2
}

// ComputeWeek replays the player's matches at the week's editions and
// writes the rating. Opponent ratings are frozen at their last stored
// week rather than updated live inside a tournament. Week one writes
// into the closing week of the previous year.
func (s *EloService) ComputeWeek(ctx context.Context, playerID uint64, year uint16, week uint8, weekEditions []edition.Edition) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.EloService.ComputeWeek")
	defer span.End()

	currentElo, found, err := s.rankingRepo.LatestEloBefore(ctx, playerID, year, week)
	if err != nil {
		return fmt.Errorf("read elo of player %d: %w", playerID, err)
	}
	if !found {
		currentElo = ranking.DefaultElo
	}

	if len(weekEditions) > 0 {
		replays, err := s.collectWeekMatches(ctx, playerID, weekEditions)
		if err != nil {
			return err
		}

		for _, replay := range replays {
			opponentElo, found, err := s.rankingRepo.LatestEloBefore(ctx, replay.opponentID, year, week)
			if err != nil {
				return fmt.Errorf("read elo of opponent %d: %w", replay.opponentID, err)
			}
			if !found {
				opponentElo = ranking.DefaultElo
			}

			updated, _ := ComputeElo(float64(currentElo), float64(opponentElo), replay.won, LevelKFactor(replay.level))
			currentElo = uint16(math.Floor(updated))
		}
	}

	storeYear, storeWeek := year, week
	if week == 1 {
		storeYear = year - 1
		storeWeek = uint8(calendar.WeeksInYear(int(year) - 1))
	}
	if err := s.rankingRepo.UpdateElo(ctx, playerID, storeYear, storeWeek, currentElo); err != nil {
		return fmt.Errorf("store elo of player %d: %w", playerID, err)
	}
	return nil
}

type eloReplay struct {
	matchNum   uint16
	roundOrder int
	dateKey    int64
	opponentID uint64
	won        bool
	level      tournament.Level
}

// collectWeekMatches gathers the player's non-walkover matches at the
// given editions, ordered for replay: edition start ascending, then
// earlier rounds first with the bronze match alongside the final.
func (s *EloService) collectWeekMatches(ctx context.Context, playerID uint64, weekEditions []edition.Edition) ([]eloReplay, error) {
	var replays []eloReplay
	for _, e := range weekEditions {
		matches, err := s.matchRepo.ListByEdition(ctx, e.ID)
		if err != nil {
			return nil, fmt.Errorf("list matches of edition %d: %w", e.ID, err)
		}
		for _, m := range matches {
			if m.Walkover || !m.HasPlayer(playerID) {
				continue
			}
			opponentID := m.Winner.PlayerID
			if m.Won(playerID) {
				opponentID = m.Loser.PlayerID
			}
			roundOrder := int(m.Round)
			if m.Round == match.RoundBronze {
				roundOrder = int(match.RoundFinal)
			}
			replays = append(replays, eloReplay{
				matchNum:   m.MatchNum,
				roundOrder: roundOrder,
				dateKey:    e.DateBegin.Unix(),
				opponentID: opponentID,
				won:        m.Won(playerID),
				level:      e.TournamentLevel,
			})
		}
	}

	sort.Slice(replays, func(i, j int) bool {
		if replays[i].dateKey != replays[j].dateKey {
			return replays[i].dateKey < replays[j].dateKey
		}
		if replays[i].roundOrder != replays[j].roundOrder {
			return replays[i].roundOrder > replays[j].roundOrder
		}
		return replays[i].matchNum < replays[j].matchNum
	})
	return replays, nil
}
