package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/openera/rankings/internal/domain/edition"
	"github.com/openera/rankings/internal/domain/match"
)

// StreakKind selects the run direction.
type StreakKind uint8

const (
	StreakWin StreakKind = iota
	StreakLoss
)

// StreakResult is the longest run of one kind. BeginDate is the start
// date of the tournament where the run began, the exact match date
// being unknown.
type StreakResult struct {
	Length        int
	BeginDate     time.Time
	BeginMatchNum uint16
}

// ComputeWinLossRun scans a player's matches for the longest winning
// or losing run. Pre-match walkovers are excluded; matches are ordered
// by edition start date, earlier rounds first within an edition.
func ComputeWinLossRun(matches []*match.Match, editionStart func(editionID uint32) time.Time, playerID uint64, kind StreakKind) StreakResult {
	ordered := make([]*match.Match, 0, len(matches))
	for _, m := range matches {
		if !m.Walkover {
			ordered = append(ordered, m)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		di, dj := editionStart(ordered[i].EditionID), editionStart(ordered[j].EditionID)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return ordered[i].Round.SortOrder() > ordered[j].Round.SortOrder()
	})

	var (
		maxWin, maxLose         int
		currentWin, currentLose int
		winBeginNum, loseNum    uint16
		winBeginDate, loseDate  time.Time
	)
	for _, m := range ordered {
		if m.Won(playerID) {
			currentWin++
			currentLose = 0
			loseNum = 0
			if maxWin < currentWin {
				maxWin = currentWin
				if winBeginNum == 0 {
					winBeginNum = m.MatchNum
					winBeginDate = editionStart(m.EditionID)
				}
			}
		} else {
			currentLose++
			currentWin = 0
			winBeginNum = 0
			if maxLose < currentLose {
				maxLose = currentLose
				if loseNum == 0 {
					loseNum = m.MatchNum
					loseDate = editionStart(m.EditionID)
				}
			}
		}
	}

	if kind == StreakLoss {
		return StreakResult{Length: maxLose, BeginDate: loseDate, BeginMatchNum: loseNum}
	}
	return StreakResult{Length: maxWin, BeginDate: winBeginDate, BeginMatchNum: winBeginNum}
}

// StreakService computes win and loss runs from the repositories.
type StreakService struct {
	matchRepo   match.Repository
	editionRepo edition.Repository
}

func NewStreakService(matchRepo match.Repository, editionRepo edition.Repository) *StreakService {
	return &StreakService{matchRepo: matchRepo, editionRepo: editionRepo}
}

// MaxRun returns the longest run of the kind over the player's whole
// match history.
func (s *StreakService) MaxRun(ctx context.Context, playerID uint64, kind StreakKind) (StreakResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StreakService.MaxRun")
	defer span.End()

	matches, err := s.matchRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return StreakResult{}, fmt.Errorf("list matches of player %d: %w", playerID, err)
	}

	starts := make(map[uint32]time.Time)
	for _, m := range matches {
		if _, ok := starts[m.EditionID]; ok {
			continue
		}
		e, ok, err := s.editionRepo.GetByID(ctx, m.EditionID)
		if err != nil {
			return StreakResult{}, fmt.Errorf("get edition %d: %w", m.EditionID, err)
		}
		if !ok {
			return StreakResult{}, fmt.Errorf("%w: edition %d", ErrNotFound, m.EditionID)
		}
		starts[m.EditionID] = e.DateBegin
	}

	return ComputeWinLossRun(matches, func(editionID uint32) time.Time {
		return starts[editionID]
	}, playerID, kind), nil
}
