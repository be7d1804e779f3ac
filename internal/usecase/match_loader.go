package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/openera/rankings/internal/domain/edition"
	"github.com/openera/rankings/internal/domain/match"
	"github.com/openera/rankings/internal/domain/player"
	"github.com/openera/rankings/internal/platform/logging"
)

// MatchLoader ingests match records. Between Begin and Finish the
// per-insert match-number uniqueness check is suspended so large
// imports stay linear; Finish reconciles the numbering in one sorted
// pass and fails on the first duplicate. The engines must only run on
// a repository whose Finish succeeded.
type MatchLoader struct {
	playerRepo  player.Repository
	editionRepo edition.Repository
	matchRepo   match.Repository
	logger      *logging.Logger

	batch bool
	count int
}

func NewMatchLoader(playerRepo player.Repository, editionRepo edition.Repository, matchRepo match.Repository, logger *logging.Logger) *MatchLoader {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchLoader{
		playerRepo:  playerRepo,
		editionRepo: editionRepo,
		matchRepo:   matchRepo,
		logger:      logger,
	}
}

// Begin opens batch mode.
func (l *MatchLoader) Begin() {
	l.batch = true
	l.count = 0
}

// Add validates the match's references and inserts it.
func (l *MatchLoader) Add(ctx context.Context, m *match.Match) error {
	if m == nil {
		return fmt.Errorf("%w: match is required", ErrInvalidInput)
	}

	if _, ok, err := l.editionRepo.GetByID(ctx, m.EditionID); err != nil {
		return fmt.Errorf("get edition %d: %w", m.EditionID, err)
	} else if !ok {
		return fmt.Errorf("%w: edition %d", ErrNotFound, m.EditionID)
	}
	for _, playerID := range []uint64{m.Winner.PlayerID, m.Loser.PlayerID} {
		if _, ok, err := l.playerRepo.GetByID(ctx, playerID); err != nil {
			return fmt.Errorf("get player %d: %w", playerID, err)
		} else if !ok {
			return fmt.Errorf("%w: player %d", ErrNotFound, playerID)
		}
	}

	if l.batch {
		if err := l.matchRepo.InsertUnchecked(ctx, m); err != nil {
			return err
		}
		l.count++
		return nil
	}
	return l.matchRepo.Insert(ctx, m)
}

// Finish closes batch mode and re-validates match-number uniqueness
// over everything loaded.
func (l *MatchLoader) Finish(ctx context.Context) error {
	if !l.batch {
		return nil
	}
	l.batch = false

	matches, err := l.matchRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}

	type numKey struct {
		matchNum  uint16
		editionID uint32
	}
	keys := make([]numKey, 0, len(matches))
	for _, m := range matches {
		keys = append(keys, numKey{matchNum: m.MatchNum, editionID: m.EditionID})
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].matchNum != keys[j].matchNum {
			return keys[i].matchNum < keys[j].matchNum
		}
		return keys[i].editionID < keys[j].editionID
	})
	for i := 0; i+1 < len(keys); i++ {
		if keys[i] == keys[i+1] {
			return errors.Newf("batch load broke match number uniqueness (edition %d, match %d)", keys[i].editionID, keys[i].matchNum)
		}
	}

	l.logger.InfoContext(ctx, "batch load reconciled",
		"matches", l.count,
	)
	return nil
}
