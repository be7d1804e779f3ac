package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openera/rankings/internal/domain/match"
	"github.com/openera/rankings/internal/infrastructure/repository/memory"
)

func TestStreakService_MaxRun(t *testing.T) {
	t.Parallel()

	r := newTestRepos(t)
	// Halle (week 25): two wins, then the Wimbledon fortnight: a loss
	// followed by a win at Gstaad 2015. Sequence for Federer: W W L W.
	r.addMatch(t, 1, editionIDHalle2015, 1, match.RoundSemifinal, 3, memory.PlayerIDFederer, memory.PlayerIDNadal)
	r.addMatch(t, 2, editionIDHalle2015, 2, match.RoundFinal, 3, memory.PlayerIDFederer, memory.PlayerIDWawrinka)
	r.addMatch(t, 3, editionIDWimbledon2015, 1, match.RoundR128, 5, memory.PlayerIDDjokovic, memory.PlayerIDFederer)
	r.addMatch(t, 4, editionIDGstaad2015, 1, match.RoundR32, 3, memory.PlayerIDFederer, memory.PlayerIDDjokovic)

	win, err := r.streaks().MaxRun(context.Background(), memory.PlayerIDFederer, StreakWin)
	if err != nil {
		t.Fatalf("max win run: %v", err)
	}
	if win.Length != 2 {
		t.Fatalf("unexpected win run: got=%d want=2", win.Length)
	}
	if !win.BeginDate.Equal(day(2015, 6, 15)) {
		t.Fatalf("unexpected win run begin: got=%v", win.BeginDate)
	}
	if win.BeginMatchNum != 1 {
		t.Fatalf("unexpected win run begin match: got=%d want=1", win.BeginMatchNum)
	}

	loss, err := r.streaks().MaxRun(context.Background(), memory.PlayerIDFederer, StreakLoss)
	if err != nil {
		t.Fatalf("max loss run: %v", err)
	}
	if loss.Length != 1 {
		t.Fatalf("unexpected loss run: got=%d want=1", loss.Length)
	}
	if !loss.BeginDate.Equal(day(2015, 6, 29)) {
		t.Fatalf("unexpected loss run begin: got=%v", loss.BeginDate)
	}
}

func TestStreakService_WalkoversDoNotBreakRuns(t *testing.T) {
	t.Parallel()

	r := newTestRepos(t)
	r.addMatch(t, 1, editionIDHalle2015, 1, match.RoundSemifinal, 3, memory.PlayerIDFederer, memory.PlayerIDNadal)
	r.addWalkover(t, 2, editionIDHalle2015, 2, match.RoundFinal, memory.PlayerIDWawrinka, memory.PlayerIDFederer)
	r.addMatch(t, 3, editionIDWimbledon2015, 1, match.RoundR128, 5, memory.PlayerIDFederer, memory.PlayerIDDjokovic)

	win, err := r.streaks().MaxRun(context.Background(), memory.PlayerIDFederer, StreakWin)
	if err != nil {
		t.Fatalf("max win run: %v", err)
	}
	if win.Length != 2 {
		t.Fatalf("walkover loss must not break the run: got=%d want=2", win.Length)
	}
}

func TestComputeWinLossRunOrdersRoundsWithinEdition(t *testing.T) {
	t.Parallel()

	// Within one tournament earlier rounds come first even when the
	// rows arrive final-first.
	final, err := match.New(1, editionIDHalle2015, 2, match.RoundFinal, 3, nil, false, false, false,
		match.Side{PlayerID: memory.PlayerIDFederer}, match.Side{PlayerID: memory.PlayerIDWawrinka})
	if err != nil {
		t.Fatalf("build final: %v", err)
	}
	semifinal, err := match.New(2, editionIDHalle2015, 1, match.RoundSemifinal, 3, nil, false, false, false,
		match.Side{PlayerID: memory.PlayerIDNadal}, match.Side{PlayerID: memory.PlayerIDFederer})
	if err != nil {
		t.Fatalf("build semifinal: %v", err)
	}

	got := ComputeWinLossRun([]*match.Match{final, semifinal}, func(uint32) time.Time {
		return day(2015, 6, 15)
	}, memory.PlayerIDFederer, StreakWin)
	if got.Length != 1 {
		t.Fatalf("unexpected win run: got=%d want=1", got.Length)
	}
	if got.BeginMatchNum != 2 {
		t.Fatalf("expected the run to begin at the final: got match %d", got.BeginMatchNum)
	}
}

func TestStreakService_MissingEdition(t *testing.T) {
	t.Parallel()

	r := newTestRepos(t)
	m, err := match.New(1, 9999, 1, match.RoundFinal, 3, nil, false, false, false,
		match.Side{PlayerID: memory.PlayerIDFederer}, match.Side{PlayerID: memory.PlayerIDWawrinka})
	if err != nil {
		t.Fatalf("build match: %v", err)
	}
	if err := r.matches.InsertUnchecked(context.Background(), m); err != nil {
		t.Fatalf("insert match: %v", err)
	}

	if _, err := r.streaks().MaxRun(context.Background(), memory.PlayerIDFederer, StreakWin); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a dangling edition, got %v", err)
	}
}
