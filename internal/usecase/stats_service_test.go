package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/openera/rankings/internal/domain/edition"
	"github.com/openera/rankings/internal/domain/match"
	"github.com/openera/rankings/internal/infrastructure/repository/memory"
)

func TestStatsService_PointsCumulativeFinalLoss(t *testing.T) {
	t.Parallel()

	r := newTestRepos(t)
	r.addMatch(t, 1, editionIDWimbledon2015, 1, match.RoundR128, 5, memory.PlayerIDFederer, memory.PlayerIDWawrinka)
	r.addMatch(t, 2, editionIDWimbledon2015, 2, match.RoundR64, 5, memory.PlayerIDFederer, memory.PlayerIDNadal)
	r.addMatch(t, 3, editionIDWimbledon2015, 3, match.RoundR32, 5, memory.PlayerIDFederer, memory.PlayerIDWawrinka)
	r.addMatch(t, 4, editionIDWimbledon2015, 4, match.RoundR16, 5, memory.PlayerIDFederer, memory.PlayerIDNadal)
	r.addMatch(t, 5, editionIDWimbledon2015, 5, match.RoundQuarter, 5, memory.PlayerIDFederer, memory.PlayerIDWawrinka)
	r.addMatch(t, 6, editionIDWimbledon2015, 6, match.RoundSemifinal, 5, memory.PlayerIDFederer, memory.PlayerIDNadal)
	r.addMatch(t, 7, editionIDWimbledon2015, 7, match.RoundFinal, 5, memory.PlayerIDDjokovic, memory.PlayerIDFederer)

	got, err := r.stats.ComputePlayerStatsForEdition(context.Background(), memory.PlayerIDFederer, editionIDWimbledon2015, edition.StatPoints)
	if err != nil {
		t.Fatalf("compute points: %v", err)
	}
	// Six round wins cumulate; losing the final adds nothing on top.
	if got != 1200 {
		t.Fatalf("unexpected finalist points: got=%d want=1200", got)
	}
}

func TestStatsService_PointsBestResultOnly(t *testing.T) {
	t.Parallel()

	r := newTestRepos(t)
	r.addMatch(t, 1, editionIDHalle2015, 1, match.RoundSemifinal, 3, memory.PlayerIDFederer, memory.PlayerIDNadal)
	r.addMatch(t, 2, editionIDHalle2015, 2, match.RoundSemifinal, 3, memory.PlayerIDWawrinka, memory.PlayerIDDjokovic)
	r.addMatch(t, 3, editionIDHalle2015, 3, match.RoundFinal, 3, memory.PlayerIDFederer, memory.PlayerIDWawrinka)

	cases := []struct {
		name     string
		playerID uint64
		want     uint32
	}{
		{name: "champion scores the final win only", playerID: memory.PlayerIDFederer, want: 500},
		{name: "finalist scores the semifinal win only", playerID: memory.PlayerIDWawrinka, want: 300},
		{name: "first match loss scores the exit row", playerID: memory.PlayerIDNadal, want: 180},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.stats.ComputePlayerStatsForEdition(context.Background(), tc.playerID, editionIDHalle2015, edition.StatPoints)
			if err != nil {
				t.Fatalf("compute points: %v", err)
			}
			if got != tc.want {
				t.Fatalf("unexpected points: got=%d want=%d", got, tc.want)
			}
		})
	}
}

func TestStatsService_PointsExemptLoser(t *testing.T) {
	t.Parallel()

	r := newTestRepos(t)
	// Nadal skipped the round of sixteen that others played, so his
	// quarterfinal exit pays the reduced row.
	r.addMatch(t, 1, editionIDHalle2015, 1, match.RoundR16, 3, memory.PlayerIDFederer, memory.PlayerIDWawrinka)
	qf := r.addMatch(t, 2, editionIDHalle2015, 2, match.RoundQuarter, 3, memory.PlayerIDDjokovic, memory.PlayerIDNadal)

	exempt, err := r.stats.PlayerWasExempt(context.Background(), qf, memory.PlayerIDNadal)
	if err != nil {
		t.Fatalf("exempt check: %v", err)
	}
	if !exempt {
		t.Fatalf("expected the quarterfinal loser to be exempt")
	}

	got, err := r.stats.ComputePlayerStatsForEdition(context.Background(), memory.PlayerIDNadal, editionIDHalle2015, edition.StatPoints)
	if err != nil {
		t.Fatalf("compute points: %v", err)
	}
	if got != 45 {
		t.Fatalf("unexpected exempt points: got=%d want=45", got)
	}
}

func TestStatsService_PlayerWasExemptEdges(t *testing.T) {
	t.Parallel()

	r := newTestRepos(t)
	opening := r.addMatch(t, 1, editionIDWimbledon2015, 1, match.RoundR128, 5, memory.PlayerIDFederer, memory.PlayerIDWawrinka)
	final := r.addMatch(t, 2, editionIDHalle2015, 1, match.RoundFinal, 3, memory.PlayerIDFederer, memory.PlayerIDWawrinka)

	// The opening round has no predecessor to skip.
	exempt, err := r.stats.PlayerWasExempt(context.Background(), opening, memory.PlayerIDFederer)
	if err != nil {
		t.Fatalf("exempt check: %v", err)
	}
	if exempt {
		t.Fatalf("opening round must never be exempt")
	}

	// The edition never staged a semifinal, so the final grants none.
	exempt, err = r.stats.PlayerWasExempt(context.Background(), final, memory.PlayerIDWawrinka)
	if err != nil {
		t.Fatalf("exempt check: %v", err)
	}
	if exempt {
		t.Fatalf("unstaged predecessor round must not grant exemption")
	}

	if _, err := r.stats.PlayerWasExempt(context.Background(), final, memory.PlayerIDNadal); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a non-participant, got %v", err)
	}
}

func TestStatsService_CountersAttributeSetsToMatchWinner(t *testing.T) {
	t.Parallel()

	r := newTestRepos(t)
	m := r.addMatch(t, 1, editionIDHalle2015, 1, match.RoundFinal, 3, memory.PlayerIDFederer, memory.PlayerIDWawrinka)
	if err := m.AddSetByNumber(1, u8p(6), u8p(4), nil); err != nil {
		t.Fatalf("add set 1: %v", err)
	}
	if err := m.AddSetByNumber(2, u8p(6), u8p(7), u16p(3)); err != nil {
		t.Fatalf("add set 2: %v", err)
	}
	if err := m.AddSetByNumber(3, u8p(7), u8p(6), u16p(5)); err != nil {
		t.Fatalf("add set 3: %v", err)
	}
	m.SetStatistics(
		match.SideStats{Aces: u32p(11), DoubleFaults: u32p(2), ServePoints: u32p(90)},
		match.SideStats{Aces: u32p(7), DoubleFaults: u32p(5), ServePoints: u32p(84)},
	)

	cases := []struct {
		statType edition.StatType
		playerID uint64
		want     uint32
	}{
		{edition.StatRound, memory.PlayerIDFederer, uint32(match.RoundFinal)},
		{edition.StatIsWinner, memory.PlayerIDFederer, 1},
		{edition.StatIsWinner, memory.PlayerIDWawrinka, 0},
		{edition.StatMatchWin, memory.PlayerIDFederer, 1},
		{edition.StatMatchLost, memory.PlayerIDWawrinka, 1},
		{edition.StatSetWin, memory.PlayerIDFederer, 2},
		// The stored counters key set ownership on the match winner, so
		// the loser's row repeats the winner's set counts.
		{edition.StatSetWin, memory.PlayerIDWawrinka, 2},
		{edition.StatSetLost, memory.PlayerIDFederer, 1},
		{edition.StatGameWin, memory.PlayerIDFederer, 19},
		{edition.StatGameWin, memory.PlayerIDWawrinka, 19},
		{edition.StatGameLost, memory.PlayerIDFederer, 17},
		{edition.StatTieBreakWin, memory.PlayerIDFederer, 1},
		{edition.StatTieBreakLost, memory.PlayerIDFederer, 1},
		{edition.StatAce, memory.PlayerIDFederer, 11},
		{edition.StatAce, memory.PlayerIDWawrinka, 7},
		{edition.StatDoubleFault, memory.PlayerIDWawrinka, 5},
		{edition.StatServePoints, memory.PlayerIDFederer, 90},
	}
	for _, tc := range cases {
		got, err := r.stats.ComputePlayerStatsForEdition(context.Background(), tc.playerID, editionIDHalle2015, tc.statType)
		if err != nil {
			t.Fatalf("compute %s for player %d: %v", tc.statType, tc.playerID, err)
		}
		if got != tc.want {
			t.Fatalf("unexpected %s for player %d: got=%d want=%d", tc.statType, tc.playerID, got, tc.want)
		}
	}
}

func TestStatsService_WalkoverExcludedFromMatchCounters(t *testing.T) {
	t.Parallel()

	r := newTestRepos(t)
	r.addWalkover(t, 1, editionIDHalle2015, 1, match.RoundSemifinal, memory.PlayerIDFederer, memory.PlayerIDNadal)
	r.addMatch(t, 2, editionIDHalle2015, 2, match.RoundFinal, 3, memory.PlayerIDFederer, memory.PlayerIDWawrinka)

	wins, err := r.stats.ComputePlayerStatsForEdition(context.Background(), memory.PlayerIDFederer, editionIDHalle2015, edition.StatMatchWin)
	if err != nil {
		t.Fatalf("compute match wins: %v", err)
	}
	if wins != 1 {
		t.Fatalf("unexpected match wins: got=%d want=1", wins)
	}
	losses, err := r.stats.ComputePlayerStatsForEdition(context.Background(), memory.PlayerIDNadal, editionIDHalle2015, edition.StatMatchLost)
	if err != nil {
		t.Fatalf("compute match losses: %v", err)
	}
	if losses != 0 {
		t.Fatalf("unexpected match losses: got=%d want=0", losses)
	}
}

func TestStatsService_UnknownReferences(t *testing.T) {
	t.Parallel()

	r := newTestRepos(t)
	if _, err := r.stats.ComputePlayerStatsForEdition(context.Background(), 999, editionIDHalle2015, edition.StatPoints); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for an unknown player, got %v", err)
	}
	if _, err := r.stats.ComputePlayerStatsForEdition(context.Background(), memory.PlayerIDFederer, 9999, edition.StatPoints); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for an unknown edition, got %v", err)
	}
}

func TestStatsService_EnsureEditionStatisticsMemoizes(t *testing.T) {
	t.Parallel()

	r := newTestRepos(t)
	r.addMatch(t, 1, editionIDHalle2015, 1, match.RoundFinal, 3, memory.PlayerIDFederer, memory.PlayerIDWawrinka)

	if err := r.stats.EnsureEditionStatistics(context.Background(), editionIDHalle2015); err != nil {
		t.Fatalf("first compute: %v", err)
	}
	stats, computed, err := r.editions.Statistics(context.Background(), editionIDHalle2015)
	if err != nil {
		t.Fatalf("read statistics: %v", err)
	}
	if !computed {
		t.Fatalf("expected the computed flag to be set")
	}
	if want := 2 * len(edition.AllStatTypes); len(stats) != want {
		t.Fatalf("unexpected stat row count: got=%d want=%d", len(stats), want)
	}

	// A match arriving after the snapshot must not change it.
	r.addMatch(t, 2, editionIDHalle2015, 2, match.RoundSemifinal, 3, memory.PlayerIDDjokovic, memory.PlayerIDNadal)
	if err := r.stats.EnsureEditionStatistics(context.Background(), editionIDHalle2015); err != nil {
		t.Fatalf("second compute: %v", err)
	}
	again, _, err := r.editions.Statistics(context.Background(), editionIDHalle2015)
	if err != nil {
		t.Fatalf("read statistics: %v", err)
	}
	if len(again) != len(stats) {
		t.Fatalf("memoized statistics changed: got=%d rows want=%d", len(again), len(stats))
	}
}

func TestStatsService_ComputeYearEditionStatistics(t *testing.T) {
	t.Parallel()

	r := newTestRepos(t)
	r.addMatch(t, 1, editionIDHalle2015, 1, match.RoundFinal, 3, memory.PlayerIDFederer, memory.PlayerIDWawrinka)
	r.addMatch(t, 2, editionIDWimbledon2015, 1, match.RoundFinal, 5, memory.PlayerIDDjokovic, memory.PlayerIDFederer)
	r.addMatch(t, 3, editionIDGstaad2014, 1, match.RoundFinal, 3, memory.PlayerIDFederer, memory.PlayerIDWawrinka)

	if err := r.stats.ComputeYearEditionStatistics(context.Background(), 2015, 4); err != nil {
		t.Fatalf("precompute year: %v", err)
	}

	for _, editionID := range []uint32{editionIDHalle2015, editionIDWimbledon2015, editionIDGstaad2015} {
		if _, computed, err := r.editions.Statistics(context.Background(), editionID); err != nil || !computed {
			t.Fatalf("edition %d not computed: computed=%v err=%v", editionID, computed, err)
		}
	}
	// Editions of other years stay untouched.
	if _, computed, err := r.editions.Statistics(context.Background(), editionIDGstaad2014); err != nil || computed {
		t.Fatalf("2014 edition unexpectedly computed: computed=%v err=%v", computed, err)
	}
}

func TestStatsService_PlayerPointsInPeriod(t *testing.T) {
	t.Parallel()

	r := newTestRepos(t)
	r.addMatch(t, 1, editionIDHalle2015, 1, match.RoundFinal, 3, memory.PlayerIDFederer, memory.PlayerIDWawrinka)
	r.addMatch(t, 2, editionIDWimbledon2015, 1, match.RoundSemifinal, 5, memory.PlayerIDFederer, memory.PlayerIDNadal)
	r.addMatch(t, 3, editionIDWimbledon2015, 2, match.RoundFinal, 5, memory.PlayerIDDjokovic, memory.PlayerIDFederer)

	total, err := r.stats.PlayerPointsInPeriod(context.Background(), memory.PlayerIDFederer, day(2015, 6, 1), nil)
	if err != nil {
		t.Fatalf("points in period: %v", err)
	}
	if total != 980 {
		t.Fatalf("unexpected season points: got=%d want=980", total)
	}

	end := day(2015, 6, 20)
	total, err = r.stats.PlayerPointsInPeriod(context.Background(), memory.PlayerIDFederer, day(2015, 6, 1), &end)
	if err != nil {
		t.Fatalf("points in narrow period: %v", err)
	}
	if total != 500 {
		t.Fatalf("unexpected narrow period points: got=%d want=500", total)
	}

	badEnd := day(2015, 6, 1)
	if _, err := r.stats.PlayerPointsInPeriod(context.Background(), memory.PlayerIDFederer, day(2015, 6, 1), &badEnd); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a reversed period, got %v", err)
	}
}
