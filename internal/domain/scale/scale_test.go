package scale

import (
	"testing"

	"github.com/openera/rankings/internal/domain/match"
	"github.com/openera/rankings/internal/domain/tournament"
)

func testTable() *Table {
	return NewTable([]Row{
		{Level: tournament.LevelGrandSlam, Round: match.RoundFinal, WinnerPoints: 2000, LoserPoints: 1200, LoserExemptPoints: 1200, Cumulative: true},
		{Level: tournament.LevelGrandSlam, Round: match.RoundSemifinal, WinnerPoints: 480, LoserPoints: 0, LoserExemptPoints: 0, Cumulative: true},
		{Level: tournament.LevelAtp250, Round: match.RoundFinal, WinnerPoints: 250, LoserPoints: 150, LoserExemptPoints: 150},
		{Level: tournament.LevelAtp250, Round: match.RoundSemifinal, WinnerPoints: 0, LoserPoints: 90, LoserExemptPoints: 45},
	})
}

func newFinal(t *testing.T) *match.Match {
	t.Helper()
	m, err := match.New(1, 500, 1, match.RoundFinal, 5, nil, false, false, false,
		match.Side{PlayerID: 101}, match.Side{PlayerID: 102})
	if err != nil {
		t.Fatalf("new match: %v", err)
	}
	return m
}

func TestLevelScaleFiltersByRound(t *testing.T) {
	t.Parallel()
	table := testTable()

	round := match.RoundFinal
	rows := table.LevelScale(tournament.LevelGrandSlam, &round)
	if len(rows) != 1 || rows[0].WinnerPoints != 2000 {
		t.Fatalf("unexpected rows: %+v", rows)
	}

	rows = table.LevelScale(tournament.LevelGrandSlam, nil)
	if len(rows) != 2 {
		t.Fatalf("expected both grand slam rows, got %+v", rows)
	}
}

func TestLevelScaleSynthesizesPlaceholder(t *testing.T) {
	t.Parallel()
	table := testTable()

	rows := table.LevelScale(tournament.LevelChallenger, nil)
	if len(rows) != 1 {
		t.Fatalf("expected one placeholder row, got %+v", rows)
	}
	row := rows[0]
	if row.Round != match.RoundR128 || row.WinnerPoints != 0 || row.Cumulative {
		t.Fatalf("unexpected placeholder: %+v", row)
	}

	round := match.RoundQuarter
	rows = table.LevelScale(tournament.LevelChallenger, &round)
	if rows[0].Round != match.RoundQuarter {
		t.Fatalf("placeholder must keep the requested round: %+v", rows[0])
	}
}

func TestMatchPoints(t *testing.T) {
	t.Parallel()
	table := testTable()
	m := newFinal(t)

	if got := table.MatchPoints(m, tournament.LevelGrandSlam, 101, false); got != 2000 {
		t.Fatalf("winner points = %d, want 2000", got)
	}
	if got := table.MatchPoints(m, tournament.LevelGrandSlam, 102, false); got != 1200 {
		t.Fatalf("loser points = %d, want 1200", got)
	}
	if got := table.MatchPoints(m, tournament.LevelGrandSlam, 999, false); got != 0 {
		t.Fatalf("non-participant points = %d, want 0", got)
	}
	if got := table.MatchPoints(nil, tournament.LevelGrandSlam, 101, false); got != 0 {
		t.Fatalf("nil match points = %d, want 0", got)
	}
}

func TestMatchPointsExemptLoser(t *testing.T) {
	t.Parallel()
	table := testTable()

	m, err := match.New(2, 500, 2, match.RoundSemifinal, 3, nil, false, false, false,
		match.Side{PlayerID: 101}, match.Side{PlayerID: 102})
	if err != nil {
		t.Fatalf("new match: %v", err)
	}

	if got := table.MatchPoints(m, tournament.LevelAtp250, 102, false); got != 90 {
		t.Fatalf("loser points = %d, want 90", got)
	}
	if got := table.MatchPoints(m, tournament.LevelAtp250, 102, true); got != 45 {
		t.Fatalf("exempt loser points = %d, want 45", got)
	}
}
