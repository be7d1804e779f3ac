package memory

import (
	"context"
	"testing"

	"github.com/openera/rankings/internal/domain/edition"
	"github.com/openera/rankings/internal/domain/match"
	"github.com/openera/rankings/internal/domain/ranking"
	"github.com/openera/rankings/internal/domain/tournament"
)

func TestEditionRepositoryUniquePerTournamentAndYear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewEditionRepository(SeedEditions())

	wimbledon := SeedTournaments()[0]
	dup, err := edition.New(900, wimbledon, 2015, 128, seedDate(2015, 6, 29), seedDate(2015, 7, 12), true, edition.Snapshot{})
	if err != nil {
		t.Fatalf("new edition: %v", err)
	}
	if err := repo.Insert(ctx, dup); err == nil {
		t.Fatal("expected uniqueness error for (tournament, year)")
	}

	e, ok, err := repo.GetByTournamentAndYear(ctx, TournamentIDWimbledon, 2015)
	if err != nil || !ok {
		t.Fatalf("get by tournament and year: ok=%v err=%v", ok, err)
	}
	if e.ID != 500 {
		t.Fatalf("unexpected edition: %d", e.ID)
	}
}

func TestEditionRepositoryStatisticsMemo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewEditionRepository(SeedEditions())

	_, computed, err := repo.Statistics(ctx, 500)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if computed {
		t.Fatal("fresh edition must not be flagged computed")
	}

	stats := []edition.Stat{{PlayerID: PlayerIDFederer, Type: edition.StatPoints, Value: 2000}}
	if err := repo.ReplaceStatistics(ctx, 500, stats); err != nil {
		t.Fatalf("replace statistics: %v", err)
	}

	got, computed, err := repo.Statistics(ctx, 500)
	if err != nil || !computed {
		t.Fatalf("statistics after replace: computed=%v err=%v", computed, err)
	}
	if len(got) != 1 || got[0].Value != 2000 {
		t.Fatalf("unexpected stats: %+v", got)
	}
}

func TestEditionRepositoryListByPeriodWindow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewEditionRepository(SeedEditions())

	editions, err := repo.ListByPeriod(ctx, edition.PeriodFilter{
		Start: seedDate(2015, 1, 1),
		End:   seedDate(2015, 7, 1),
	})
	if err != nil {
		t.Fatalf("list by period: %v", err)
	}
	if len(editions) != 1 || editions[0].ID != 501 {
		t.Fatalf("expected only the Halle edition, got %+v", editions)
	}

	grass, err := repo.ListByPeriod(ctx, edition.PeriodFilter{
		Start:    seedDate(2015, 1, 1),
		End:      seedDate(2016, 1, 1),
		Surfaces: []tournament.Surface{tournament.SurfaceGrass},
	})
	if err != nil {
		t.Fatalf("list by period: %v", err)
	}
	if len(grass) != 2 {
		t.Fatalf("expected both grass editions, got %+v", grass)
	}
}

func newSeedMatch(t *testing.T, id uint64, editionID uint32, num uint16, winner, loser uint64) *match.Match {
	t.Helper()
	m, err := match.New(id, editionID, num, match.RoundFinal, 3, nil, false, false, false,
		match.Side{PlayerID: winner}, match.Side{PlayerID: loser})
	if err != nil {
		t.Fatalf("new match: %v", err)
	}
	return m
}

func TestMatchRepositoryInsertEnforcesMatchNum(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewMatchRepository()

	if err := repo.Insert(ctx, newSeedMatch(t, 1, 500, 1, PlayerIDFederer, PlayerIDNadal)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.Insert(ctx, newSeedMatch(t, 2, 500, 1, PlayerIDDjokovic, PlayerIDWawrinka)); err == nil {
		t.Fatal("expected duplicate match number error")
	}
	if err := repo.InsertUnchecked(ctx, newSeedMatch(t, 3, 500, 1, PlayerIDDjokovic, PlayerIDWawrinka)); err != nil {
		t.Fatalf("unchecked insert must skip the match number check: %v", err)
	}

	matches, err := repo.ListByPlayer(ctx, PlayerIDFederer)
	if err != nil {
		t.Fatalf("list by player: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("unexpected match count: %d", len(matches))
	}
}

func TestRankingRepositoryLatestEloBefore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewRankingRepository()

	entries := []ranking.Entry{
		{PlayerID: PlayerIDFederer, Year: 2014, Week: 52, Elo: 2540},
		{PlayerID: PlayerIDFederer, Year: 2015, Week: 2, Elo: 2550},
		{PlayerID: PlayerIDFederer, Year: 2015, Week: 5, Elo: 2560},
	}
	for _, e := range entries {
		if err := repo.Upsert(ctx, e); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	elo, ok, err := repo.LatestEloBefore(ctx, PlayerIDFederer, 2015, 5)
	if err != nil || !ok {
		t.Fatalf("latest elo: ok=%v err=%v", ok, err)
	}
	if elo != 2550 {
		t.Fatalf("elo = %d, want 2550", elo)
	}

	elo, ok, err = repo.LatestEloBefore(ctx, PlayerIDFederer, 2015, 1)
	if err != nil || !ok {
		t.Fatalf("latest elo across year boundary: ok=%v err=%v", ok, err)
	}
	if elo != 2540 {
		t.Fatalf("elo = %d, want 2540", elo)
	}

	if _, ok, _ = repo.LatestEloBefore(ctx, PlayerIDNadal, 2015, 5); ok {
		t.Fatal("player without history must report not found")
	}
}

func TestRankingRepositoryUpdateEloMissingRow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewRankingRepository()

	if err := repo.UpdateElo(ctx, PlayerIDFederer, 2014, 52, 2510); err != nil {
		t.Fatalf("update of a missing row must be a no-op: %v", err)
	}
	if _, ok, _ := repo.Get(ctx, PlayerIDFederer, 2014, 52); ok {
		t.Fatal("update must not create rows")
	}
}

func TestRankingRepositorySetRank(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewRankingRepository()

	entry := ranking.Entry{PlayerID: PlayerIDFederer, Year: 2015, Week: 28, CalendarPoints: 4000, RollingPoints: 9000}
	if err := repo.Upsert(ctx, entry); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.SetRank(ctx, PlayerIDFederer, 2015, 28, ranking.ScopeRolling, 2); err != nil {
		t.Fatalf("set rank: %v", err)
	}

	got, ok, err := repo.Get(ctx, PlayerIDFederer, 2015, 28)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.RollingRank != 2 || got.CalendarRank != 0 {
		t.Fatalf("unexpected ranks: %+v", got)
	}
}
