package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/openera/rankings/internal/domain/edition"
	"github.com/openera/rankings/internal/domain/match"
	"github.com/openera/rankings/internal/infrastructure/repository/memory"
	"github.com/openera/rankings/internal/platform/logging"
)

const (
	editionIDWimbledon2015 uint32 = 500
	editionIDHalle2015     uint32 = 501
	editionIDGstaad2015    uint32 = 502
	editionIDGstaad2014    uint32 = 498
)

// testRepos wires the services onto the in-memory fixture set plus a
// 2014 Gstaad edition for year-boundary scenarios.
type testRepos struct {
	players  *memory.PlayerRepository
	editions *memory.EditionRepository
	matches  *memory.MatchRepository
	rankings *memory.RankingRepository
	stats    *StatsService
	elo      *EloService
	ranking  *RankingService
}

func newTestRepos(t *testing.T) *testRepos {
	t.Helper()

	editions := memory.SeedEditions()
	for _, tr := range memory.SeedTournaments() {
		if tr.ID != memory.TournamentIDGstaad {
			continue
		}
		gstaad2014, err := edition.New(editionIDGstaad2014, tr, 2014, 28, day(2014, 7, 21), day(2014, 7, 27), false, edition.Snapshot{})
		if err != nil {
			t.Fatalf("build 2014 gstaad edition: %v", err)
		}
		editions = append(editions, gstaad2014)
	}

	r := &testRepos{
		players:  memory.NewPlayerRepository(memory.SeedPlayers()),
		editions: memory.NewEditionRepository(editions),
		matches:  memory.NewMatchRepository(),
		rankings: memory.NewRankingRepository(),
	}
	logger := logging.NewNop()
	r.stats = NewStatsService(r.players, r.editions, r.matches, memory.SeedScale(), logger)
	r.elo = NewEloService(r.matches, r.rankings, logger)
	r.ranking = NewRankingService(r.players, r.editions, r.rankings, r.stats, r.elo, logger)
	return r
}

func (r *testRepos) streaks() *StreakService {
	return NewStreakService(r.matches, r.editions)
}

func (r *testRepos) addMatch(t *testing.T, id uint64, editionID uint32, matchNum uint16, round match.Round, bestOf uint8, winnerID, loserID uint64) *match.Match {
	t.Helper()
	m, err := match.New(id, editionID, matchNum, round, bestOf, nil, false, false, false,
		match.Side{PlayerID: winnerID}, match.Side{PlayerID: loserID})
	if err != nil {
		t.Fatalf("build match %d: %v", id, err)
	}
	if err := r.matches.InsertUnchecked(context.Background(), m); err != nil {
		t.Fatalf("insert match %d: %v", id, err)
	}
	return m
}

func (r *testRepos) addWalkover(t *testing.T, id uint64, editionID uint32, matchNum uint16, round match.Round, winnerID, loserID uint64) *match.Match {
	t.Helper()
	m, err := match.New(id, editionID, matchNum, round, 3, nil, false, false, true,
		match.Side{PlayerID: winnerID}, match.Side{PlayerID: loserID})
	if err != nil {
		t.Fatalf("build walkover %d: %v", id, err)
	}
	if err := r.matches.InsertUnchecked(context.Background(), m); err != nil {
		t.Fatalf("insert walkover %d: %v", id, err)
	}
	return m
}

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func u8p(v uint8) *uint8    { return &v }
func u16p(v uint16) *uint16 { return &v }
func u32p(v uint32) *uint32 { return &v }
