package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/openera/rankings/internal/config"
	"github.com/openera/rankings/internal/domain/tournament"
	"github.com/openera/rankings/internal/infrastructure/repository/memory"
	"github.com/openera/rankings/internal/infrastructure/repository/postgres"
	"github.com/openera/rankings/internal/platform/logging"
	"github.com/openera/rankings/internal/usecase"
)

// App bundles the ranking engine services over one repository set.
type App struct {
	Stats   *usecase.StatsService
	Elo     *usecase.EloService
	Ranking *usecase.RankingService
	Streaks *usecase.StreakService
	Loader  *usecase.MatchLoader

	Tournaments tournament.Repository

	db *sqlx.DB
}

// NewFromSeed wires the engine over in-memory repositories loaded with
// the bundled 2015 sample data. Matches start empty.
func NewFromSeed(logger *logging.Logger) *App {
	playerRepo := memory.NewPlayerRepository(memory.SeedPlayers())
	tournamentRepo := memory.NewTournamentRepository(memory.SeedTournaments())
	editionRepo := memory.NewEditionRepository(memory.SeedEditions())
	matchRepo := memory.NewMatchRepository()
	rankingRepo := memory.NewRankingRepository()
	table := memory.SeedScale()

	stats := usecase.NewStatsService(playerRepo, editionRepo, matchRepo, table, logger)
	elo := usecase.NewEloService(matchRepo, rankingRepo, logger)

	return &App{
		Stats:       stats,
		Elo:         elo,
		Ranking:     usecase.NewRankingService(playerRepo, editionRepo, rankingRepo, stats, elo, logger),
		Streaks:     usecase.NewStreakService(matchRepo, editionRepo),
		Loader:      usecase.NewMatchLoader(playerRepo, editionRepo, matchRepo, logger),
		Tournaments: tournamentRepo,
	}
}

// NewWithDB wires the engine over postgres repositories. The points
// scale is loaded once at startup; sweeps treat it as immutable.
func NewWithDB(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DBURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	table, err := postgres.NewScaleRepository(db).Load(ctx)
	if err != nil {
		closeErr := db.Close()
		if closeErr != nil {
			logger.Warn("close database", "error", closeErr)
		}
		return nil, fmt.Errorf("load points scale: %w", err)
	}

	playerRepo := postgres.NewPlayerRepository(db)
	editionRepo := postgres.NewEditionRepository(db)
	matchRepo := postgres.NewMatchRepository(db)
	rankingRepo := postgres.NewRankingRepository(db)

	stats := usecase.NewStatsService(playerRepo, editionRepo, matchRepo, table, logger)
	elo := usecase.NewEloService(matchRepo, rankingRepo, logger)

	return &App{
		Stats:       stats,
		Elo:         elo,
		Ranking:     usecase.NewRankingService(playerRepo, editionRepo, rankingRepo, stats, elo, logger),
		Streaks:     usecase.NewStreakService(matchRepo, editionRepo),
		Loader:      usecase.NewMatchLoader(playerRepo, editionRepo, matchRepo, logger),
		Tournaments: postgres.NewTournamentRepository(db),
		db:          db,
	}, nil
}

// Close releases the database handle when the app was built with
// NewWithDB.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
