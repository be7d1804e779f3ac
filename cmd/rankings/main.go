package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/openera/rankings/internal/app"
	"github.com/openera/rankings/internal/config"
	"github.com/openera/rankings/internal/domain/match"
	"github.com/openera/rankings/internal/domain/ranking"
	"github.com/openera/rankings/internal/platform/logging"
	"github.com/openera/rankings/internal/usecase"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if strings.EqualFold(strings.TrimSpace(os.Args[1]), "demo") {
		if err := runDemo(ctx, cfg, logger); err != nil {
			logger.ErrorContext(ctx, "demo failed", "error", err)
			os.Exit(1)
		}
		return
	}

	engine, err := app.NewWithDB(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := engine.Close(); err != nil {
			logger.Warn("close app", "error", err)
		}
	}()

	if err := run(ctx, engine, cfg, os.Args[1], os.Args[2:]); err != nil {
		logger.ErrorContext(ctx, "command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, engine *app.App, cfg config.Config, command string, args []string) error {
	switch strings.ToLower(strings.TrimSpace(command)) {
	case "stats":
		year, err := parseYear(args)
		if err != nil {
			return err
		}
		return engine.Stats.ComputeYearEditionStatistics(ctx, year, cfg.StatsWorkers)
	case "ranking":
		year, err := parseYear(args)
		if err != nil {
			return err
		}
		return engine.Ranking.ComputeYear(ctx, int(year))
	case "top":
		date, scope, limit, err := parseTopArgs(args)
		if err != nil {
			return err
		}
		entries, err := engine.Ranking.RankingAtDate(ctx, date, scope, limit)
		if err != nil {
			return err
		}
		printEntries(entries, scope)
		return nil
	case "elo-top":
		date, _, limit, err := parseTopArgs(args)
		if err != nil {
			return err
		}
		entries, err := engine.Ranking.EloRankingAtDate(ctx, date, limit)
		if err != nil {
			return err
		}
		for i, e := range entries {
			fmt.Printf("%3d. player %d  elo %d\n", i+1, e.PlayerID, e.Elo)
		}
		return nil
	case "streak":
		return runStreak(ctx, engine, args)
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// runDemo replays a small 2015 week on the bundled seed data and
// prints the resulting rolling ranking. No database required.
func runDemo(ctx context.Context, cfg config.Config, logger *logging.Logger) error {
	engine := app.NewFromSeed(logger)

	type result struct {
		id        uint64
		editionID uint32
		num       uint16
		round     match.Round
		winner    uint64
		loser     uint64
	}
	halle, wimbledon := uint32(501), uint32(500)
	results := []result{
		{1, halle, 1, match.RoundSemifinal, 101, 102},
		{2, halle, 2, match.RoundFinal, 101, 104},
		{3, wimbledon, 1, match.RoundSemifinal, 103, 104},
		{4, wimbledon, 2, match.RoundSemifinal, 101, 102},
		{5, wimbledon, 3, match.RoundFinal, 103, 101},
	}

	engine.Loader.Begin()
	for _, res := range results {
		m, err := match.New(res.id, res.editionID, res.num, res.round, 5, nil,
			false, false, false,
			match.Side{PlayerID: res.winner}, match.Side{PlayerID: res.loser})
		if err != nil {
			return err
		}
		if err := engine.Loader.Add(ctx, m); err != nil {
			return err
		}
	}
	if err := engine.Loader.Finish(ctx); err != nil {
		return err
	}

	if err := engine.Stats.ComputeYearEditionStatistics(ctx, 2015, cfg.StatsWorkers); err != nil {
		return err
	}
	if err := engine.Ranking.ComputeYear(ctx, 2015); err != nil {
		return err
	}

	date := time.Date(2015, time.July, 13, 0, 0, 0, 0, time.UTC)
	entries, err := engine.Ranking.RankingAtDate(ctx, date, ranking.ScopeRolling, 10)
	if err != nil {
		return err
	}
	fmt.Printf("rolling ranking on %s:\n", date.Format("2006-01-02"))
	printEntries(entries, ranking.ScopeRolling)
	return nil
}

func runStreak(ctx context.Context, engine *app.App, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("streak requires a player id")
	}
	playerID, err := strconv.ParseUint(strings.TrimSpace(args[0]), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid player id %q: %w", args[0], err)
	}

	kind := usecase.StreakWin
	label := "win"
	if len(args) > 1 && strings.EqualFold(strings.TrimSpace(args[1]), "loss") {
		kind = usecase.StreakLoss
		label = "loss"
	}

	result, err := engine.Streaks.MaxRun(ctx, playerID, kind)
	if err != nil {
		return err
	}
	fmt.Printf("player %d longest %s run: %d (from %s)\n",
		playerID, label, result.Length, result.BeginDate.Format("2006-01-02"))
	return nil
}

func parseYear(args []string) (uint16, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("a year argument is required")
	}
	year, err := strconv.ParseUint(strings.TrimSpace(args[0]), 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid year %q: %w", args[0], err)
	}
	return uint16(year), nil
}

func parseTopArgs(args []string) (time.Time, ranking.Scope, int, error) {
	if len(args) < 1 {
		return time.Time{}, ranking.ScopeRolling, 0, fmt.Errorf("a date argument is required (YYYY-MM-DD)")
	}
	date, err := time.Parse("2006-01-02", strings.TrimSpace(args[0]))
	if err != nil {
		return time.Time{}, ranking.ScopeRolling, 0, fmt.Errorf("invalid date %q: %w", args[0], err)
	}

	scope := ranking.ScopeRolling
	limit := 100
	for _, arg := range args[1:] {
		arg = strings.TrimSpace(arg)
		switch strings.ToLower(arg) {
		case "calendar":
			scope = ranking.ScopeCalendar
		case "rolling":
			scope = ranking.ScopeRolling
		default:
			n, err := strconv.Atoi(arg)
			if err != nil {
				return time.Time{}, scope, 0, fmt.Errorf("invalid argument %q", arg)
			}
			limit = n
		}
	}
	return date, scope, limit, nil
}

func printEntries(entries []ranking.Entry, scope ranking.Scope) {
	for i, e := range entries {
		fmt.Printf("%3d. player %d  %d pts  (%d tournaments)\n",
			i+1, e.PlayerID, e.Points(scope), len(e.Tournaments(scope)))
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: rankings <command> [args]

commands:
  demo                         run the pipeline on the bundled sample data
  stats <year>                 compute per-edition statistics for a season
  ranking <year>               run the weekly points and elo sweep for a season
  top <date> [scope] [limit]   print the points ranking at a date (scope: rolling|calendar)
  elo-top <date> [limit]       print the elo ranking at a date
  streak <player-id> [win|loss]  print a player's longest run`)
}
