// Command jogrctl is the operations CLI for the JogR backend: run
// migrations, inspect league rankings, and manage admin API keys.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/jogr-app/jogr-backend/config"
	"github.com/jogr-app/jogr-backend/internal/application/query"
	"github.com/jogr-app/jogr-backend/internal/infrastructure/persistence/postgres"
	"github.com/jogr-app/jogr-backend/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "jogrctl",
		Usage: "Operations CLI for the JogR backend",
		Commands: []*cli.Command{
			migrateCmd(),
			rankingCmd(),
			hashKeyCmd(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATE
// ══════════════════════════════════════════════════════════════════════════════

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending database migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "PostgreSQL connection string (defaults to DATABASE_URL)",
				EnvVars: []string{"DATABASE_URL"},
			},
		},
		Action: func(c *cli.Context) error {
			ctx := c.Context

			conn, err := connect(ctx, c.String("database-url"))
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := postgres.NewMigrator(conn).Migrate(ctx); err != nil {
				return err
			}

			color.Green("migrations applied")
			return nil
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// RANKING
// ══════════════════════════════════════════════════════════════════════════════

func rankingCmd() *cli.Command {
	return &cli.Command{
		Name:      "ranking",
		Usage:     "Compute and print a league's current ranking",
		ArgsUsage: "<league-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "period",
				Value: "general",
				Usage: "Scoring period: general or weekly",
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "PostgreSQL connection string (defaults to DATABASE_URL)",
				EnvVars: []string{"DATABASE_URL"},
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one league ID argument")
			}
			leagueID := c.Args().First()
			ctx := c.Context

			conn, err := connect(ctx, c.String("database-url"))
			if err != nil {
				return err
			}
			defer conn.Close()

			log := quietLogger()
			handler := query.NewGetLeagueRankingHandler(
				postgres.NewActivityRepository(conn, log),
				postgres.NewUserRepository(conn, log),
				nil,
				log,
			)

			result, err := handler.Handle(ctx, query.GetLeagueRankingQuery{
				LeagueID: leagueID,
				Period:   c.String("period"),
			})
			if err != nil {
				return err
			}

			printRanking(result)
			return nil
		},
	}
}

// printRanking renders the leaderboard, podium positions highlighted.
func printRanking(result *query.GetLeagueRankingResult) {
	bold := color.New(color.Bold)
	bold.Printf("League %s  (%s)\n\n", result.LeagueID, result.Period)

	if len(result.Ranking) == 0 {
		color.Yellow("no scored activities in this period")
		return
	}

	podium := []*color.Color{
		color.New(color.FgYellow, color.Bold),
		color.New(color.FgWhite, color.Bold),
		color.New(color.FgRed),
	}

	for i, entry := range result.Ranking {
		line := fmt.Sprintf("%3d. %-24s %4d pts", i+1, entry.Nickname, entry.Points)
		if i < len(podium) {
			podium[i].Println(line)
		} else {
			fmt.Println(line)
		}
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// HASH-KEY
// ══════════════════════════════════════════════════════════════════════════════

func hashKeyCmd() *cli.Command {
	return &cli.Command{
		Name:      "hash-key",
		Usage:     "Hash an admin API key for ADMIN_API_KEY_HASHES",
		ArgsUsage: "<key>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one key argument")
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(c.Args().First()), bcrypt.DefaultCost)
			if err != nil {
				return err
			}

			fmt.Println(string(hash))
			return nil
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// connect opens a PostgreSQL connection, falling back to the full config
// loader when no URL is given.
func connect(ctx context.Context, url string) (*postgres.Connection, error) {
	if url == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		url = cfg.Database.URL
	}
	if url == "" {
		return nil, fmt.Errorf("no database URL configured")
	}

	pgCfg := postgres.DefaultConfig()
	pgCfg.URL = url

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	return postgres.NewConnection(ctx, pgCfg)
}

// quietLogger keeps handler logging out of CLI output.
func quietLogger() *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Level = logger.LevelError
	opts.Output = os.Stderr
	return logger.New(opts)
}
