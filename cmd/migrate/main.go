package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/swipechef/backend/config"
	"github.com/swipechef/backend/internal/database"
	"github.com/swipechef/backend/internal/logging"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	list := flag.Bool("list", false, "List migration files and exit")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: "console"})
	dir := cfg.Database.MigrationsDir

	if *list {
		files, err := database.MigrationFiles(dir)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to read migrations directory")
		}
		for _, f := range files {
			fmt.Fprintln(os.Stdout, f)
		}
		return
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}

	if *rollback {
		name, err := database.RollbackLast(db, dir)
		if err != nil {
			logging.Fatal().Err(err).Msg("rollback failed")
		}
		logging.Info().Str("migration", name).Msg("rolled back migration")
		return
	}

	if err := database.RunMigrations(db, dir); err != nil {
		logging.Fatal().Err(err).Msg("migration failed")
	}
	logging.Info().Msg("all migrations applied")
}
