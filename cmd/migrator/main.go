package main

import (
	"errors"
	"flag"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-leaderboard/internal/config"
	"github.com/vancomm/minesweeper-leaderboard/internal/database"
	"github.com/vancomm/minesweeper-leaderboard/internal/logging"
)

func main() {
	down := flag.Bool("down", false, "roll back every migration")
	steps := flag.Int("steps", 0, "apply n migrations (negative rolls back)")
	flag.Parse()

	log, err := logging.New(logging.Options{Development: config.Development()})
	if err != nil {
		logrus.Fatal(err)
	}

	url, err := config.DbURL()
	if err != nil {
		log.Fatal("failed to read database config: ", err)
	}

	migrator, err := database.NewMigrator(url, database.Migrations)
	if err != nil {
		log.Fatal(err)
	}
	defer migrator.Close()

	switch {
	case *down:
		err = migrator.Down()
	case *steps != 0:
		err = migrator.Steps(*steps)
	default:
		err = migrator.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Error("migration failed: ", err)
		os.Exit(1)
	}

	version, dirty, err := migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		log.Info("database is empty")
		return
	}
	if err != nil {
		log.Error("failed to check migration version: ", err)
		os.Exit(1)
	}
	log.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("migration successful")
}
