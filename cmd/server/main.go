package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-leaderboard/internal/app"
	"github.com/vancomm/minesweeper-leaderboard/internal/config"
	"github.com/vancomm/minesweeper-leaderboard/internal/logging"
)

func main() {
	log, err := logging.New(logging.Options{
		Development: config.Development(),
		File:        os.Getenv("LOG_FILE"),
	})
	if err != nil {
		logrus.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	a, closeDB, err := app.FromEnv(ctx, log)
	if err != nil {
		log.Fatal("unable to start: ", err)
	}
	defer closeDB()

	if config.Development() {
		a.BcryptCost = 4
	}

	if err := a.Serve(ctx); err != nil {
		log.Errorf("exit reason: %s", err)
	}
}
