package session

import (
	"context"

	"github.com/vancomm/minesweeper-leaderboard/internal/mines"
)

// Recorder persists game lifecycle events somewhere outside the session.
// Failures never affect the game in progress.
type Recorder interface {
	StartGame(ctx context.Context, difficulty mines.Difficulty) (gameID string, err error)
	ReportOutcome(ctx context.Context, gameID string, status mines.Status, elapsedSeconds int) error
}

// Nop records nothing.
type Nop struct{}

func (Nop) StartGame(context.Context, mines.Difficulty) (string, error) {
	return "", nil
}

func (Nop) ReportOutcome(context.Context, string, mines.Status, int) error {
	return nil
}
