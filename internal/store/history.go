package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/vancomm/minesweeper-leaderboard/internal/mines"
)

func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to open %s: %w", path, err)
	}
	return db, nil
}

// History keeps finished and abandoned games on disk. It records games the
// same way the backend does, so it can stand in for it when playing offline.
type History struct {
	db *sql.DB
}

type Record struct {
	Id         string
	Difficulty mines.Difficulty
	Status     mines.Status
	TimeTaken  *int
	StartedAt  time.Time
	FinishedAt *time.Time
}

func NewHistory(db *sql.DB) (*History, error) {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS game (
	game_id     TEXT PRIMARY KEY,
	difficulty  TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'in_progress',
	time_taken  INTEGER,
	started_at  TIMESTAMP NOT NULL,
	finished_at TIMESTAMP
);
CREATE INDEX IF NOT EXISTS game_difficulty_idx ON game (difficulty, status);`)
	if err != nil {
		return nil, fmt.Errorf("unable to create history: %w", err)
	}
	return &History{db: db}, nil
}

func (h *History) StartGame(ctx context.Context, d mines.Difficulty) (string, error) {
	id := uuid.NewString()
	_, err := h.db.ExecContext(ctx,
		`INSERT INTO game (game_id, difficulty, started_at) VALUES (?, ?, ?);`,
		id, string(d), time.Now().UTC(),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

var ErrGameFinished = errors.New("game already finished")

func (h *History) ReportOutcome(ctx context.Context, id string, status mines.Status, elapsed int) error {
	if !status.Terminal() {
		return fmt.Errorf("cannot finish game with status %s", status)
	}
	res, err := h.db.ExecContext(ctx, `
UPDATE game SET status = ?, time_taken = ?, finished_at = ?
WHERE game_id = ? AND status = 'in_progress';`,
		string(status), elapsed, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if err := h.db.QueryRowContext(ctx, `SELECT 1 FROM game WHERE game_id = ?;`, id).Scan(new(int)); errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return ErrGameFinished
	}
	return nil
}

// Recent returns up to limit games, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := h.db.QueryContext(ctx, `
SELECT game_id, difficulty, status, time_taken, started_at, finished_at
FROM game ORDER BY started_at DESC LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var timeTaken sql.NullInt64
		var finishedAt sql.NullTime
		if err := rows.Scan(&r.Id, &r.Difficulty, &r.Status, &timeTaken, &r.StartedAt, &finishedAt); err != nil {
			return nil, err
		}
		if timeTaken.Valid {
			t := int(timeTaken.Int64)
			r.TimeTaken = &t
		}
		if finishedAt.Valid {
			r.FinishedAt = &finishedAt.Time
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// BestTimes maps every tier with at least one win to its lowest time.
func (h *History) BestTimes(ctx context.Context) (map[mines.Difficulty]int, error) {
	rows, err := h.db.QueryContext(ctx, `
SELECT difficulty, MIN(time_taken) FROM game
WHERE status = 'won' GROUP BY difficulty;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	best := make(map[mines.Difficulty]int)
	for rows.Next() {
		var d mines.Difficulty
		var t int
		if err := rows.Scan(&d, &t); err != nil {
			return nil, err
		}
		best[d] = t
	}
	return best, rows.Err()
}
