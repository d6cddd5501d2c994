package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vancomm/minesweeper-leaderboard/internal/mines"
)

type LeaderboardUser struct {
	Username string `json:"username"`
}

type LeaderboardEntry struct {
	Id         int64            `db:"leaderboard_id" json:"id"`
	Difficulty mines.Difficulty `db:"difficulty" json:"difficulty"`
	BestTime   int              `db:"best_time" json:"best_time"`
	Username   string           `db:"username" json:"-"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
	User       LeaderboardUser  `db:"-" json:"user"`
}

// SaveBestTime records timeTaken as the player's best for the tier unless an
// equal or better time is already stored. It reports whether the stored time
// changed.
func (q *Queries) SaveBestTime(
	ctx context.Context, playerId int64, d mines.Difficulty, timeTaken int,
) (improved bool, err error) {
	var id int64
	err = q.db.QueryRow(
		ctx,
		`INSERT INTO leaderboard (player_id, difficulty, best_time)
		VALUES (@player_id, @difficulty, @best_time)
		ON CONFLICT (player_id, difficulty) DO UPDATE
			SET best_time = excluded.best_time, updated_at = now()
			WHERE leaderboard.best_time > excluded.best_time
		RETURNING leaderboard_id`,
		pgx.NamedArgs{
			"player_id":  playerId,
			"difficulty": string(d),
			"best_time":  timeTaken,
		},
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (q *Queries) TopTimes(ctx context.Context, d mines.Difficulty, limit int) ([]LeaderboardEntry, error) {
	rows, err := q.db.Query(
		ctx,
		`SELECT leaderboard_id, difficulty, best_time, username, leaderboard.updated_at
		FROM leaderboard
			JOIN player USING (player_id)
		WHERE difficulty = $1
		ORDER BY best_time, leaderboard.updated_at
		LIMIT $2`,
		string(d), limit,
	)
	if err != nil {
		return nil, err
	}
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[LeaderboardEntry])
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].User.Username = entries[i].Username
	}
	return entries, nil
}
