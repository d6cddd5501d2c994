package repository

import (
	"context"
	"time"
)

type Player struct {
	PlayerId     int64     `db:"player_id"`
	Username     string    `db:"username"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type CreatePlayerParams struct {
	Username     string
	PasswordHash []byte
}

func (q *Queries) CreatePlayer(ctx context.Context, params CreatePlayerParams) (*Player, error) {
	rows, err := q.db.Query(
		ctx,
		"INSERT INTO player (username, password_hash) VALUES ($1, $2) RETURNING *",
		params.Username,
		params.PasswordHash,
	)
	return collectOne[Player](rows, err)
}

func (q *Queries) FetchPlayer(ctx context.Context, username string) (*Player, error) {
	rows, err := q.db.Query(
		ctx, "SELECT * FROM player WHERE username = $1", username,
	)
	return collectOne[Player](rows, err)
}
