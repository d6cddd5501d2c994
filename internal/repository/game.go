package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vancomm/minesweeper-leaderboard/internal/mines"
)

type Game struct {
	GameId     uuid.UUID        `db:"game_id" json:"id"`
	PlayerId   int64            `db:"player_id" json:"-"`
	Difficulty mines.Difficulty `db:"difficulty" json:"difficulty"`
	Status     mines.Status     `db:"status" json:"status"`
	TimeTaken  *int             `db:"time_taken" json:"time_taken"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
}

func (q *Queries) CreateGame(ctx context.Context, playerId int64, d mines.Difficulty) (*Game, error) {
	rows, err := q.db.Query(
		ctx,
		`INSERT INTO game (game_id, player_id, difficulty)
		VALUES (@game_id, @player_id, @difficulty)
		RETURNING *`,
		pgx.NamedArgs{
			"game_id":    uuid.New(),
			"player_id":  playerId,
			"difficulty": string(d),
		},
	)
	return collectOne[Game](rows, err)
}

func (q *Queries) FetchGame(ctx context.Context, gameId uuid.UUID) (*Game, error) {
	rows, err := q.db.Query(
		ctx, "SELECT * FROM game WHERE game_id = $1", gameId,
	)
	return collectOne[Game](rows, err)
}

type FinishGameParams struct {
	GameId    uuid.UUID
	PlayerId  int64
	Status    mines.Status
	TimeTaken int
}

// FinishGame moves an in-progress game owned by PlayerId to its terminal
// status. A game that is missing, foreign or already finished yields
// ErrNotFound.
func (q *Queries) FinishGame(ctx context.Context, params FinishGameParams) (*Game, error) {
	rows, err := q.db.Query(
		ctx,
		`UPDATE game
		SET status = @status, time_taken = @time_taken, updated_at = now()
		WHERE game_id = @game_id
			AND player_id = @player_id
			AND status = 'in_progress'
		RETURNING *`,
		pgx.NamedArgs{
			"game_id":    params.GameId,
			"player_id":  params.PlayerId,
			"status":     string(params.Status),
			"time_taken": params.TimeTaken,
		},
	)
	return collectOne[Game](rows, err)
}
