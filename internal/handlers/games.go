package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-leaderboard/internal/middleware"
	"github.com/vancomm/minesweeper-leaderboard/internal/mines"
	"github.com/vancomm/minesweeper-leaderboard/internal/repository"
)

var (
	ErrBadDifficulty = errors.New("difficulty must be one of easy, medium, hard")
	ErrBadOutcome    = errors.New("status must be won or lost and time_taken a non-negative number of seconds")
	ErrGameNotFound  = errors.New("game not found")
	ErrGameFinished  = errors.New("game already finished")
)

// TierNotifier is told when a tier's best times changed.
type TierNotifier interface {
	Notify(ctx context.Context, d mines.Difficulty)
}

type Games struct {
	log    logrus.FieldLogger
	repo   GameRepository
	notify TierNotifier
}

func NewGames(log logrus.FieldLogger, repo GameRepository, notify TierNotifier) *Games {
	return &Games{log: log, repo: repo, notify: notify}
}

func (h Games) Create(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.PlayerClaims(r.Context())

	var dto CreateGameDTO
	if err := decodeBody(w, r, &dto); err != nil {
		sendErrorOrLog(w, h.log, http.StatusBadRequest, ErrBadDifficulty)
		return
	}

	game, err := h.repo.CreateGame(r.Context(), claims.PlayerId, dto.Difficulty)
	if err != nil {
		internalError(w, h.log, err, "unable to create game")
		return
	}

	h.log.WithFields(logrus.Fields{
		"game_id":    game.GameId,
		"player_id":  claims.PlayerId,
		"difficulty": game.Difficulty,
	}).Debug("game created")

	sendJSONOrLog(w, h.log, http.StatusCreated, message("game created", map[string]any{
		"game": game,
	}))
}

func (h Games) Update(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.PlayerClaims(r.Context())

	gameId, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		sendErrorOrLog(w, h.log, http.StatusNotFound, ErrGameNotFound)
		return
	}

	var dto UpdateGameDTO
	if err := decodeBody(w, r, &dto); err != nil {
		sendErrorOrLog(w, h.log, http.StatusBadRequest, ErrBadOutcome)
		return
	}
	seconds, _ := dto.Seconds()

	log := h.log.WithFields(logrus.Fields{
		"game_id":   gameId,
		"player_id": claims.PlayerId,
	})

	game, err := h.repo.FetchGame(r.Context(), gameId)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && game.PlayerId != claims.PlayerId) {
		sendErrorOrLog(w, h.log, http.StatusNotFound, ErrGameNotFound)
		return
	}
	if err != nil {
		internalError(w, log, err, "unable to fetch game")
		return
	}
	if game.Status.Terminal() {
		sendErrorOrLog(w, h.log, http.StatusConflict, ErrGameFinished)
		return
	}

	game, err = h.repo.FinishGame(r.Context(), repository.FinishGameParams{
		GameId:    gameId,
		PlayerId:  claims.PlayerId,
		Status:    dto.Status,
		TimeTaken: seconds,
	})
	if errors.Is(err, repository.ErrNotFound) {
		// finished concurrently
		sendErrorOrLog(w, h.log, http.StatusConflict, ErrGameFinished)
		return
	}
	if err != nil {
		internalError(w, log, err, "unable to finish game")
		return
	}

	if game.Status == mines.Won {
		improved, err := h.repo.SaveBestTime(r.Context(), claims.PlayerId, game.Difficulty, seconds)
		if err != nil {
			internalError(w, log, err, "unable to save best time")
			return
		}
		if improved {
			log.WithField("best_time", seconds).Info("new best time")
			if h.notify != nil {
				h.notify.Notify(r.Context(), game.Difficulty)
			}
		}
	}

	sendJSONOrLog(w, h.log, http.StatusOK, message("game updated", map[string]any{
		"game": game,
	}))
}
