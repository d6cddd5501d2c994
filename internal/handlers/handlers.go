package handlers

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/schema"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-leaderboard/internal/mines"
	"github.com/vancomm/minesweeper-leaderboard/internal/repository"
)

type PlayerRepository interface {
	CreatePlayer(ctx context.Context, params repository.CreatePlayerParams) (*repository.Player, error)
	FetchPlayer(ctx context.Context, username string) (*repository.Player, error)
}

type GameRepository interface {
	CreateGame(ctx context.Context, playerId int64, d mines.Difficulty) (*repository.Game, error)
	FetchGame(ctx context.Context, gameId uuid.UUID) (*repository.Game, error)
	FinishGame(ctx context.Context, params repository.FinishGameParams) (*repository.Game, error)
	SaveBestTime(ctx context.Context, playerId int64, d mines.Difficulty, timeTaken int) (bool, error)
}

type LeaderboardRepository interface {
	TopTimes(ctx context.Context, d mines.Difficulty, limit int) ([]repository.LeaderboardEntry, error)
}

var decoder = func() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}()

const maxBodyBytes = 1 << 16

// validator reports missing or malformed fields after decoding.
type validator interface {
	Validate() error
}

// decodeBody fills dst from a JSON body or, for any other content type, from
// url-encoded form values.
func decodeBody(w http.ResponseWriter, r *http.Request, dst validator) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err := dec.Decode(dst); err != nil {
			return err
		}
		return dst.Validate()
	}

	if err := r.ParseForm(); err != nil {
		return err
	}
	if err := decoder.Decode(dst, r.Form); err != nil {
		return err
	}
	return dst.Validate()
}

func SendJSON(w http.ResponseWriter, status int, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(payload)
	return err
}

func sendJSONOrLog(w http.ResponseWriter, log logrus.FieldLogger, status int, v any) {
	if err := SendJSON(w, status, v); err != nil {
		log.WithError(err).WithField("response", v).Error("unable to send response")
	}
}

func sendErrorOrLog(w http.ResponseWriter, log logrus.FieldLogger, status int, err error) {
	sendJSONOrLog(w, log, status, wrapError(err))
}

func internalError(w http.ResponseWriter, log logrus.FieldLogger, err error, msg string) {
	log.WithError(err).Error(msg)
	sendJSONOrLog(w, log, http.StatusInternalServerError, map[string]string{
		"error": "server error",
	})
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}

func message(m string, fields map[string]any) map[string]any {
	body := map[string]any{"message": m}
	for k, v := range fields {
		body[k] = v
	}
	return body
}
