package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-leaderboard/internal/mines"
)

const testToken = "header.payload.signature"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func authorized(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer "+testToken
}

// stubBackend mimics the leaderboard API closely enough for the client.
func stubBackend(t *testing.T, outcomes *[]map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/users/login", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.Form.Get("username") != "alice" || r.Form.Get("password") != "hunter2" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"token": testToken,
			"user":  map[string]any{"id": 1, "username": "alice"},
		})
	})
	mux.HandleFunc("POST /api/users/register", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "username taken"})
	})
	mux.HandleFunc("POST /api/games", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			return
		}
		r.ParseForm()
		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "game created",
			"game": map[string]any{
				"id":         "7b0e4f4c-6a8e-4c59-9a0f-0d4d1e7c2a10",
				"difficulty": r.Form.Get("difficulty"),
				"status":     "in_progress",
			},
		})
	})
	mux.HandleFunc("PUT /api/games/{id}", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		*outcomes = append(*outcomes, map[string]string{
			"id":         r.PathValue("id"),
			"status":     r.Form.Get("status"),
			"time_taken": r.Form.Get("time_taken"),
		})
		writeJSON(w, http.StatusOK, map[string]any{"message": "game updated"})
	})
	mux.HandleFunc("GET /api/leaderboard/{difficulty}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"leaderboard": []map[string]any{
				{"id": 3, "difficulty": r.PathValue("difficulty"), "best_time": 31, "user": map[string]string{"username": "bob"}},
			},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientRecordsGame(t *testing.T) {
	var outcomes []map[string]string
	srv := stubBackend(t, &outcomes)
	c := New(srv.URL + "/")
	ctx := context.Background()

	_, err := c.StartGame(ctx, mines.Easy)
	assert.ErrorIs(t, err, ErrUnauthorized)

	user, err := c.Login(ctx, "alice", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, &User{Id: 1, Username: "alice"}, user)
	assert.Equal(t, testToken, c.Token())

	id, err := c.StartGame(ctx, mines.Medium)
	require.NoError(t, err)
	assert.Equal(t, "7b0e4f4c-6a8e-4c59-9a0f-0d4d1e7c2a10", id)

	require.NoError(t, c.ReportOutcome(ctx, id, mines.Won, 57))
	assert.Equal(t, []map[string]string{{"id": id, "status": "won", "time_taken": "57"}}, outcomes)
}

func TestClientErrors(t *testing.T) {
	srv := stubBackend(t, new([]map[string]string))
	c := New(srv.URL)
	ctx := context.Background()

	_, err := c.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid credentials", apiErr.Message)
	assert.Empty(t, c.Token())

	_, err = c.Register(ctx, "alice", "x")
	assert.ErrorIs(t, err, ErrConflict)

	c = New(srv.URL, WithToken("stale"))
	_, err = c.StartGame(ctx, mines.Easy)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestClientLeaderboard(t *testing.T) {
	srv := stubBackend(t, new([]map[string]string))
	entries, err := New(srv.URL).Leaderboard(context.Background(), mines.Hard)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, mines.Hard, entries[0].Difficulty)
	assert.Equal(t, 31, entries[0].BestTime)
	assert.Equal(t, "bob", entries[0].User.Username)
}

func TestClientErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        string
	}{
		{"json error", "application/json", `{"error":"bad difficulty"}`, "bad difficulty"},
		{"json message", "application/json", `{"message":"maintenance"}`, "maintenance"},
		{"plain text", "text/plain", "upstream timed out\n", "upstream timed out"},
		{"empty", "text/plain", "", http.StatusText(http.StatusBadGateway)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", test.contentType)
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte(test.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL).Leaderboard(context.Background(), mines.Easy)
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
			assert.Equal(t, test.want, apiErr.Message)
		})
	}
}
