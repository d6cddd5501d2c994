package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-leaderboard/internal/config"
	"github.com/vancomm/minesweeper-leaderboard/internal/mines"
	"github.com/vancomm/minesweeper-leaderboard/internal/repository"
)

func repoPlayer(name string) repository.CreatePlayerParams {
	return repository.CreatePlayerParams{Username: name, PasswordHash: []byte("x")}
}

func decodeBody(res *http.Response, v any) error {
	return json.NewDecoder(res.Body).Decode(v)
}

func setupLeaderboard(t *testing.T, repo *memRepo) (*Leaderboard, *httptest.Server) {
	t.Helper()
	log, _ := test.NewNullLogger()
	ws := &config.WebSocket{PingPeriod: time.Minute, WriteWait: time.Second}
	ws.Upgrader.CheckOrigin = func(*http.Request) bool { return true }

	lb := NewLeaderboard(log, repo, ws, 2)
	router := mux.NewRouter()
	router.HandleFunc("/leaderboard/{difficulty}", lb.Get).Methods(http.MethodGet)
	router.HandleFunc("/leaderboard/{difficulty}/live", lb.Live)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return lb, srv
}

func seedTimes(repo *memRepo, d mines.Difficulty, times map[string]int) {
	for name, seconds := range times {
		p, _ := repo.CreatePlayer(context.Background(), repoPlayer(name))
		repo.SaveBestTime(context.Background(), p.PlayerId, d, seconds)
	}
}

func TestLeaderboardGet(t *testing.T) {
	repo := newMemRepo()
	seedTimes(repo, mines.Easy, map[string]int{"alice": 30, "bob": 12, "carol": 45})
	_, srv := setupLeaderboard(t, repo)

	res, err := http.Get(srv.URL + "/leaderboard/easy")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var dto LeaderboardDTO
	require.NoError(t, decodeBody(res, &dto))
	require.Len(t, dto.Leaderboard, 2)
	assert.Equal(t, "bob", dto.Leaderboard[0].User.Username)
	assert.Equal(t, 12, dto.Leaderboard[0].BestTime)
	assert.Equal(t, "alice", dto.Leaderboard[1].User.Username)

	res, err = http.Get(srv.URL + "/leaderboard/hard")
	require.NoError(t, err)
	defer res.Body.Close()
	var empty map[string][]any
	require.NoError(t, decodeBody(res, &empty))
	assert.NotNil(t, empty["leaderboard"])
	assert.Empty(t, empty["leaderboard"])

	res, err = http.Get(srv.URL + "/leaderboard/impossible")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestLeaderboardLive(t *testing.T) {
	repo := newMemRepo()
	seedTimes(repo, mines.Medium, map[string]int{"alice": 100})
	lb, srv := setupLeaderboard(t, repo)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/leaderboard/medium/live"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var dto LeaderboardDTO
	require.NoError(t, conn.ReadJSON(&dto))
	require.Len(t, dto.Leaderboard, 1)

	require.Eventually(t, func() bool {
		return lb.Subscribers(mines.Medium) == 1
	}, time.Second, 5*time.Millisecond)

	seedTimes(repo, mines.Medium, map[string]int{"bob": 80})
	lb.Notify(context.Background(), mines.Easy)
	lb.Notify(context.Background(), mines.Medium)

	require.NoError(t, conn.ReadJSON(&dto))
	require.Len(t, dto.Leaderboard, 2)
	assert.Equal(t, "bob", dto.Leaderboard[0].User.Username)

	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	assert.Eventually(t, func() bool {
		return lb.Subscribers(mines.Medium) == 0
	}, time.Second, 5*time.Millisecond)
}
