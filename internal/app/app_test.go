package app

import (
	"crypto/rand"
	"crypto/rsa"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-leaderboard/internal/config"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	log, _ := test.NewNullLogger()

	a := New(
		log,
		&config.App{Addr: ":0", LeaderboardSize: 10},
		nil,
		config.NewJWTFromKeys(key, &key.PublicKey, time.Hour),
		&config.Cookies{Domain: "localhost"},
		&config.WebSocket{PingPeriod: time.Minute, WriteWait: time.Second},
	)
	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestRoutes(t *testing.T) {
	srv := setupServer(t)

	tests := []struct {
		method   string
		path     string
		wantCode int
	}{
		{http.MethodGet, "/status", http.StatusOK},
		{http.MethodPost, "/api/games", http.StatusUnauthorized},
		{http.MethodPut, "/api/games/4f7c0a52-1f0e-4a8e-9d0a-3f0c2b7e9a11", http.StatusUnauthorized},
		{http.MethodGet, "/api/games", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/leaderboard/expert", http.StatusBadRequest},
		{http.MethodPost, "/api/users/register", http.StatusBadRequest},
		{http.MethodGet, "/api/users/status", http.StatusOK},
		{http.MethodGet, "/api/nothing", http.StatusNotFound},
	}
	for _, test := range tests {
		t.Run(test.method+" "+test.path, func(t *testing.T) {
			req, err := http.NewRequest(test.method, srv.URL+test.path, nil)
			require.NoError(t, err)
			res, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer res.Body.Close()
			io.Copy(io.Discard, res.Body)
			assert.Equal(t, test.wantCode, res.StatusCode)
		})
	}
}
