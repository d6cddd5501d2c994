package config

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader   websocket.Upgrader
	PingPeriod time.Duration
	WriteWait  time.Duration
}

// NewWebSocket reads WS_ALLOWED_ORIGINS, a comma separated list of hosts
// allowed to open the live leaderboard feed. An empty list allows any origin.
func NewWebSocket() (*WebSocket, error) {
	var origins []string
	for _, o := range strings.Split(os.Getenv("WS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, strings.ToLower(o))
		}
	}

	ping := 30 * time.Second
	if s, ok := os.LookupEnv("WS_PING_PERIOD"); ok {
		var err error
		if ping, err = time.ParseDuration(s); err != nil || ping <= 0 {
			return nil, fmt.Errorf("invalid WS_PING_PERIOD %q", s)
		}
	}

	ws := &WebSocket{
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if len(origins) == 0 {
					return true
				}
				u, err := url.Parse(r.Header.Get("Origin"))
				if err != nil {
					return false
				}
				return slices.Contains(origins, strings.ToLower(u.Host))
			},
		},
		PingPeriod: ping,
		WriteWait:  10 * time.Second,
	}

	return ws, nil
}
