package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-leaderboard/internal/config"
	"github.com/vancomm/minesweeper-leaderboard/internal/mines"
	"github.com/vancomm/minesweeper-leaderboard/internal/repository"
)

type LeaderboardDTO struct {
	Leaderboard []repository.LeaderboardEntry `json:"leaderboard"`
}

// Leaderboard serves the best times of a tier and pushes fresh copies to
// websocket subscribers whenever the tier changes.
type Leaderboard struct {
	log   logrus.FieldLogger
	repo  LeaderboardRepository
	ws    *config.WebSocket
	limit int

	mu   sync.Mutex
	subs map[mines.Difficulty]map[chan LeaderboardDTO]struct{}
}

func NewLeaderboard(
	log logrus.FieldLogger,
	repo LeaderboardRepository,
	ws *config.WebSocket,
	limit int,
) *Leaderboard {
	return &Leaderboard{
		log:   log,
		repo:  repo,
		ws:    ws,
		limit: limit,
		subs:  make(map[mines.Difficulty]map[chan LeaderboardDTO]struct{}),
	}
}

func (h *Leaderboard) top(ctx context.Context, d mines.Difficulty) (LeaderboardDTO, error) {
	entries, err := h.repo.TopTimes(ctx, d, h.limit)
	if err != nil {
		return LeaderboardDTO{}, err
	}
	if entries == nil {
		entries = []repository.LeaderboardEntry{}
	}
	return LeaderboardDTO{Leaderboard: entries}, nil
}

func (h *Leaderboard) difficulty(w http.ResponseWriter, r *http.Request) (mines.Difficulty, bool) {
	d, err := mines.ParseDifficulty(mux.Vars(r)["difficulty"])
	if err != nil {
		sendErrorOrLog(w, h.log, http.StatusBadRequest, ErrBadDifficulty)
		return "", false
	}
	return d, true
}

func (h *Leaderboard) Get(w http.ResponseWriter, r *http.Request) {
	d, ok := h.difficulty(w, r)
	if !ok {
		return
	}

	dto, err := h.top(r.Context(), d)
	if err != nil {
		internalError(w, h.log.WithField("difficulty", d), err, "unable to fetch leaderboard")
		return
	}

	sendJSONOrLog(w, h.log, http.StatusOK, dto)
}

func (h *Leaderboard) subscribe(d mines.Difficulty) chan LeaderboardDTO {
	ch := make(chan LeaderboardDTO, 1)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[d] == nil {
		h.subs[d] = make(map[chan LeaderboardDTO]struct{})
	}
	h.subs[d][ch] = struct{}{}
	return ch
}

func (h *Leaderboard) unsubscribe(d mines.Difficulty, ch chan LeaderboardDTO) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[d], ch)
}

func (h *Leaderboard) Subscribers(d mines.Difficulty) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[d])
}

// Notify refetches the tier and hands it to every subscriber. Slow
// subscribers only ever see the latest copy.
func (h *Leaderboard) Notify(ctx context.Context, d mines.Difficulty) {
	if h.Subscribers(d) == 0 {
		return
	}

	dto, err := h.top(ctx, d)
	if err != nil {
		h.log.WithError(err).WithField("difficulty", d).Warn("unable to refresh live leaderboard")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[d] {
		select {
		case <-ch:
		default:
		}
		ch <- dto
	}
}

func (h *Leaderboard) Live(w http.ResponseWriter, r *http.Request) {
	d, ok := h.difficulty(w, r)
	if !ok {
		return
	}
	log := h.log.WithField("difficulty", d)

	initial, err := h.top(r.Context(), d)
	if err != nil {
		internalError(w, log, err, "unable to fetch leaderboard")
		return
	}

	conn, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ch := h.subscribe(d)
	defer h.unsubscribe(d, ch)

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.WithError(err).Debug("websocket read")
				}
				return
			}
		}
	}()

	write := func(dto LeaderboardDTO) bool {
		conn.SetWriteDeadline(time.Now().Add(h.ws.WriteWait))
		if err := conn.WriteJSON(dto); err != nil {
			log.WithError(err).Debug("websocket write")
			return false
		}
		return true
	}

	if !write(initial) {
		return
	}

	ping := time.NewTicker(h.ws.PingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case dto := <-ch:
			if !write(dto) {
				return
			}
		case <-ping.C:
			deadline := time.Now().Add(h.ws.WriteWait)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}
