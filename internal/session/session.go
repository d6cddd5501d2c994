package session

import (
	"context"
	"errors"
	"hash/maphash"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-leaderboard/internal/mines"
)

var ErrNoGame = errors.New("no game started")

// BoardSource produces the board for a new game.
type BoardSource func(d mines.Difficulty, r *rand.Rand) (*mines.Board, error)

type startState int

const (
	startPending startState = iota
	startDone
	startFailed
)

// Session plays one game at a time. Starting a new game replaces the board,
// the timer and the recorder state of the previous one.
type Session struct {
	mu sync.Mutex

	log           logrus.FieldLogger
	recorder      Recorder
	rnd           *rand.Rand
	source        BoardSource
	tickInterval  time.Duration
	recordTimeout time.Duration
	inflight      sync.WaitGroup

	generation     uint64
	board          *mines.Board
	difficulty     mines.Difficulty
	status         mines.Status
	elapsed        int
	flagsRemaining int
	gameID         string
	start          startState
	reported       bool
	stopTimer      context.CancelFunc
}

type Option func(*Session)

func WithRand(r *rand.Rand) Option {
	return func(s *Session) { s.rnd = r }
}

func WithBoardSource(src BoardSource) Option {
	return func(s *Session) { s.source = src }
}

// WithTickInterval sets how often the elapsed counter advances. A
// non-positive interval disables the background timer; [Session.Tick] still
// works.
func WithTickInterval(d time.Duration) Option {
	return func(s *Session) { s.tickInterval = d }
}

func WithRecordTimeout(d time.Duration) Option {
	return func(s *Session) { s.recordTimeout = d }
}

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func New(recorder Recorder, log logrus.FieldLogger, opts ...Option) *Session {
	if recorder == nil {
		recorder = Nop{}
	}
	s := &Session{
		log:           log,
		recorder:      recorder,
		source:        mines.GenerateFor,
		tickInterval:  time.Second,
		recordTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rnd == nil {
		s.rnd = createRand()
	}
	return s
}

// NewGame discards whatever game is in progress and starts a fresh one.
func (s *Session) NewGame(d mines.Difficulty) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	board, err := s.source(d, s.rnd)
	if err != nil {
		return err
	}

	s.stopTimerLocked()
	s.generation++
	s.board = board
	s.difficulty = d
	s.status = mines.InProgress
	s.elapsed = 0
	s.flagsRemaining = board.MineCount()
	s.gameID = ""
	s.start = startPending
	s.reported = false

	gen := s.generation
	s.startTimerLocked(gen)

	s.log.WithFields(logrus.Fields{
		"difficulty": d,
		"rows":       board.Rows(),
		"cols":       board.Cols(),
		"mines":      board.MineCount(),
	}).Debug("new game")

	s.inflight.Add(1)
	go s.recordStart(gen, d)

	return nil
}

// Reveal opens the cell at row:col. Actions on a finished game are ignored.
func (s *Session) Reveal(row, col int) (mines.RevealResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.board == nil {
		return mines.RevealResult{}, ErrNoGame
	}
	if !s.board.ValidatePoint(row, col) {
		return mines.RevealResult{}, mines.ErrOutOfBounds
	}
	if s.status.Terminal() {
		return mines.RevealResult{}, nil
	}

	res := s.board.Reveal(mines.Point{Row: row, Col: col})
	s.flagsRemaining += res.Unflagged

	switch {
	case res.HitMine:
		s.finishLocked(mines.Lost)
	case s.board.AllSafeRevealed():
		s.finishLocked(mines.Won)
	}

	return res, nil
}

// ToggleFlag flags or unflags the hidden cell at row:col. It returns false
// when nothing changed.
func (s *Session) ToggleFlag(row, col int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.board == nil {
		return false, ErrNoGame
	}
	if !s.board.ValidatePoint(row, col) {
		return false, mines.ErrOutOfBounds
	}
	if s.status.Terminal() {
		return false, nil
	}

	var changed bool
	s.flagsRemaining, changed = s.board.ToggleFlag(
		mines.Point{Row: row, Col: col}, s.flagsRemaining,
	)
	return changed, nil
}

// Tick advances the elapsed time of the current game by one second.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickLocked(s.generation)
}

func (s *Session) tickLocked(gen uint64) {
	if gen != s.generation || s.status != mines.InProgress {
		return
	}
	s.elapsed++
}

func (s *Session) startTimerLocked(gen uint64) {
	if s.tickInterval <= 0 {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.stopTimer = cancel
	ticker := time.NewTicker(s.tickInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.mu.Lock()
				s.tickLocked(gen)
				s.mu.Unlock()
			}
		}
	}()
}

func (s *Session) stopTimerLocked() {
	if s.stopTimer != nil {
		s.stopTimer()
		s.stopTimer = nil
	}
}

func (s *Session) finishLocked(status mines.Status) {
	s.status = status
	s.stopTimerLocked()
	if status == mines.Lost {
		s.flagsRemaining += s.board.RevealMines()
	}

	s.log.WithFields(logrus.Fields{
		"difficulty": s.difficulty,
		"status":     status,
		"elapsed":    s.elapsed,
	}).Info("game over")

	s.reportOutcomeLocked()
}

func (s *Session) callContext() (context.Context, context.CancelFunc) {
	if s.recordTimeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), s.recordTimeout)
}

func (s *Session) recordStart(gen uint64, d mines.Difficulty) {
	defer s.inflight.Done()

	ctx, cancel := s.callContext()
	defer cancel()

	id, err := s.recorder.StartGame(ctx, d)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.log.WithField("game_id", id).Debug("game replaced before its start was recorded")
		return
	}
	if err != nil {
		s.start = startFailed
		s.log.WithError(err).WithField("difficulty", d).Warn("unable to record game start")
		return
	}

	s.gameID = id
	s.start = startDone
	if s.status.Terminal() {
		s.reportOutcomeLocked()
	}
}

// reportOutcomeLocked sends the outcome once per game. If the game ended
// before its id arrived, recordStart calls back here.
func (s *Session) reportOutcomeLocked() {
	if s.reported || s.start == startPending {
		return
	}
	s.reported = true

	if s.gameID == "" {
		s.log.WithField("status", s.status).Debug("game has no id, outcome not recorded")
		return
	}

	id, status, elapsed := s.gameID, s.status, s.elapsed
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		ctx, cancel := s.callContext()
		defer cancel()

		err := s.recorder.ReportOutcome(ctx, id, status, elapsed)
		if err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"game_id": id,
				"status":  status,
				"elapsed": elapsed,
			}).Warn("unable to record game outcome")
		}
	}()
}

// Close stops the timer and waits for pending recorder calls.
func (s *Session) Close() {
	s.mu.Lock()
	s.stopTimerLocked()
	s.mu.Unlock()
	s.inflight.Wait()
}

// View is a copy of the session state safe to hand to a renderer.
type View struct {
	Difficulty     mines.Difficulty `json:"difficulty"`
	Status         mines.Status     `json:"status"`
	Rows           int              `json:"rows"`
	Cols           int              `json:"cols"`
	MineCount      int              `json:"mine_count"`
	Grid           mines.Grid       `json:"grid"`
	Elapsed        int              `json:"elapsed"`
	FlagsRemaining int              `json:"flags_remaining"`
	GameID         string           `json:"game_id,omitempty"`
}

func (s *Session) View() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.board == nil {
		return View{}, ErrNoGame
	}
	return View{
		Difficulty:     s.difficulty,
		Status:         s.status,
		Rows:           s.board.Rows(),
		Cols:           s.board.Cols(),
		MineCount:      s.board.MineCount(),
		Grid:           s.board.Grid(),
		Elapsed:        s.elapsed,
		FlagsRemaining: s.flagsRemaining,
		GameID:         s.gameID,
	}, nil
}

func (v View) String() string {
	return v.Grid.ToString(v.Cols)
}
