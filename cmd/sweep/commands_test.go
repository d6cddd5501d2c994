package main

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-leaderboard/internal/mines"
	"github.com/vancomm/minesweeper-leaderboard/internal/session"
)

func TestParseCommand(t *testing.T) {
	t.Parallel()
	tests := []struct {
		line    string
		want    command
		wantErr bool
	}{
		{line: "o 1 2", want: command{name: "o", row: 1, col: 2}},
		{line: "  F 0 7 ", want: command{name: "f", row: 0, col: 7}},
		{line: "n", want: command{name: "n"}},
		{line: "n Hard", want: command{name: "n", difficulty: mines.Hard}},
		{line: "q", want: command{name: "q"}},
		{line: "", wantErr: true},
		{line: "x 1 1", wantErr: true},
		{line: "o 1", wantErr: true},
		{line: "o a 1", wantErr: true},
		{line: "o 1 b", wantErr: true},
		{line: "n expert", wantErr: true},
		{line: "q now", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseCommand(tt.line)
		if tt.wantErr {
			assert.Error(t, err, tt.line)
			continue
		}
		require.NoError(t, err, tt.line)
		assert.Equal(t, tt.want, got, tt.line)
	}
}

func newTestSession(t *testing.T, rows, cols int, ms ...mines.Point) *session.Session {
	t.Helper()
	log, _ := test.NewNullLogger()
	s := session.New(session.Nop{}, log,
		session.WithTickInterval(0),
		session.WithBoardSource(func(mines.Difficulty, *rand.Rand) (*mines.Board, error) {
			return mines.NewBoardFromMines(rows, cols, ms)
		}),
	)
	t.Cleanup(s.Close)
	require.NoError(t, s.NewGame(mines.Easy))
	return s
}

func TestPlayLoopWin(t *testing.T) {
	t.Parallel()
	s := newTestSession(t, 2, 2, mines.Point{Row: 0, Col: 0})

	var out strings.Builder
	in := strings.NewReader("f 0 0\no 1 1\nbogus\no 5 5\no 0 1\no 1 0\nq\no 0 0\n")
	require.NoError(t, playLoop(s, "", in, &out))

	assert.Contains(t, out.String(), "error: unknown command")
	assert.Contains(t, out.String(), "error: "+mines.ErrOutOfBounds.Error())
	assert.Contains(t, out.String(), "you won in 0s!")

	v, err := s.View()
	require.NoError(t, err)
	assert.Equal(t, mines.Won, v.Status)
	assert.Equal(t, 0, v.FlagsRemaining)
}

func TestPlayLoopLossAndRestart(t *testing.T) {
	t.Parallel()
	s := newTestSession(t, 2, 2, mines.Point{Row: 1, Col: 1})

	var out strings.Builder
	require.NoError(t, playLoop(s, "", strings.NewReader("o 1 1\n"), &out))
	assert.Contains(t, out.String(), "boom, game over")

	v, err := s.View()
	require.NoError(t, err)
	assert.Equal(t, mines.Lost, v.Status)
	assert.Equal(t, mines.ExplodedMine, v.Grid[3])

	require.NoError(t, executeCommand(s, command{name: "n"}, ""))
	v, err = s.View()
	require.NoError(t, err)
	assert.Equal(t, mines.InProgress, v.Status)
	assert.Equal(t, mines.Easy, v.Difficulty)
}

func TestRender(t *testing.T) {
	t.Parallel()
	var out strings.Builder
	render(&out, session.View{
		Difficulty:     mines.Easy,
		Status:         mines.InProgress,
		Rows:           2,
		Cols:           2,
		Grid:           mines.Grid{mines.Unknown, mines.Flagged, 1, 0},
		Elapsed:        3,
		FlagsRemaining: 0,
	})
	assert.Equal(t, "easy  3s  flags 0\n     0  1\n  0  #  F\n  1  1  .\n", out.String())
}

func TestCustomLayoutKeepsLevel(t *testing.T) {
	t.Parallel()
	s := newTestSession(t, 2, 2, mines.Point{Row: 1, Col: 1})

	var out strings.Builder
	in := strings.NewReader("o 0 0\nn hard\nn easy\nn\n")
	require.NoError(t, playLoop(s, mines.Easy, in, &out))
	assert.Contains(t, out.String(), "error: "+errLayoutLevel.Error())

	v, err := s.View()
	require.NoError(t, err)
	assert.Equal(t, mines.Easy, v.Difficulty)
	assert.Equal(t, mines.Unknown, v.Grid[0])

	assert.ErrorIs(t, executeCommand(s, command{name: "n", difficulty: mines.Medium}, mines.Easy), errLayoutLevel)
	require.NoError(t, executeCommand(s, command{name: "n", difficulty: mines.Hard}, ""))
	v, err = s.View()
	require.NoError(t, err)
	assert.Equal(t, mines.Hard, v.Difficulty)
}
