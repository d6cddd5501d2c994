package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vancomm/minesweeper-leaderboard/internal/mines"
	"github.com/vancomm/minesweeper-leaderboard/internal/session"
)

type command struct {
	name       string
	row, col   int
	difficulty mines.Difficulty
}

// Maps known commands to the accepted number of arguments
var commandNargs = map[string][2]int{
	"o": {2, 2},
	"f": {2, 2},
	"n": {0, 1},
	"h": {0, 0},
	"q": {0, 0},
}

const helpText = `o ROW COL   reveal a cell
f ROW COL   flag or unflag a cell
n [LEVEL]   new game (easy, medium, hard)
h           this help
q           quit
`

var (
	errUnknownCommand = errors.New("unknown command, h for help")
	errLayoutLevel    = errors.New("a custom layout is loaded, use n without a level")
)

func parseRowCol(args []string) (row int, col int, err error) {
	if row, err = strconv.Atoi(args[0]); err != nil {
		err = errors.New("row must be an int")
		return
	}
	if col, err = strconv.Atoi(args[1]); err != nil {
		err = errors.New("column must be an int")
		return
	}
	return
}

func parseCommand(line string) (c command, err error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return c, errUnknownCommand
	}
	c.name = strings.ToLower(parts[0])
	nargs, ok := commandNargs[c.name]
	if !ok {
		return c, errUnknownCommand
	}
	args := parts[1:]
	if len(args) < nargs[0] || len(args) > nargs[1] {
		return c, errors.New("invalid number of arguments")
	}

	switch c.name {
	case "o", "f":
		c.row, c.col, err = parseRowCol(args)
	case "n":
		if len(args) == 1 {
			c.difficulty, err = mines.ParseDifficulty(args[0])
		}
	}
	return c, err
}

// executeCommand applies c to the session. A non-empty layout is the
// difficulty of a loaded custom layout; new games then keep that layout and
// may not change level.
func executeCommand(s *session.Session, c command, layout mines.Difficulty) error {
	switch c.name {
	case "o":
		_, err := s.Reveal(c.row, c.col)
		return err
	case "f":
		_, err := s.ToggleFlag(c.row, c.col)
		return err
	case "n":
		d := c.difficulty
		if layout != "" {
			if d != "" && d != layout {
				return errLayoutLevel
			}
			d = layout
		}
		if d == "" {
			v, err := s.View()
			if err != nil {
				return err
			}
			d = v.Difficulty
		}
		return s.NewGame(d)
	}
	return nil
}

func render(w io.Writer, v session.View) {
	fmt.Fprintf(w, "%s  %ds  flags %d", v.Difficulty, v.Elapsed, v.FlagsRemaining)
	switch v.Status {
	case mines.Won:
		fmt.Fprintf(w, "  you won in %ds!", v.Elapsed)
	case mines.Lost:
		fmt.Fprint(w, "  boom, game over")
	}
	fmt.Fprint(w, "\n   ")
	for col := range v.Cols {
		fmt.Fprintf(w, "%3d", col)
	}
	fmt.Fprintln(w)
	for row := range v.Rows {
		fmt.Fprintf(w, "%3d", row)
		for col := range v.Cols {
			fmt.Fprintf(w, "%3s", v.Grid[row*v.Cols+col])
		}
		fmt.Fprintln(w)
	}
}

// playLoop reads commands from in until q or end of input, rendering the
// board after each one.
func playLoop(s *session.Session, layout mines.Difficulty, in io.Reader, out io.Writer) error {
	v, err := s.View()
	if err != nil {
		return err
	}
	render(out, v)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		c, err := parseCommand(line)
		if err != nil {
			fmt.Fprintf(out, "error: %s\n", err)
			continue
		}
		switch c.name {
		case "q":
			return nil
		case "h":
			fmt.Fprint(out, helpText)
			continue
		}

		if err := executeCommand(s, c, layout); err != nil {
			fmt.Fprintf(out, "error: %s\n", err)
			continue
		}
		if v, err = s.View(); err != nil {
			return err
		}
		render(out, v)
	}
}
