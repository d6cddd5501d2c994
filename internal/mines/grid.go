package mines

import (
	"fmt"
	"strconv"
	"strings"
)

type Point struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Col)
}

var offsets = [8]Point{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Neighbors returns the up to 8 cells surrounding row:col that lie inside a
// rows x cols grid. The order is row-major and stable.
func Neighbors(row, col, rows, cols int) []Point {
	ns := make([]Point, 0, len(offsets))
	for _, d := range offsets {
		r, c := row+d.Row, col+d.Col
		if 0 <= r && r < rows && 0 <= c && c < cols {
			ns = append(ns, Point{r, c})
		}
	}
	return ns
}

type CellState int8

const (
	Unknown      CellState = -2
	Flagged      CellState = -1
	RevealedMine CellState = 64
	ExplodedMine CellState = 65
	/*
	 * Each item of a [Grid] is one of the following values:
	 *
	 *  - 0 to 8 mean the square is open and has a surrounding mine
	 *    count.
	 *
	 *  - -1 means the square is flagged.
	 *
	 *  - -2 means the square is hidden.
	 *
	 *  - 64 means the square has had a mine revealed when the game
	 *    was lost.
	 *
	 *  - 65 means the square is the mine the player hit.
	 */
)

func (s CellState) String() string {
	switch {
	case s == Unknown:
		return "#"
	case s == Flagged:
		return "F"
	case s == 0:
		return "."
	case 0 < s && s <= 8:
		return strconv.Itoa(int(s))
	case s == ExplodedMine:
		return "X"
	default:
		return "*"
	}
}

// Grid is the player's view of a board, row-major.
type Grid []CellState

func (g Grid) ToString(cols int) string {
	var b strings.Builder
	for row := range len(g) / cols {
		for col := range cols {
			if col > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(g[row*cols+col].String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
