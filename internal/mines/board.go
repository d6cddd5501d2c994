package mines

import (
	"fmt"
	"math/rand/v2"
)

// Cell is one square of a [Board]. Adjacent is fixed once the board is built
// and stays 0 on mines.
type Cell struct {
	Mine     bool
	Revealed bool
	Flagged  bool
	Adjacent int
}

// Board is a rows x cols field stored row-major. A board belongs to a single
// game and is mutated in place.
type Board struct {
	rows, cols int
	mineCount  int
	exploded   int
	cells      []Cell
}

func validateParams(rows, cols, mineCount int) error {
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("%w: %dx%d grid", ErrInvalidParams, rows, cols)
	}
	if mineCount < 0 || mineCount >= rows*cols {
		return fmt.Errorf(
			"%w: %d mines do not fit a %dx%d grid with a safe cell to spare",
			ErrInvalidParams, mineCount, rows, cols,
		)
	}
	return nil
}

func newBoard(rows, cols int) *Board {
	return &Board{
		rows:     rows,
		cols:     cols,
		exploded: -1,
		cells:    make([]Cell, rows*cols),
	}
}

// Generate places mineCount mines uniformly at random on a rows x cols board
// and computes the adjacency counts. mineCount must be less than the number
// of cells.
func Generate(rows, cols, mineCount int, r *rand.Rand) (*Board, error) {
	if err := validateParams(rows, cols, mineCount); err != nil {
		return nil, err
	}

	b := newBoard(rows, cols)

	/*
	 * Write down every cell index, then pick mineCount of them off
	 * the list, swapping the tail into each picked slot.
	 */
	candidates := make([]int, rows*cols)
	for i := range candidates {
		candidates[i] = i
	}
	k := len(candidates)
	for range mineCount {
		i := r.IntN(k)
		b.cells[candidates[i]].Mine = true
		k--
		candidates[i] = candidates[k]
	}
	b.mineCount = mineCount

	b.countAdjacent()
	return b, nil
}

// NewBoardFromMines builds a board with mines at exactly the given points.
// Duplicate points are counted once.
func NewBoardFromMines(rows, cols int, mines []Point) (*Board, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d grid", ErrInvalidParams, rows, cols)
	}
	b := newBoard(rows, cols)
	for _, p := range mines {
		if !b.ValidatePoint(p.Row, p.Col) {
			return nil, fmt.Errorf("%w: mine at %s", ErrOutOfBounds, p)
		}
		c := &b.cells[b.index(p)]
		if !c.Mine {
			c.Mine = true
			b.mineCount++
		}
	}
	if err := validateParams(rows, cols, b.mineCount); err != nil {
		return nil, err
	}
	b.countAdjacent()
	return b, nil
}

func (b *Board) countAdjacent() {
	for i := range b.cells {
		if b.cells[i].Mine {
			continue
		}
		n := 0
		for _, p := range Neighbors(i/b.cols, i%b.cols, b.rows, b.cols) {
			if b.cells[b.index(p)].Mine {
				n++
			}
		}
		b.cells[i].Adjacent = n
	}
}

func (b *Board) index(p Point) int {
	return p.Row*b.cols + p.Col
}

func (b *Board) Rows() int      { return b.rows }
func (b *Board) Cols() int      { return b.cols }
func (b *Board) MineCount() int { return b.mineCount }

func (b *Board) ValidatePoint(row, col int) bool {
	return 0 <= row && row < b.rows && 0 <= col && col < b.cols
}

// Cell returns a copy of the cell at p. p must be in bounds.
func (b *Board) Cell(p Point) Cell {
	return b.cells[b.index(p)]
}

// Mines lists mine positions in row-major order.
func (b *Board) Mines() []Point {
	ps := make([]Point, 0, b.mineCount)
	for i, c := range b.cells {
		if c.Mine {
			ps = append(ps, Point{i / b.cols, i % b.cols})
		}
	}
	return ps
}

func (b *Board) FlagCount() int {
	n := 0
	for _, c := range b.cells {
		if c.Flagged {
			n++
		}
	}
	return n
}

// Grid renders what a player is allowed to see.
func (b *Board) Grid() Grid {
	g := make(Grid, len(b.cells))
	for i, c := range b.cells {
		switch {
		case c.Flagged:
			g[i] = Flagged
		case !c.Revealed:
			g[i] = Unknown
		case c.Mine && i == b.exploded:
			g[i] = ExplodedMine
		case c.Mine:
			g[i] = RevealedMine
		default:
			g[i] = CellState(c.Adjacent)
		}
	}
	return g
}

func (b *Board) String() string {
	return b.Grid().ToString(b.cols)
}
