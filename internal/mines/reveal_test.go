package mines

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func revealedSet(b *Board) map[Point]bool {
	set := make(map[Point]bool)
	for i, c := range b.cells {
		if c.Revealed {
			set[Point{i / b.cols, i % b.cols}] = true
		}
	}
	return set
}

// closure computes the zero region around p plus its numbered border by
// plain recursion.
func closure(b *Board, p Point, seen map[Point]bool) {
	if seen[p] {
		return
	}
	seen[p] = true
	if b.Cell(p).Adjacent != 0 {
		return
	}
	for _, n := range Neighbors(p.Row, p.Col, b.rows, b.cols) {
		closure(b, n, seen)
	}
}

func TestRevealNumberedCell(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	b, err := Generate(8, 8, 10, r)
	require.NoError(t, err)

	var target *Point
	for i, c := range b.cells {
		if !c.Mine && c.Adjacent > 0 {
			target = &Point{i / b.cols, i % b.cols}
			break
		}
	}
	require.NotNil(t, target)

	res := b.Reveal(*target)
	assert.False(t, res.HitMine)
	assert.Equal(t, []Point{*target}, res.Revealed)
	assert.Len(t, revealedSet(b), 1)
}

func TestRevealEmptyBoardOpensEverything(t *testing.T) {
	b, err := Generate(8, 8, 0, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)

	res := b.Reveal(Point{3, 5})
	assert.False(t, res.HitMine)
	assert.Len(t, res.Revealed, 64)
	assert.True(t, b.AllSafeRevealed())
}

func TestFloodFillClosure(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(1, 2))
	checked := 0
	for range 200 {
		b, err := Generate(16, 30, 60, r)
		require.NoError(t, err)

		var start *Point
		for i, c := range b.cells {
			if !c.Mine && c.Adjacent == 0 {
				start = &Point{i / b.cols, i % b.cols}
				break
			}
		}
		if start == nil {
			continue
		}
		checked++

		want := make(map[Point]bool)
		closure(b, *start, want)

		res := b.Reveal(*start)
		assert.False(t, res.HitMine)
		assert.Len(t, res.Revealed, len(want))
		assert.Equal(t, want, revealedSet(b))
		for p := range want {
			assert.False(t, b.Cell(p).Mine, "flood opened a mine at %s", p)
		}
	}
	assert.NotZero(t, checked)
}

func TestFloodFillStopsAtOpenCells(t *testing.T) {
	// . . . * .
	// . . . . .
	b, err := NewBoardFromMines(2, 5, []Point{{0, 3}})
	require.NoError(t, err)

	b.Reveal(Point{1, 4})
	require.True(t, b.Cell(Point{1, 4}).Revealed)
	require.False(t, b.Cell(Point{0, 4}).Revealed)

	res := b.Reveal(Point{0, 0})
	for _, p := range res.Revealed {
		assert.NotEqual(t, Point{1, 4}, p)
	}
	assert.False(t, b.AllSafeRevealed())
	assert.False(t, b.Cell(Point{0, 4}).Revealed)
}

func TestRevealIsIdempotent(t *testing.T) {
	b, err := NewBoardFromMines(3, 3, []Point{{0, 0}})
	require.NoError(t, err)

	b.Reveal(Point{0, 1})
	before := append([]Cell(nil), b.cells...)

	res := b.Reveal(Point{0, 1})
	assert.Empty(t, res.Revealed)
	assert.Equal(t, before, b.cells)

	remaining, changed := b.ToggleFlag(Point{0, 1}, 1)
	assert.False(t, changed)
	assert.Equal(t, 1, remaining)
	assert.Equal(t, before, b.cells)
}

func TestRevealFlaggedCellIsNoop(t *testing.T) {
	b, err := NewBoardFromMines(3, 3, []Point{{0, 0}})
	require.NoError(t, err)

	_, changed := b.ToggleFlag(Point{0, 0}, 1)
	require.True(t, changed)

	res := b.Reveal(Point{0, 0})
	assert.False(t, res.HitMine)
	assert.False(t, b.Cell(Point{0, 0}).Revealed)
}

func TestFloodClearsFlags(t *testing.T) {
	b, err := NewBoardFromMines(3, 3, []Point{{2, 2}})
	require.NoError(t, err)

	remaining, _ := b.ToggleFlag(Point{0, 1}, 1)
	require.Zero(t, remaining)

	res := b.Reveal(Point{0, 0})
	assert.Equal(t, 1, res.Unflagged)
	assert.Len(t, res.Revealed, 8)
	c := b.Cell(Point{0, 1})
	assert.True(t, c.Revealed)
	assert.False(t, c.Flagged)
	assert.True(t, b.AllSafeRevealed())
}

func TestRevealMine(t *testing.T) {
	b, err := NewBoardFromMines(3, 3, []Point{{0, 0}, {2, 2}})
	require.NoError(t, err)

	b.Reveal(Point{0, 2})
	b.ToggleFlag(Point{2, 2}, 2)
	safeBefore := revealedSet(b)

	res := b.Reveal(Point{0, 0})
	require.True(t, res.HitMine)
	assert.Equal(t, []Point{{0, 0}}, res.Revealed)
	assert.Equal(t, ExplodedMine, b.Grid()[0])

	unflagged := b.RevealMines()
	assert.Equal(t, 1, unflagged)
	for _, p := range b.Mines() {
		c := b.Cell(p)
		assert.True(t, c.Revealed)
		assert.False(t, c.Flagged)
	}
	for i, c := range b.cells {
		p := Point{i / b.cols, i % b.cols}
		if !c.Mine {
			assert.Equal(t, safeBefore[p], c.Revealed, "safe cell %s changed", p)
		}
	}
	assert.Equal(t, RevealedMine, b.Grid()[8])
}

func TestWinIgnoresFlags(t *testing.T) {
	b, err := NewBoardFromMines(2, 2, []Point{{0, 0}})
	require.NoError(t, err)

	b.Reveal(Point{0, 1})
	b.Reveal(Point{1, 0})
	assert.False(t, b.AllSafeRevealed())
	b.Reveal(Point{1, 1})
	assert.True(t, b.AllSafeRevealed())
	assert.False(t, b.Cell(Point{0, 0}).Flagged)
}

func TestToggleFlagBudget(t *testing.T) {
	b, err := NewBoardFromMines(3, 3, []Point{{0, 0}, {1, 1}})
	require.NoError(t, err)

	remaining := b.MineCount()
	r := rand.New(rand.NewPCG(1, 2))
	for range 500 {
		p := Point{r.IntN(3), r.IntN(3)}
		if r.IntN(5) == 0 {
			res := b.Reveal(p)
			remaining += res.Unflagged
			if res.HitMine {
				remaining += b.RevealMines()
				break
			}
		} else {
			remaining, _ = b.ToggleFlag(p, remaining)
		}
		require.GreaterOrEqual(t, remaining, 0)
		require.Equal(t, b.MineCount(), remaining+b.FlagCount())
	}
	assert.Equal(t, b.MineCount(), remaining+b.FlagCount())
}

func TestToggleFlagWithoutBudget(t *testing.T) {
	b, err := NewBoardFromMines(3, 3, []Point{{0, 0}})
	require.NoError(t, err)

	remaining, changed := b.ToggleFlag(Point{2, 2}, 0)
	assert.False(t, changed)
	assert.Zero(t, remaining)
	assert.False(t, b.Cell(Point{2, 2}).Flagged)

	remaining, changed = b.ToggleFlag(Point{2, 2}, 1)
	assert.True(t, changed)
	assert.Zero(t, remaining)

	remaining, changed = b.ToggleFlag(Point{2, 2}, remaining)
	assert.True(t, changed)
	assert.Equal(t, 1, remaining)
}
