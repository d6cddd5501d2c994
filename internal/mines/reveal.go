package mines

import "github.com/gammazero/deque"

type RevealResult struct {
	// Revealed lists the cells opened by this reveal, in the order they were
	// opened.
	Revealed []Point
	HitMine  bool
	// Unflagged counts flags removed from cells the flood fill opened.
	Unflagged int
}

// Reveal opens the cell at p. Revealing a cell that is already open or
// flagged does nothing. A cell without neighbouring mines opens its whole
// zero region and the numbered cells bordering it.
func (b *Board) Reveal(p Point) RevealResult {
	i := b.index(p)
	c := &b.cells[i]
	if c.Revealed || c.Flagged {
		return RevealResult{}
	}

	if c.Mine {
		c.Revealed = true
		b.exploded = i
		return RevealResult{Revealed: []Point{p}, HitMine: true}
	}

	if c.Adjacent > 0 {
		c.Revealed = true
		return RevealResult{Revealed: []Point{p}}
	}

	return b.flood(p)
}

func (b *Board) flood(start Point) RevealResult {
	var (
		res     RevealResult
		queue   deque.Deque[Point]
		visited = make([]bool, len(b.cells))
	)

	visited[b.index(start)] = true
	queue.PushBack(start)

	for queue.Len() > 0 {
		p := queue.PopFront()
		c := &b.cells[b.index(p)]
		if c.Flagged {
			c.Flagged = false
			res.Unflagged++
		}
		c.Revealed = true
		res.Revealed = append(res.Revealed, p)

		if c.Adjacent != 0 {
			continue
		}
		for _, n := range Neighbors(p.Row, p.Col, b.rows, b.cols) {
			j := b.index(n)
			if visited[j] || b.cells[j].Revealed {
				continue
			}
			visited[j] = true
			queue.PushBack(n)
		}
	}

	return res
}

// AllSafeRevealed reports whether every non-mine cell is open. Flags are not
// taken into account.
func (b *Board) AllSafeRevealed() bool {
	for _, c := range b.cells {
		if !c.Mine && !c.Revealed {
			return false
		}
	}
	return true
}

// RevealMines opens every mine for the end-of-game display and returns the
// number of flags it had to remove. Non-mine cells are left alone.
func (b *Board) RevealMines() (unflagged int) {
	for i := range b.cells {
		c := &b.cells[i]
		if !c.Mine {
			continue
		}
		if c.Flagged {
			c.Flagged = false
			unflagged++
		}
		c.Revealed = true
	}
	return unflagged
}
