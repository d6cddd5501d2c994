package mines

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	snapshotMine = '*'
	snapshotSafe = '.'
)

// Snapshot is a portable description of a mine layout. Layout holds one line
// per row, '*' for a mine and '.' for a safe cell.
type Snapshot struct {
	Difficulty Difficulty `yaml:"difficulty,omitempty"`
	Layout     string     `yaml:"layout"`
}

func (b *Board) Snapshot(d Difficulty) *Snapshot {
	var sb strings.Builder
	for row := range b.rows {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := range b.cols {
			if b.cells[row*b.cols+col].Mine {
				sb.WriteByte(snapshotMine)
			} else {
				sb.WriteByte(snapshotSafe)
			}
		}
	}
	return &Snapshot{Difficulty: d, Layout: sb.String()}
}

func (s *Snapshot) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

func LoadSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
	}
	return &s, nil
}

// Board rebuilds a fresh board (nothing revealed or flagged) from the layout.
func (s *Snapshot) Board() (*Board, error) {
	lines := strings.Split(strings.TrimSpace(s.Layout), "\n")
	rows := len(lines)
	cols := len(strings.TrimSpace(lines[0]))
	if cols == 0 {
		return nil, fmt.Errorf("%w: empty layout", ErrMalformedSnapshot)
	}

	var mines []Point
	for row, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) != cols {
			return nil, fmt.Errorf(
				"%w: row %d has %d cells, want %d",
				ErrMalformedSnapshot, row, len(line), cols,
			)
		}
		for col, c := range line {
			switch c {
			case snapshotMine:
				mines = append(mines, Point{row, col})
			case snapshotSafe:
			default:
				return nil, fmt.Errorf(
					"%w: unexpected %q at %d:%d", ErrMalformedSnapshot, c, row, col,
				)
			}
		}
	}

	return NewBoardFromMines(rows, cols, mines)
}
