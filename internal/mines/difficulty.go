package mines

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

type Preset struct {
	Rows      int `json:"rows"`
	Cols      int `json:"cols"`
	MineCount int `json:"mine_count"`
}

var presets = map[Difficulty]Preset{
	Easy:   {Rows: 8, Cols: 8, MineCount: 10},
	Medium: {Rows: 16, Cols: 16, MineCount: 40},
	Hard:   {Rows: 16, Cols: 30, MineCount: 99},
}

func Difficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := presets[d]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
	return d, nil
}

// [Difficulty] implements [encoding.TextUnmarshaler]
func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Difficulty) Preset() (Preset, error) {
	p, ok := presets[d]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrUnknownDifficulty, string(d))
	}
	return p, nil
}

// GenerateFor builds a fresh board sized for the difficulty preset.
func GenerateFor(d Difficulty, r *rand.Rand) (*Board, error) {
	p, err := d.Preset()
	if err != nil {
		return nil, err
	}
	return Generate(p.Rows, p.Cols, p.MineCount, r)
}

type Status string

const (
	InProgress Status = "in_progress"
	Won        Status = "won"
	Lost       Status = "lost"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case InProgress, Won, Lost:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
}

// [Status] implements [encoding.TextUnmarshaler]
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s Status) Terminal() bool {
	return s == Won || s == Lost
}
