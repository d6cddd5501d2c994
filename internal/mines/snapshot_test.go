package mines

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRestoresLayout(t *testing.T) {
	b, err := GenerateFor(Medium, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	b.Reveal(b.Mines()[0])

	data, err := b.Snapshot(Medium).Marshal()
	require.NoError(t, err)

	s, err := LoadSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, Medium, s.Difficulty)

	restored, err := s.Board()
	require.NoError(t, err)
	assert.Equal(t, b.Rows(), restored.Rows())
	assert.Equal(t, b.Cols(), restored.Cols())
	assert.Equal(t, b.Mines(), restored.Mines())
	assert.Empty(t, revealedSet(restored))
}

func TestLoadSnapshot(t *testing.T) {
	s, err := LoadSnapshot([]byte("difficulty: easy\nlayout: |\n  *..\n  ...\n"))
	require.NoError(t, err)

	b, err := s.Board()
	require.NoError(t, err)
	assert.Equal(t, 2, b.Rows())
	assert.Equal(t, 3, b.Cols())
	assert.Equal(t, []Point{{0, 0}}, b.Mines())
}

func TestLoadSnapshotErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown difficulty", "difficulty: insane\nlayout: \"..\""},
		{"ragged rows", "layout: |\n  ...\n  ..\n"},
		{"bad character", "layout: |\n  .x.\n"},
		{"empty", "layout: \"\""},
		{"only mines", "layout: \"**\""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s, err := LoadSnapshot([]byte(test.data))
			if err == nil {
				_, err = s.Board()
			}
			assert.Error(t, err)
		})
	}
}

func TestDifficultyPresets(t *testing.T) {
	tests := []struct {
		difficulty Difficulty
		want       Preset
	}{
		{Easy, Preset{8, 8, 10}},
		{Medium, Preset{16, 16, 40}},
		{Hard, Preset{16, 30, 99}},
	}
	for _, test := range tests {
		p, err := test.difficulty.Preset()
		require.NoError(t, err)
		assert.Equal(t, test.want, p)
	}

	_, err := Difficulty("expert").Preset()
	assert.ErrorIs(t, err, ErrUnknownDifficulty)
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty(" Hard ")
	require.NoError(t, err)
	assert.Equal(t, Hard, d)

	_, err = ParseDifficulty("")
	assert.ErrorIs(t, err, ErrUnknownDifficulty)

	var u Difficulty
	assert.NoError(t, u.UnmarshalText([]byte("medium")))
	assert.Equal(t, Medium, u)
}

func TestParseStatus(t *testing.T) {
	for _, s := range []Status{InProgress, Won, Lost} {
		parsed, err := ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	_, err := ParseStatus("abandoned")
	assert.ErrorIs(t, err, ErrUnknownStatus)

	assert.False(t, InProgress.Terminal())
	assert.True(t, Won.Terminal())
	assert.True(t, Lost.Terminal())
}
