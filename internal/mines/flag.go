package mines

// ToggleFlag flips the flag on a hidden cell and returns the updated flag
// budget. Flags can only be placed while flagsRemaining is positive; open
// cells never take a flag. changed is false when the toggle was rejected.
func (b *Board) ToggleFlag(p Point, flagsRemaining int) (remaining int, changed bool) {
	c := &b.cells[b.index(p)]
	switch {
	case c.Revealed:
		return flagsRemaining, false
	case c.Flagged:
		c.Flagged = false
		return flagsRemaining + 1, true
	case flagsRemaining > 0:
		c.Flagged = true
		return flagsRemaining - 1, true
	default:
		return flagsRemaining, false
	}
}
