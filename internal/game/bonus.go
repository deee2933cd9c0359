package game

// BonusProgress tracks how many uses of each letter a player still needs
// before earning a bonus life. Index 0 is 'a', index 25 is 'z'.
type BonusProgress [26]int

// NewBonusProgress returns a progress vector initialized from the template.
func NewBonusProgress(template [26]int) BonusProgress {
	return BonusProgress(template)
}

// TryLetter decrements the counter for r if it is an ASCII letter with
// remaining quota. It reports whether the whole vector reached zero, in
// which case the vector is reset to the template. Awarding the life (and
// capping it against maxLives) is the caller's job; the progress vector
// stays a plain data type.
func (bp *BonusProgress) TryLetter(r rune, template [26]int) bool {
	idx := letterIndex(r)
	if idx < 0 {
		return false
	}
	if bp[idx] == 0 {
		return false
	}
	bp[idx]--
	if !bp.depleted() {
		return false
	}
	*bp = BonusProgress(template)
	return true
}

func (bp *BonusProgress) depleted() bool {
	for _, n := range bp {
		if n != 0 {
			return false
		}
	}
	return true
}

// Remaining returns the counters as a plain slice for view payloads.
func (bp BonusProgress) Remaining() []int {
	out := make([]int, 26)
	copy(out, bp[:])
	return out
}

func letterIndex(r rune) int {
	switch {
	case r >= 'a' && r <= 'z':
		return int(r - 'a')
	case r >= 'A' && r <= 'Z':
		return int(r - 'A')
	}
	return -1
}
