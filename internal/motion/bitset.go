package motion

// MaxEffectTargets caps the eye blink and lip sync parameter lists of a
// CurveMotion. Ids past the cap are logged and ignored.
const MaxEffectTargets = 64

type bitset uint64

func (b *bitset) set(i int) {
	if i < 0 || i >= MaxEffectTargets {
		return
	}
	*b |= 1 << uint(i)
}

func (b bitset) has(i int) bool {
	if i < 0 || i >= MaxEffectTargets {
		return false
	}
	return b&(1<<uint(i)) != 0
}
