package mixture

// builder accumulates per-group mixtures and produces the Result once every
// group has been added.
type builder struct {
	groups   []GroupMixtures
	names    []string
	patterns []string
}

func newBuilder(n int) *builder {
	return &builder{groups: make([]GroupMixtures, 0, n)}
}

func (b *builder) add(gm GroupMixtures) {
	b.groups = append(b.groups, gm)
	b.names = append(b.names, gm.Names...)
	b.patterns = append(b.patterns, gm.Patterns...)
}

// total returns the product of the group sizes, false on overflow.
func (b *builder) total() (uint64, bool) {
	n := uint64(1)
	for _, g := range b.groups {
		var ok bool
		n, ok = mulCheck(n, uint64(len(g.Mixtures)))
		if !ok {
			return 0, false
		}
	}
	return n, true
}

func (b *builder) build() *Result {
	res := &Result{
		groups:   b.groups,
		names:    b.names,
		patterns: b.patterns,
	}

	if len(b.groups) == 1 {
		res.combinations = append([]Mixture(nil), b.groups[0].Mixtures...)
		return res
	}

	total, _ := b.total()
	res.combinations = make([]Mixture, 0, total)
	if total == 0 {
		return res
	}

	width := len(b.names)
	idx := make([]int, len(b.groups))
	for {
		flat := make(Mixture, 0, width)
		for gi, g := range b.groups {
			flat = append(flat, g.Mixtures[idx[gi]]...)
		}
		res.combinations = append(res.combinations, flat)

		// First group varies slowest.
		i := len(idx) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(b.groups[i].Mixtures) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			return res
		}
	}
}
