package duphash

// Matrix is a pairwise overlap grid over the observed identities, in
// (producer, strategy) order. Its size depends only on how many identities
// reported hashes, never on how large their ids are.
//
// Cell [i][j] holds Duplicates/Union for the pair (Identities[i],
// Identities[j]); the diagonal and pairs that never co-occurred hold 0.
type Matrix struct {
	Identities []Identity
	Labels     []string
	Values     [][]float64

	index map[Identity]int
}

// Index returns the row/column of id, or -1 if id is not in the grid.
func (m *Matrix) Index(id Identity) int {
	if i, ok := m.index[id]; ok {
		return i
	}
	return -1
}

// At returns the identity stored at index i.
func (m *Matrix) At(i int) Identity {
	return m.Identities[i]
}

// Size returns the number of rows (and columns).
func (m *Matrix) Size() int {
	return len(m.Values)
}

// Matrix builds the overlap grid for r.
func (r *Result) Matrix() *Matrix {
	ids := r.Identities()
	n := len(ids)

	m := &Matrix{
		Identities: ids,
		Labels:     make([]string, n),
		Values:     make([][]float64, n),
		index:      make(map[Identity]int, n),
	}
	for i, id := range ids {
		m.index[id] = i
		m.Labels[i] = id.String()
		m.Values[i] = make([]float64, n)
	}

	for p := range r.PairCount {
		i, j := m.Index(p.First), m.Index(p.Second)
		if i < 0 || j < 0 {
			continue
		}
		m.Values[i][j] = r.Ratio(p.First, p.Second)
	}

	return m
}
