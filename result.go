package duphash

import (
	"maps"
	"slices"
)

// Result is the finalized output of one aggregation pass. It must be treated
// as read-only.
type Result struct {
	// UniqueCount maps each identity to the number of distinct hashes it reported.
	UniqueCount map[Identity]int
	// PairCount maps each ordered pair of distinct identities to the number
	// of hashes both reported. Pairs that never co-occur are absent.
	PairCount map[Pair]int

	Stats Stats
}

// Stats describes the input consumed by an aggregation pass.
type Stats struct {
	Records       int // records consumed
	Groups        int // contiguous hash groups
	RedundantRows int // repeated (hash, identity) rows inside a group
	Identities    int // distinct identities
	Pairs         int // ordered pairs with a non-zero duplicate count
}

// PairStat is one output row: an ordered pair with its duplicate and union counts.
type PairStat struct {
	Pair
	Duplicates int
	Union      int
}

// Duplicates returns the number of hashes both a and b reported.
func (r *Result) Duplicates(a, b Identity) int {
	return r.PairCount[Pair{First: a, Second: b}]
}

// Union returns the number of hashes reported by a or b. It is defined for
// pairs that never co-occurred as well.
func (r *Result) Union(a, b Identity) int {
	if a == b {
		return r.UniqueCount[a]
	}
	return r.UniqueCount[a] + r.UniqueCount[b] - r.Duplicates(a, b)
}

// Ratio returns Duplicates/Union for the pair, or 0 when the union is empty.
func (r *Result) Ratio(a, b Identity) float64 {
	union := r.Union(a, b)
	if union == 0 {
		return 0
	}
	return float64(r.Duplicates(a, b)) / float64(union)
}

// Identities returns every identity that reported at least one hash, sorted.
func (r *Result) Identities() []Identity {
	return slices.SortedFunc(maps.Keys(r.UniqueCount), CompareIdentity)
}

// Pairs returns one row per observed ordered pair, sorted by (First, Second).
func (r *Result) Pairs() []PairStat {
	keys := slices.SortedFunc(maps.Keys(r.PairCount), ComparePair)

	rows := make([]PairStat, 0, len(keys))
	for _, p := range keys {
		dup := r.PairCount[p]
		rows = append(rows, PairStat{
			Pair:       p,
			Duplicates: dup,
			Union:      r.UniqueCount[p.First] + r.UniqueCount[p.Second] - dup,
		})
	}
	return rows
}

// Clusters partitions the identities into groups of redundant sources: two
// identities end up in the same cluster when a chain of observed pairs with
// Ratio >= minRatio connects them. Identities without such a link form
// singleton clusters.
//
// Members are sorted and clusters are ordered by their first member.
func (r *Result) Clusters(minRatio float64) [][]Identity {
	uf := NewUnionFind[Identity]()
	for id := range r.UniqueCount {
		uf.Find(id)
	}

	for p := range r.PairCount {
		// Each unordered pair is visited twice; once is enough.
		if !p.First.Less(p.Second) {
			continue
		}
		if r.Ratio(p.First, p.Second) >= minRatio {
			uf.Union(p.First, p.Second)
		}
	}

	components := uf.GetAllComponents()
	clusters := make([][]Identity, 0, len(components))
	for _, members := range components {
		slices.SortFunc(members, CompareIdentity)
		clusters = append(clusters, members)
	}
	slices.SortFunc(clusters, func(a, b []Identity) int {
		return CompareIdentity(a[0], b[0])
	})

	return clusters
}
