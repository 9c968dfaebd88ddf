package duphash

import (
	"cmp"
	"fmt"
)

// Identity identifies one reporting source: a solver configuration
// (Strategy) run by one portfolio process (Producer).
//
// Identities are compared by value. The total order (producer, then strategy)
// is only used when presenting results.
type Identity struct {
	Producer int
	Strategy int
}

// String renders the identity the way the duplicate plots label it.
func (id Identity) String() string {
	return fmt.Sprintf("(%d, %d)", id.Producer, id.Strategy)
}

// Less reports whether id orders before other.
func (id Identity) Less(other Identity) bool {
	return CompareIdentity(id, other) < 0
}

// CompareIdentity orders identities by producer, then strategy.
// Suitable for slices.SortFunc.
func CompareIdentity(a, b Identity) int {
	if c := cmp.Compare(a.Producer, b.Producer); c != 0 {
		return c
	}
	return cmp.Compare(a.Strategy, b.Strategy)
}

// Pair is an ordered pair of distinct identities.
// (a, b) and (b, a) are separate keys that always hold equal counts.
type Pair struct {
	First  Identity
	Second Identity
}

// Reverse returns (Second, First).
func (p Pair) Reverse() Pair {
	return Pair{First: p.Second, Second: p.First}
}

// ComparePair orders pairs by First, then Second.
func ComparePair(a, b Pair) int {
	if c := CompareIdentity(a.First, b.First); c != 0 {
		return c
	}
	return CompareIdentity(a.Second, b.Second)
}

// Record is one reported hash. Hash is an opaque key (a clause fingerprint
// in the portfolio logs). Line is the 1-based source line the record was
// read from, or 0 when unknown; it is only used in error messages.
type Record struct {
	Hash     string
	Identity Identity
	Line     int
}
