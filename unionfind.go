package duphash

import (
	"sync"
)

// UnionFind implements the Disjoint Set Union (DSU) data structure
// with path compression and union by rank optimizations.
// This provides near-constant time O(α(n)) operations where α is the inverse Ackermann function.
//
// Result.Clusters uses it to join identities with high pairwise overlap.
//
// Thread-safe for concurrent operations.
type UnionFind[T comparable] struct {
	parent map[T]T   // parent[x] = parent of x in the tree
	rank   map[T]int // rank[x] = approximate depth of tree rooted at x
	mu     sync.Mutex
}

// NewUnionFind creates a new UnionFind data structure.
func NewUnionFind[T comparable]() *UnionFind[T] {
	return &UnionFind[T]{
		parent: make(map[T]T),
		rank:   make(map[T]int),
	}
}

// Find returns the representative (root) of the set containing x.
// An element seen for the first time becomes its own singleton set.
//
// Time complexity: O(α(n)) amortized
func (uf *UnionFind[T]) Find(x T) T {
	uf.mu.Lock()
	defer uf.mu.Unlock()

	return uf.findWithoutLock(x)
}

// findWithoutLock is the internal Find implementation without locking.
// Used by other methods that already hold the lock.
func (uf *UnionFind[T]) findWithoutLock(x T) T {
	if _, exists := uf.parent[x]; !exists {
		uf.parent[x] = x
		uf.rank[x] = 0
		return x
	}

	// Path compression: make every node point directly to root
	if uf.parent[x] != x {
		uf.parent[x] = uf.findWithoutLock(uf.parent[x])
	}

	return uf.parent[x]
}

// Union merges the sets containing x and y and returns the representative
// of the merged set. The shallower tree is attached under the deeper one.
//
// Time complexity: O(α(n)) amortized
func (uf *UnionFind[T]) Union(x, y T) T {
	uf.mu.Lock()
	defer uf.mu.Unlock()

	root1 := uf.findWithoutLock(x)
	root2 := uf.findWithoutLock(y)

	if root1 == root2 {
		return root1
	}

	switch {
	case uf.rank[root1] < uf.rank[root2]:
		uf.parent[root1] = root2
		return root2
	case uf.rank[root1] > uf.rank[root2]:
		uf.parent[root2] = root1
		return root1
	default:
		uf.parent[root2] = root1
		uf.rank[root1]++
		return root1
	}
}

// GetAllComponents returns a map of root -> list of all members in that component.
//
// Time complexity: O(n) where n is total number of elements
func (uf *UnionFind[T]) GetAllComponents() map[T][]T {
	uf.mu.Lock()
	defer uf.mu.Unlock()

	components := make(map[T][]T)

	for node := range uf.parent {
		root := uf.findWithoutLock(node)
		components[root] = append(components[root], node)
	}

	return components
}
