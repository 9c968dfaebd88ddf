package duphash

import (
	"sync"
	"testing"
)

func id(p, s int) Identity { return Identity{Producer: p, Strategy: s} }

func TestUnionFind_BasicOperations(t *testing.T) {
	uf := NewUnionFind[Identity]()

	// Find on new element creates it
	root1 := uf.Find(id(0, 0))
	if root1 != id(0, 0) {
		t.Errorf("Expected root to be %v, got %v", id(0, 0), root1)
	}

	// Find on same element returns same root
	if root2 := uf.Find(id(0, 0)); root2 != root1 {
		t.Errorf("Expected consistent root, got %v vs %v", root1, root2)
	}

	// Two separate elements have different roots
	if uf.Find(id(0, 1)) == root1 {
		t.Error("Different identities should have different roots")
	}

	if components := uf.GetAllComponents(); len(components) != 2 {
		t.Errorf("Should have 2 singleton components, got %d", len(components))
	}
}

func TestUnionFind_Transitivity(t *testing.T) {
	uf := NewUnionFind[Identity]()

	chain := []Identity{id(0, 0), id(0, 1), id(1, 0), id(1, 1), id(2, 0)}
	for i := 0; i < len(chain)-1; i++ {
		uf.Union(chain[i], chain[i+1])
	}

	root := uf.Find(chain[0])
	for _, x := range chain {
		if uf.Find(x) != root {
			t.Errorf("Element %v should have root %v, got %v", x, root, uf.Find(x))
		}
	}

	if size := len(uf.GetAllComponents()[root]); size != 5 {
		t.Errorf("Component size should be 5, got %d", size)
	}
}

func TestUnionFind_MultipleComponents(t *testing.T) {
	uf := NewUnionFind[Identity]()

	uf.Union(id(0, 0), id(0, 1))
	uf.Union(id(0, 1), id(0, 2))

	uf.Union(id(1, 0), id(1, 1))
	uf.Union(id(1, 1), id(1, 2))

	if uf.Find(id(0, 0)) != uf.Find(id(0, 2)) {
		t.Error("(0, 0) and (0, 2) should be connected")
	}
	if uf.Find(id(0, 0)) == uf.Find(id(1, 0)) {
		t.Error("(0, 0) and (1, 0) should not be connected")
	}

	components := uf.GetAllComponents()
	if len(components) != 2 {
		t.Fatalf("Should have 2 components, got %d", len(components))
	}
	if size := len(components[uf.Find(id(1, 2))]); size != 3 {
		t.Errorf("Component size should be 3, got %d", size)
	}
}

func TestUnionFind_ConcurrentAccess(t *testing.T) {
	uf := NewUnionFind[Identity]()
	const numGoroutines = 50
	const operationsPerGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(producer int) {
			defer wg.Done()

			base := id(producer, 0)
			for j := 1; j <= operationsPerGoroutine; j++ {
				node := id(producer, j)
				if j%2 == 0 {
					uf.Find(node)
				} else {
					uf.Union(base, node)
				}
			}
		}(i)
	}

	wg.Wait()

	if got := len(uf.GetAllComponents()); got < numGoroutines {
		t.Errorf("producers were never linked to each other, expected at least %d components, got %d", numGoroutines, got)
	}
}

func TestUnionFind_IdempotentUnion(t *testing.T) {
	uf := NewUnionFind[Identity]()

	root1 := uf.Union(id(0, 0), id(0, 1))
	root2 := uf.Union(id(0, 0), id(0, 1))
	root3 := uf.Union(id(0, 1), id(0, 0))

	if root1 != root2 || root2 != root3 {
		t.Errorf("Idempotent unions should return same root: %v, %v, %v", root1, root2, root3)
	}
	if size := len(uf.GetAllComponents()[root1]); size != 2 {
		t.Errorf("Component size should be 2, got %d", size)
	}
}

func TestUnionFind_PathCompression(t *testing.T) {
	uf := NewUnionFind[int]()

	for i := 0; i < 9; i++ {
		uf.Union(i, i+1)
	}

	root := uf.Find(0)
	for i := 0; i < 10; i++ {
		if uf.Find(i) != root {
			t.Errorf("Node %d should have root %d", i, root)
		}
	}
}
