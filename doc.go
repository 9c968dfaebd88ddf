/*
Package duphash computes pairwise duplicate statistics for hashes reported by
the solvers of a parallel SAT portfolio.

# Overview

Every solver configuration (a strategy run by a portfolio process) reports
fingerprints of the clauses it produces. When several configurations produce
the same clause, the portfolio wastes work. This library measures how much:
for every pair of configurations it counts the hashes both of them reported
(duplicates) and the hashes either of them reported (union).

# Quick Start

	import dh "github.com/wallarm/duphash"

	res, err := dh.Aggregate([]dh.Record{
		{Hash: "h1", Identity: dh.Identity{Producer: 0, Strategy: 0}},
		{Hash: "h1", Identity: dh.Identity{Producer: 1, Strategy: 0}},
		{Hash: "h2", Identity: dh.Identity{Producer: 0, Strategy: 0}},
	})
	if err != nil {
		return err
	}

	a := dh.Identity{Producer: 0, Strategy: 0}
	b := dh.Identity{Producer: 1, Strategy: 0}
	res.Duplicates(a, b) // 1
	res.Union(a, b)      // 2

	dh.WritePairs(os.Stdout, res)
	// 0 0 1 0 1 2
	// 1 0 0 0 1 2

# Input Grouping

The aggregator is a single streaming pass. It keeps only the identities seen
for the current hash ("founders"); when the hash changes, every ordered pair
of founders is credited once and the group is reset. The last group is
closed by Finalize.

This requires all records of one hash to be contiguous. They do not need to
be sorted. If a hash reappears later, the default behaviour treats it as a
new group and silently undercounts. Two strict modes turn that into an error:

	dh.NewAggregator(dh.WithStrictContiguity())  // remembers every closed hash
	dh.NewAggregator(dh.WithStrictWindow(100000)) // remembers the last 100000 (LRU)

Repeated rows for the same hash and identity inside one group are counted once.

# Reading Logs

	f, _ := os.Open("sorted_agg_cls.txt")
	res, err := dh.AggregateReader(ctx, f, dh.DefaultFormat())

Format selects the delimiter (whitespace or one character such as ",") and
which columns hold hash, producer and strategy. Unparseable lines fail with
*MalformedInputError before reaching the aggregator.

# Derived Views

  - Result.Pairs: sorted rows with duplicate and union counts
  - Result.Matrix: ratio grid over the observed identities, in sorted order
  - Result.Clusters: identities joined by a chain of pairs whose
    duplicate/union ratio reaches a threshold (union-find)

# Complexity

  - Time: O(R + G*k²) for R records, G groups, k founders per group
  - Memory: O(I²) for I identities, independent of R
  - Strict mode adds one entry per closed hash (or the window size)
*/
package duphash
