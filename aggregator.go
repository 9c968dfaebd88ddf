package duphash

import (
	"fmt"

	"go.uber.org/zap"
)

// Aggregator folds a hash-grouped stream of records into per-identity unique
// counts and per-pair duplicate counts.
//
// Records sharing a hash must be contiguous. The sequence does not need to be
// sorted by hash, only grouped. Violating this in the default (permissive)
// mode silently undercounts: the reappearing hash is treated as a new group.
// Use WithStrictContiguity or WithStrictWindow to fail instead.
//
// Working memory per group is bounded by the number of identities that
// reported the hash; nothing is retained across groups except the counters
// (and the closed-hash set in strict mode).
//
// An Aggregator is not safe for concurrent use. It is owned by one pass.
type Aggregator struct {
	unique map[Identity]int
	pairs  map[Pair]int

	// Current group state. open is false until the first record arrives,
	// so no hash value has to be reserved as a sentinel.
	open     bool
	current  string
	founders []Identity
	seen     map[Identity]struct{}

	closed closedHashes // nil in permissive mode

	records       int
	groups        int
	redundantRows int

	result *Result
	logger *zap.Logger
}

// Option configures an Aggregator.
type Option func(*options)

type options struct {
	strict bool
	window int
	logger *zap.Logger
}

// WithStrictContiguity makes Add fail with *NonContiguousGroupError when a
// hash reappears after its group was closed. Every closed hash is kept in
// memory for the rest of the pass.
func WithStrictContiguity() Option {
	return func(o *options) {
		o.strict = true
		o.window = 0
	}
}

// WithStrictWindow is WithStrictContiguity with bounded memory: only the
// size most recently closed hashes are remembered (LRU). Reappearances
// further back go undetected. A size of 0 behaves like WithStrictContiguity.
func WithStrictWindow(size int) Option {
	return func(o *options) {
		o.strict = true
		o.window = size
	}
}

// WithLogger sets the logger used for debug output. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewAggregator creates an empty aggregator.
func NewAggregator(opts ...Option) (*Aggregator, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	a := &Aggregator{
		unique: make(map[Identity]int),
		pairs:  make(map[Pair]int),
		seen:   make(map[Identity]struct{}),
		logger: o.logger,
	}

	if o.strict {
		if o.window < 0 {
			return nil, fmt.Errorf("strict window must be >= 0, got %d", o.window)
		}
		if o.window > 0 {
			wc, err := newWindowClosed(o.window)
			if err != nil {
				return nil, err
			}
			a.closed = wc
		} else {
			a.closed = make(unboundedClosed)
		}
	}

	return a, nil
}

// Add consumes one record.
//
// When the record's hash differs from the current group's hash, the current
// group is closed first. A record whose identity already appeared in the
// current group changes nothing.
func (a *Aggregator) Add(rec Record) error {
	if a.result != nil {
		return ErrFinalized
	}

	if !a.open || rec.Hash != a.current {
		if a.closed != nil && a.closed.Contains(rec.Hash) {
			return &NonContiguousGroupError{Hash: rec.Hash, Line: rec.Line}
		}
		a.closeGroup()
		a.open = true
		a.current = rec.Hash
		a.groups++
	}

	a.records++

	if _, dup := a.seen[rec.Identity]; dup {
		a.redundantRows++
		return nil
	}
	a.seen[rec.Identity] = struct{}{}
	a.founders = append(a.founders, rec.Identity)
	a.unique[rec.Identity]++

	return nil
}

// closeGroup credits every ordered pair of distinct founders of the current
// group and resets the group state. A group of k founders adds exactly
// k*(k-1) increments; k < 2 adds none.
func (a *Aggregator) closeGroup() {
	if !a.open {
		return
	}

	for i, first := range a.founders {
		for _, second := range a.founders[i+1:] {
			a.pairs[Pair{First: first, Second: second}]++
			a.pairs[Pair{First: second, Second: first}]++
		}
	}

	if ce := a.logger.Check(zap.DebugLevel, "closed hash group"); ce != nil {
		ce.Write(zap.String("hash", a.current), zap.Int("founders", len(a.founders)))
	}

	if a.closed != nil {
		a.closed.Add(a.current)
	}

	a.founders = a.founders[:0]
	clear(a.seen)
	a.open = false
}

// Finalize closes the last open group and returns the result. It runs the
// same close step as a hash change does, so the final group is never lost.
// Finalize is idempotent; later calls return the same Result.
func (a *Aggregator) Finalize() *Result {
	if a.result != nil {
		return a.result
	}

	a.closeGroup()

	a.result = &Result{
		UniqueCount: a.unique,
		PairCount:   a.pairs,
		Stats: Stats{
			Records:       a.records,
			Groups:        a.groups,
			RedundantRows: a.redundantRows,
			Identities:    len(a.unique),
			Pairs:         len(a.pairs),
		},
	}

	a.logger.Debug("aggregation finalized",
		zap.Int("records", a.records),
		zap.Int("groups", a.groups),
		zap.Int("identities", len(a.unique)),
		zap.Int("pairs", len(a.pairs)))

	return a.result
}

// Aggregate runs one full pass over records.
func Aggregate(records []Record, opts ...Option) (*Result, error) {
	agg, err := NewAggregator(opts...)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if err := agg.Add(rec); err != nil {
			return nil, err
		}
	}
	return agg.Finalize(), nil
}
