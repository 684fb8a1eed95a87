// Package ranking keeps city records ordered by population for top-N queries.
package ranking

import (
	"math/rand"
	"sync"

	"github.com/okian/census/internal/domain/city"
)

// Treap-based, in-memory ordered index.
//
// Ordering: population DESC, then arrival sequence ASC. "less" means ranks
// earlier, so in-order traversal yields the ranking from most to least
// populous, with earlier arrivals first among equal populations.

const defaultSeed = 42

// Entry is one ranked record.
type Entry struct {
	Rank   int
	Seq    int
	Record city.Record
}

type node struct {
	seq    int
	record city.Record
	prio   uint64
	left   *node
	right  *node
	size   int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if a should appear before b in the ranking.
func less(a, b *node) bool {
	if a.record.Population() != b.record.Population() {
		return a.record.Population() > b.record.Population()
	}
	return a.seq < b.seq
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

func insert(n, nn *node) *node {
	if n == nil {
		return nn
	}
	if less(nn, n) {
		n.left = insert(n.left, nn)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, nn)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

// collectTopN appends up to limit entries in rank order.
func collectTopN(n *node, limit int, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, Entry{Seq: n.seq, Record: n.record})
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, out)
	}
}

// Index is an ordered multiset of city records. It is safe for concurrent use.
type Index struct {
	mu   sync.RWMutex
	root *node
	next int
	seed int64
	rng  *rand.Rand
}

// NewIndex constructs an empty index.
func NewIndex(opts ...Option) *Index {
	ix := &Index{seed: defaultSeed}
	for _, opt := range opts {
		opt(ix)
	}
	ix.rng = rand.New(rand.NewSource(ix.seed)) //nolint:gosec // deterministic shapes, not security relevant
	return ix
}

// Insert adds rec and returns its arrival sequence number, starting at 0.
// Repeated values are kept as distinct entries.
func (ix *Index) Insert(rec city.Record) int {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	seq := ix.next
	ix.next++
	ix.root = insert(ix.root, &node{seq: seq, record: rec, prio: ix.rng.Uint64(), size: 1})
	return seq
}

// TopN returns up to n entries ordered by population desc.
func (ix *Index) TopN(n int) ([]Entry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	out := make([]Entry, 0, min(n, nsize(ix.root)))
	collectTopN(ix.root, n, &out)
	assignRanksWithTies(out)
	return out, nil
}

// At returns the entry at zero-based position pos in rank order in O(log n).
// Its Rank is the position plus one; tie ranks are only computed by TopN.
func (ix *Index) At(pos int) (Entry, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if pos < 0 || pos >= nsize(ix.root) {
		return Entry{}, ErrNotFound
	}
	rank := pos + 1
	n := ix.root
	for n != nil {
		left := nsize(n.left)
		switch {
		case pos < left:
			n = n.left
		case pos == left:
			return Entry{Rank: rank, Seq: n.seq, Record: n.record}, nil
		default:
			pos -= left + 1
			n = n.right
		}
	}
	return Entry{}, ErrNotFound
}

// Len returns the number of records in the index.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return nsize(ix.root)
}

// assignRanksWithTies gives equal populations the same rank; the next
// distinct population gets the next consecutive rank.
func assignRanksWithTies(entries []Entry) {
	rank := 0
	for i := range entries {
		if i == 0 || entries[i].Record.Population() != entries[i-1].Record.Population() {
			rank++
		}
		entries[i].Rank = rank
	}
}
