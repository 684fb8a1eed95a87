package ranking

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/okian/census/internal/domain/city"
	"github.com/stretchr/testify/require"
)

func rec(name string, population int) city.Record {
	return city.New(name, "VA", population)
}

func TestIndex_Empty(t *testing.T) {
	ix := NewIndex()

	require.Equal(t, 0, ix.Len())

	entries, err := ix.TopN(5)
	require.NoError(t, err)
	require.NotNil(t, entries)
	require.Empty(t, entries)

	_, err = ix.At(0)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestIndex_InvalidLimit(t *testing.T) {
	ix := NewIndex()
	ix.Insert(rec("Norfolk", 245782))

	for _, n := range []int{0, -1, -100} {
		_, err := ix.TopN(n)
		require.ErrorIs(t, err, ErrInvalidLimit, "limit %d", n)
	}
}

func TestIndex_Ordering(t *testing.T) {
	ix := NewIndex()
	for i, p := range []int{50981, 85181, 96470, 77113, 210309, 447021, 245782} {
		seq := ix.Insert(rec("c", p))
		require.Equal(t, i, seq)
	}

	entries, err := ix.TopN(5)
	require.NoError(t, err)
	require.Len(t, entries, 5)

	got := make([]int, len(entries))
	for i, e := range entries {
		got[i] = e.Record.Population()
		require.Equal(t, i+1, e.Rank)
	}
	require.Equal(t, []int{447021, 245782, 210309, 96470, 85181}, got)
	require.Equal(t, 7, ix.Len())
}

func TestIndex_TiesKeepArrivalOrder(t *testing.T) {
	ix := NewIndex()
	ix.Insert(rec("first", 100))
	ix.Insert(rec("bigger", 200))
	ix.Insert(rec("second", 100))
	ix.Insert(rec("third", 100))

	entries, err := ix.TopN(10)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	names := []string{}
	for _, e := range entries {
		names = append(names, e.Record.Name())
	}
	require.Equal(t, []string{"bigger", "first", "second", "third"}, names)
	require.Equal(t, []int{1, 2, 2, 2}, []int{entries[0].Rank, entries[1].Rank, entries[2].Rank, entries[3].Rank})
}

func TestIndex_DuplicatesAreKept(t *testing.T) {
	ix := NewIndex()
	r := rec("Harrisonburg", 50981)
	ix.Insert(r)
	ix.Insert(r)

	entries, err := ix.TopN(5)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, 0, entries[0].Seq)
	require.Equal(t, 1, entries[1].Seq)
}

func TestIndex_At(t *testing.T) {
	ix := NewIndex()
	for _, p := range []int{3, 1, 2} {
		ix.Insert(rec("c", p))
	}

	for pos, want := range []int{3, 2, 1} {
		e, err := ix.At(pos)
		require.NoError(t, err)
		require.Equal(t, want, e.Record.Population())
		require.Equal(t, pos+1, e.Rank)
	}

	_, err := ix.At(3)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = ix.At(-1)
	require.ErrorIs(t, err, ErrNotFound)
}

// TestIndex_MatchesStableSort checks the index against a stable descending
// sort of the insertion history over random inputs with many ties.
func TestIndex_MatchesStableSort(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		ix := NewIndex(WithSeed(int64(round)))
		var history []Entry
		count := rng.Intn(200)
		for i := 0; i < count; i++ {
			r := rec("c", rng.Intn(20))
			seq := ix.Insert(r)
			history = append(history, Entry{Seq: seq, Record: r})
		}

		want := make([]Entry, len(history))
		copy(want, history)
		sort.SliceStable(want, func(i, j int) bool {
			return want[i].Record.Population() > want[j].Record.Population()
		})

		for _, n := range []int{1, 5, count + 1} {
			got, err := ix.TopN(n)
			require.NoError(t, err)
			limit := min(n, len(want))
			require.Len(t, got, limit)
			for i := 0; i < limit; i++ {
				require.Equal(t, want[i].Seq, got[i].Seq, "round %d n %d pos %d", round, n, i)
			}
		}
	}
}

func TestIndex_SameSeedSameShape(t *testing.T) {
	a := NewIndex(WithSeed(99))
	b := NewIndex(WithSeed(99))
	for _, p := range []int{5, 9, 1, 9, 3} {
		a.Insert(rec("c", p))
		b.Insert(rec("c", p))
	}
	require.Equal(t, a.root.prio, b.root.prio)
	require.Equal(t, a.root.seq, b.root.seq)
}

func TestIndex_AtMatchesTopN(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	ix := NewIndex()
	for i := 0; i < 200; i++ {
		ix.Insert(rec("c", r.Intn(50)))
	}

	all, err := ix.TopN(ix.Len())
	require.NoError(t, err)
	for pos, want := range all {
		e, err := ix.At(pos)
		require.NoError(t, err)
		require.Equal(t, want.Seq, e.Seq)
		require.Equal(t, pos+1, e.Rank)
	}
}
