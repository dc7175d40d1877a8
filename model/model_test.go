package model

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobonovski/goalign/corpus"
	"github.com/bobonovski/goalign/table"
	"github.com/bobonovski/goalign/util"
)

type fixture struct {
	data   *corpus.Corpus
	links  *table.Links
	counts *table.Counts
	align  [][]uint16
	fert   [][]uint16
}

// newFixture loads in and counts the given alignment the way a chain
// does after initialization.
func newFixture(t *testing.T, in string, align [][]uint16) *fixture {
	data, err := corpus.Read(strings.NewReader(in), corpus.Options{})
	require.NoError(t, err)
	links := table.NewLinks(data)
	f := &fixture{
		data:   data,
		links:  links,
		counts: table.NewCounts(links, 0.01, 0.01),
		align:  align,
		fert:   make([][]uint16, len(align)),
	}
	for p, pair := range data.Pairs {
		f.fert[p] = make([]uint16, len(pair.Source))
		for j, a := range align[p] {
			if a == 0 {
				f.counts.CommitLex(links.Null(pair.Target[j]), table.NullRow)
				continue
			}
			i := int(a) - 1
			f.fert[p][i] += 1
			f.counts.CommitLex(links.Cell(p, i, j, len(pair.Target)), table.Row(pair.Source[i]))
			f.counts.CommitJump(table.JumpBucket(prevOf(align[p], j), int(a)))
		}
		for i, s := range pair.Source {
			f.counts.AddOccurrence(table.Row(s), f.fert[p][i])
		}
	}
	return f
}

func prevOf(align []uint16, j int) int {
	if j == 0 {
		return 0
	}
	if align[j-1] == 0 {
		return -1
	}
	return int(align[j-1])
}

// context retracts variable (p, j) and describes it.
func (f *fixture) context(p, j int, nullPrior float64) *Context {
	pair := f.data.Pairs[p]
	a := f.align[p][j]
	if a == 0 {
		f.counts.RetractLex(f.links.Null(pair.Target[j]), table.NullRow)
	} else {
		i := int(a) - 1
		f.counts.RetractLex(f.links.Cell(p, i, j, len(pair.Target)), table.Row(pair.Source[i]))
		f.counts.RetractJump(table.JumpBucket(prevOf(f.align[p], j), int(a)))
		f.counts.MoveFert(table.Row(pair.Source[i]), f.fert[p][i], f.fert[p][i]-1)
		f.fert[p][i] -= 1
	}
	if j+1 < len(pair.Target) && f.align[p][j+1] != 0 {
		next := int(f.align[p][j+1])
		from := int(a)
		if a == 0 {
			from = -1
		}
		f.counts.RetractJump(table.JumpBucket(from, next))
	}
	return &Context{
		Counts:    f.counts,
		Links:     f.links,
		NullPrior: nullPrior,
		Pair:      p,
		Source:    pair.Source,
		Target:    pair.Target,
		Align:     f.align[p],
		Fert:      f.fert[p],
		J:         j,
	}
}

func TestParseVariant(t *testing.T) {
	for n, want := range map[int]Variant{1: Lexical, 2: HMM, 3: Fertility} {
		v, err := ParseVariant(n)
		require.NoError(t, err)
		assert.Equal(t, want, v)

		s, err := Get(v)
		require.NoError(t, err)
		assert.Equal(t, want, s.Variant())
	}
	for _, n := range []int{0, 4, -1} {
		_, err := ParseVariant(n)
		assert.True(t, errors.Is(err, ErrUnknownVariant))
	}
	_, err := Get(Variant(7))
	assert.True(t, errors.Is(err, ErrUnknownVariant))
	assert.Equal(t, "hmm", HMM.String())
	assert.Equal(t, "variant(9)", Variant(9).String())
}

func TestScoresAreDistributions(t *testing.T) {
	in := "a b c ||| x y z w\n" +
		"a c ||| x z\n" +
		"b ||| y\n"
	align := [][]uint16{{1, 0, 3, 3}, {2, 1}, {1}}

	for _, v := range []Variant{Lexical, HMM, Fertility} {
		s, err := Get(v)
		require.NoError(t, err)
		for j := 0; j < 4; j += 1 {
			f := newFixture(t, in, align)
			ctx := f.context(0, j, 0.2)

			dist := make([]float64, 4)
			total, err := s.Scores(ctx, dist)
			require.NoError(t, err, v.String())
			assert.Greater(t, total, 0.0)
			assert.InDelta(t, total, util.VectorSum(dist), 1e-12)

			util.Normalize(dist)
			assert.InDelta(t, 1.0, util.VectorSum(dist), 1e-9, v.String())
			for _, p := range dist {
				assert.Greater(t, p, 0.0)
			}
		}
	}
}

func TestEmptySourceOnlyNull(t *testing.T) {
	f := newFixture(t, " ||| x y\n", [][]uint16{{0, 0}})
	for _, v := range []Variant{Lexical, HMM, Fertility} {
		s, _ := Get(v)
		f := newFixture(t, " ||| x y\n", [][]uint16{{0, 0}})
		dist := make([]float64, 1)
		total, err := s.Scores(f.context(0, 1, 0.2), dist)
		require.NoError(t, err)
		assert.Equal(t, dist[0], total)
	}

	s, _ := Get(Lexical)
	_, err := s.Scores(f.context(0, 0, 0), make([]float64, 1))
	assert.True(t, errors.Is(err, ErrZeroMass))
}

func TestLexicalPrefersCooccurrence(t *testing.T) {
	in := strings.Repeat("y ||| x\n", 20) + "y z ||| x w\n"
	align := make([][]uint16, 21)
	for p := 0; p < 20; p += 1 {
		align[p] = []uint16{1}
	}
	align[20] = []uint16{1, 2}

	f := newFixture(t, in, align)
	s, _ := Get(Lexical)
	dist := make([]float64, 3)
	_, err := s.Scores(f.context(20, 0, 0.2), dist)
	require.NoError(t, err)
	util.Normalize(dist)
	assert.Greater(t, dist[1], dist[0])
	assert.Greater(t, dist[1], 10*dist[2])
}

func TestHMMPrefersMonotoneJumps(t *testing.T) {
	// every word pair is ambiguous lexically, the jumps are all +1
	line := "a a a a ||| x x x x\n"
	in := strings.Repeat(line, 10)
	align := make([][]uint16, 10)
	for p := range align {
		align[p] = []uint16{1, 2, 3, 4}
	}

	f := newFixture(t, in, align)
	s, _ := Get(HMM)
	dist := make([]float64, 5)
	_, err := s.Scores(f.context(0, 2, 0.2), dist)
	require.NoError(t, err)
	util.Normalize(dist)

	// previous token sits at 2 and the next at 4, so 3 continues both jumps
	for k, p := range dist {
		if k != 3 {
			assert.Greater(t, dist[3], p)
		}
	}
}

func TestFertilityPenalizesCrowdedWord(t *testing.T) {
	// a and b translate x equally well; b already holds one token while
	// every other occurrence in the corpus has fertility one
	in := strings.Repeat("a b ||| x x\n", 10) + "a b ||| x x\n"
	align := make([][]uint16, 11)
	for p := 0; p < 10; p += 1 {
		align[p] = []uint16{1, 2}
	}
	align[10] = []uint16{2, 2}

	hmm := newFixture(t, in, align)
	fert := newFixture(t, in, align)

	dh := make([]float64, 3)
	df := make([]float64, 3)
	sh, _ := Get(HMM)
	sf, _ := Get(Fertility)
	_, err := sh.Scores(hmm.context(10, 1, 0.2), dh)
	require.NoError(t, err)
	_, err = sf.Scores(fert.context(10, 1, 0.2), df)
	require.NoError(t, err)
	util.Normalize(dh)
	util.Normalize(df)

	// moving b to fertility two is penalized, moving a from zero to one is rewarded
	assert.Less(t, df[2]/df[1], dh[2]/dh[1])
}
