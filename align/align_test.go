package align

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobonovski/goalign/corpus"
	"github.com/bobonovski/goalign/model"
	"github.com/bobonovski/goalign/sampler"
)

const smallCorpus = "das haus ist klein ||| the house is small\n" +
	"das haus ||| the house\n" +
	"das buch ist klein ||| the book is small\n" +
	"ein buch ||| a book\n" +
	" ||| stray tokens\n" +
	"kein ziel |||\n" +
	"klein ||| small\n"

func load(t *testing.T, in string) *corpus.Corpus {
	data, err := corpus.Read(strings.NewReader(in), corpus.Options{Lower: true})
	require.NoError(t, err)
	return data
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Sweeps = 20
	cfg.Seed = 1234
	return cfg
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cases := map[string]func(c *Config){
		"model 0":        func(c *Config) { c.Model = 0 },
		"model 4":        func(c *Config) { c.Model = 4 },
		"no samplers":    func(c *Config) { c.Samplers = 0 },
		"null prior 0":   func(c *Config) { c.NullPrior = 0 },
		"null prior 1":   func(c *Config) { c.NullPrior = 1 },
		"lex alpha":      func(c *Config) { c.LexAlpha = -1 },
		"null alpha":     func(c *Config) { c.NullAlpha = 0 },
		"length":         func(c *Config) { c.Length = 0 },
		"negative sweep": func(c *Config) { c.Sweeps = -3 },
	}
	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(&cfg)
		err := cfg.Validate()
		assert.True(t, errors.Is(err, ErrBadConfig), name)
	}

	cfg := DefaultConfig()
	cfg.Model = 9
	assert.True(t, errors.Is(cfg.Validate(), model.ErrUnknownVariant))
}

func TestAlignRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Samplers = -1
	res, err := Align(context.Background(), load(t, smallCorpus), cfg)
	assert.True(t, errors.Is(err, ErrBadConfig))
	assert.Nil(t, res)
}

func TestAlignRejectsBadData(t *testing.T) {
	data := load(t, smallCorpus)
	data.Pairs = append(data.Pairs, corpus.Pair{Source: []uint32{999}, Target: []uint32{0}})

	res, err := Align(context.Background(), data, testConfig())
	assert.True(t, errors.Is(err, corpus.ErrUnknownToken))
	assert.Nil(t, res)
}

func TestAlignRejectsLongSentences(t *testing.T) {
	data := load(t, "a ||| x\n")
	long := func(n int) []uint32 { return make([]uint32, n) }

	cases := map[string]corpus.Pair{
		"source": {Source: long(sampler.MaxSourceLen + 1), Target: []uint32{0}},
		"target": {Source: []uint32{0}, Target: long(sampler.MaxTargetLen + 1)},
	}
	for name, pair := range cases {
		t.Run(name, func(t *testing.T) {
			bad := &corpus.Corpus{
				Pairs:       []corpus.Pair{pair},
				SourceVocab: data.SourceVocab,
				TargetVocab: data.TargetVocab,
			}
			_, err := Align(context.Background(), bad, testConfig())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSentenceTooLong))
			assert.Contains(t, err.Error(), name)
		})
	}
}

func TestAlignShape(t *testing.T) {
	data := load(t, smallCorpus)
	for _, m := range []int{1, 2, 3} {
		cfg := testConfig()
		cfg.Model = m
		res, err := Align(context.Background(), data, cfg)
		require.NoError(t, err)
		assert.False(t, res.Reversed)
		assert.Nil(t, res.Table)

		require.Len(t, res.Alignments, len(data.Pairs))
		for p, pair := range data.Pairs {
			require.Len(t, res.Alignments[p], len(pair.Target))
			for _, a := range res.Alignments[p] {
				assert.GreaterOrEqual(t, a, 0)
				assert.LessOrEqual(t, a, len(pair.Source))
			}
		}
		// empty source forces NULL
		assert.Equal(t, []int{0, 0}, res.Alignments[4])
		assert.Empty(t, res.Alignments[5])
	}
}

func TestAlignReverse(t *testing.T) {
	data := load(t, smallCorpus)
	cfg := testConfig()
	cfg.Reverse = true
	res, err := Align(context.Background(), data, cfg)
	require.NoError(t, err)
	assert.True(t, res.Reversed)

	require.Len(t, res.Alignments, len(data.Pairs))
	for p, pair := range data.Pairs {
		require.Len(t, res.Alignments[p], len(pair.Source))
		for _, a := range res.Alignments[p] {
			assert.LessOrEqual(t, a, len(pair.Target))
		}
	}
	// "kein ziel |||" has no target words to point to
	assert.Equal(t, []int{0, 0}, res.Alignments[5])
}

func TestAlignDeterministic(t *testing.T) {
	data := load(t, smallCorpus)
	cfg := testConfig()
	cfg.Samplers = 3

	a, err := Align(context.Background(), data, cfg)
	require.NoError(t, err)
	b, err := Align(context.Background(), data, cfg)
	require.NoError(t, err)
	assert.Equal(t, a.Alignments, b.Alignments)
}

func TestAlignChainCountKeepsShape(t *testing.T) {
	data := load(t, smallCorpus)
	cfg := testConfig()
	cfg.Samplers = 1
	one, err := Align(context.Background(), data, cfg)
	require.NoError(t, err)

	cfg.Samplers = 4
	four, err := Align(context.Background(), data, cfg)
	require.NoError(t, err)

	require.Len(t, four.Alignments, len(one.Alignments))
	for p := range one.Alignments {
		assert.Len(t, four.Alignments[p], len(one.Alignments[p]))
	}
}

func TestAlignConvergesOnTrivialCorpus(t *testing.T) {
	in := strings.Repeat("y ||| x\n", 50) +
		strings.Repeat("a b ||| c d\n", 10) +
		strings.Repeat("b ||| d\n", 10)
	data := load(t, in)

	cfg := testConfig()
	cfg.Discretize = false
	res, err := Align(context.Background(), data, cfg)
	require.NoError(t, err)
	require.NotNil(t, res.Table)
	assert.Nil(t, res.Alignments)

	y, _ := data.SourceVocab.ID("y")
	x, _ := data.TargetVocab.ID("x")
	p, ok := res.Table.Prob(y, x)
	require.True(t, ok)
	assert.Greater(t, p, 0.9)

	lex, null := res.Table.Map()
	assert.Greater(t, lex["y"]["x"], 0.9)
	assert.Len(t, null, int(data.TargetVocab.Len()))
}

func TestAlignFindsObviousLinks(t *testing.T) {
	in := strings.Repeat("y z ||| x w\n", 30) +
		strings.Repeat("y ||| x\n", 30) +
		strings.Repeat("z ||| w\n", 30)
	data := load(t, in)

	res, err := Align(context.Background(), data, testConfig())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, res.Alignments[0])
	assert.Equal(t, []int{1}, res.Alignments[30])
	assert.Equal(t, []int{1}, res.Alignments[60])
}

func TestAlignCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Align(ctx, load(t, smallCorpus), testConfig())
	assert.True(t, errors.Is(err, context.Canceled))
}
