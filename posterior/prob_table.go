package posterior

import (
	"github.com/bobonovski/goalign/corpus"
	"github.com/bobonovski/goalign/matrix"
	"github.com/bobonovski/goalign/table"
)

// ProbTable is the posterior lexical translation table: p(target word |
// source word) for every co-occurring pair, and p(target word | NULL).
type ProbTable struct {
	SourceVocab *corpus.Vocab
	TargetVocab *corpus.Vocab

	links *table.Links
	probs *matrix.Float64Matrix
}

// Entry is one cell of a ProbTable. Null marks the NULL source word, in
// which case Source is meaningless.
type Entry struct {
	Source uint32
	Null   bool
	Target uint32
	Prob   float64
}

// Average builds the mean of the per chain lexical tables.
func Average(data *corpus.Corpus, links *table.Links, lex []*matrix.Float64Matrix) *ProbTable {
	probs := matrix.NewFloat64Matrix(max(links.Len(), 1), 1)
	for _, m := range lex {
		probs.AddMatrix(m)
	}
	if len(lex) > 0 {
		probs.Scale(1 / float64(len(lex)))
	}
	return &ProbTable{
		SourceVocab: data.SourceVocab,
		TargetVocab: data.TargetVocab,
		links:       links,
		probs:       probs,
	}
}

// Prob returns p(tgt | src). ok is false if the words never co-occur.
func (t *ProbTable) Prob(src, tgt uint32) (float64, bool) {
	link, ok := t.links.Lookup(table.Row(src), tgt)
	if !ok {
		return 0, false
	}
	return t.probs.Get(link, 0), true
}

// Null returns p(tgt | NULL).
func (t *ProbTable) Null(tgt uint32) float64 {
	if tgt >= t.links.TargetSize() {
		return 0
	}
	return t.probs.Get(t.links.Null(tgt), 0)
}

// Each calls fn for every entry, NULL entries first.
func (t *ProbTable) Each(fn func(e Entry)) {
	t.links.Each(func(row, tgt, link uint32) {
		e := Entry{Target: tgt, Prob: t.probs.Get(link, 0)}
		if row == table.NullRow {
			e.Null = true
		} else {
			e.Source = row - 1
		}
		fn(e)
	})
}

// Map returns the table keyed by words: source word -> target word ->
// probability, and the NULL word distribution.
func (t *ProbTable) Map() (map[string]map[string]float64, map[string]float64) {
	lex := make(map[string]map[string]float64)
	null := make(map[string]float64)
	t.Each(func(e Entry) {
		tgt := t.TargetVocab.Word(e.Target)
		if e.Null {
			null[tgt] = e.Prob
			return
		}
		src := t.SourceVocab.Word(e.Source)
		if lex[src] == nil {
			lex[src] = make(map[string]float64)
		}
		lex[src][tgt] = e.Prob
	})
	return lex, null
}
