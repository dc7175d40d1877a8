package table

import (
	"slices"
	"sort"

	"github.com/bobonovski/goalign/corpus"
)

// NullRow is the row of the reserved NULL source symbol. Source word s
// lives in row s+1.
const NullRow = uint32(0)

// Row returns the count table row of source word s.
func Row(s uint32) uint32 {
	return s + 1
}

// Links enumerates every (source word, target word) pair that co-occurs
// in at least one sentence pair, plus (NULL, t) for every target word,
// and gives each a dense link id. Lexical counts are stored per link,
// which keeps them in one flat array instead of a |Vs| x |Vt| matrix.
//
// Links is immutable after construction and shared by all chains.
type Links struct {
	rows    uint32
	tgtSize uint32
	offsets []uint32 // start of row r in targets, len rows+1
	targets []uint32 // target ids of each row, sorted
	cells   [][]uint32
}

// NewLinks indexes the co-occurrences of a validated corpus.
func NewLinks(c *corpus.Corpus) *Links {
	tgtSize := c.TargetVocab.Len()
	rows := c.SourceVocab.Len() + 1

	var keys []uint64
	for _, p := range c.Pairs {
		for _, s := range p.Source {
			for _, t := range p.Target {
				keys = append(keys, uint64(Row(s))<<32|uint64(t))
			}
		}
	}
	slices.Sort(keys)
	keys = slices.Compact(keys)

	l := &Links{
		rows:    rows,
		tgtSize: tgtSize,
		offsets: make([]uint32, rows+1),
		targets: make([]uint32, 0, uint64(tgtSize)+uint64(len(keys))),
	}
	// the NULL row is dense over the target vocabulary, so the link id of
	// (NULL, t) is t itself
	for t := uint32(0); t < tgtSize; t += 1 {
		l.targets = append(l.targets, t)
	}
	row := NullRow
	for _, k := range keys {
		r := uint32(k >> 32)
		for row < r {
			row += 1
			l.offsets[row] = uint32(len(l.targets))
		}
		l.targets = append(l.targets, uint32(k))
	}
	for row < rows {
		row += 1
		l.offsets[row] = uint32(len(l.targets))
	}

	l.cells = make([][]uint32, len(c.Pairs))
	for pi, p := range c.Pairs {
		if len(p.Source) == 0 || len(p.Target) == 0 {
			continue
		}
		cell := make([]uint32, len(p.Source)*len(p.Target))
		for i, s := range p.Source {
			for j, t := range p.Target {
				id, _ := l.Lookup(Row(s), t)
				cell[i*len(p.Target)+j] = id
			}
		}
		l.cells[pi] = cell
	}
	return l
}

// Len returns the number of links.
func (l *Links) Len() uint32 {
	return uint32(len(l.targets))
}

// Rows returns the number of count table rows, NULL included.
func (l *Links) Rows() uint32 {
	return l.rows
}

// TargetSize returns the size of the target vocabulary.
func (l *Links) TargetSize() uint32 {
	return l.tgtSize
}

// Null returns the link id of (NULL, t).
func (l *Links) Null(t uint32) uint32 {
	return t
}

// Cell returns the link id joining source position i and target
// position j of sentence pair p. targetLen is len(Target) of that pair.
func (l *Links) Cell(p, i, j, targetLen int) uint32 {
	return l.cells[p][i*targetLen+j]
}

// Lookup returns the link id of (row, t) if the pair co-occurs.
func (l *Links) Lookup(row, t uint32) (uint32, bool) {
	if row >= l.rows {
		return 0, false
	}
	lo, hi := l.offsets[row], l.offsets[row+1]
	ts := l.targets[lo:hi]
	k := sort.Search(len(ts), func(i int) bool { return ts[i] >= t })
	if k < len(ts) && ts[k] == t {
		return lo + uint32(k), true
	}
	return 0, false
}

// Each calls fn for every link in id order.
func (l *Links) Each(fn func(row, t, link uint32)) {
	for r := uint32(0); r < l.rows; r += 1 {
		for id := l.offsets[r]; id < l.offsets[r+1]; id += 1 {
			fn(r, l.targets[id], id)
		}
	}
}
