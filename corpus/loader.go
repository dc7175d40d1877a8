package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/golang/glog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const fastAlignSep = "|||"

var ErrLineMismatch = errors.New("corpus: parallel files differ in number of lines")

// Options controls how raw text is turned into tokens.
type Options struct {
	Lower  bool // lower-case every token
	Prefix int  // keep only the first Prefix runes of a token (0 = off)
	Suffix int  // keep only the last Suffix runes of a token (0 = off)
}

// Load reads a corpus from either one fast_align style file with
// "source ||| target" lines or two line-parallel files.
func Load(fns []string, opts Options) (*Corpus, error) {
	switch len(fns) {
	case 1:
		f, err := os.Open(fns[0])
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return Read(f, opts)
	case 2:
		src, err := os.Open(fns[0])
		if err != nil {
			return nil, err
		}
		defer src.Close()
		tgt, err := os.Open(fns[1])
		if err != nil {
			return nil, err
		}
		defer tgt.Close()
		return ReadParallel(src, tgt, opts)
	default:
		return nil, fmt.Errorf("corpus: expected one or two input files, got %d", len(fns))
	}
}

// Read parses "source ||| target" lines. A line without separator is
// kept as a pair with an empty target so that line numbers still match
// the input.
func Read(r io.Reader, opts Options) (*Corpus, error) {
	b := newBuilder(opts)
	scanner := newScanner(r)
	lineIdx := 0
	for scanner.Scan() {
		txt := scanner.Text()
		src, tgt, ok := strings.Cut(txt, fastAlignSep)
		if !ok {
			log.Warningf("line %d: missing %q separator", lineIdx, fastAlignSep)
		}
		b.add(src, tgt)
		lineIdx += 1
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return b.finish(), nil
}

// ReadParallel reads line-aligned source and target texts.
func ReadParallel(src, tgt io.Reader, opts Options) (*Corpus, error) {
	b := newBuilder(opts)
	ss, ts := newScanner(src), newScanner(tgt)
	for {
		sok, tok := ss.Scan(), ts.Scan()
		if sok != tok {
			if err := firstErr(ss.Err(), ts.Err()); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("after %d lines: %w", len(b.pairs), ErrLineMismatch)
		}
		if !sok {
			break
		}
		b.add(ss.Text(), ts.Text())
	}
	if err := firstErr(ss.Err(), ts.Err()); err != nil {
		return nil, err
	}
	return b.finish(), nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return scanner
}

type builder struct {
	opts   Options
	caser  cases.Caser
	pairs  []Pair
	src    *Vocab
	tgt    *Vocab
	tokens int
}

func newBuilder(opts Options) *builder {
	return &builder{
		opts:  opts,
		caser: cases.Lower(language.Und),
		src:   NewVocab(),
		tgt:   NewVocab(),
	}
}

func (b *builder) add(src, tgt string) {
	b.pairs = append(b.pairs, Pair{
		Source: b.tokenize(src, b.src),
		Target: b.tokenize(tgt, b.tgt),
	})
}

func (b *builder) tokenize(s string, v *Vocab) []uint32 {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	ids := make([]uint32, len(fields))
	for i, w := range fields {
		ids[i] = v.Add(b.normalize(w))
	}
	b.tokens += len(ids)
	return ids
}

func (b *builder) normalize(w string) string {
	if b.opts.Lower {
		w = b.caser.String(w)
	}
	return Stem(w, b.opts.Prefix, b.opts.Suffix)
}

func (b *builder) finish() *Corpus {
	log.Infof("number of sentence pairs %d", len(b.pairs))
	log.Infof("vocabulary size source %d target %d", b.src.Len(), b.tgt.Len())
	log.V(1).Infof("number of tokens %d", b.tokens)
	return &Corpus{
		Pairs:       b.pairs,
		SourceVocab: b.src,
		TargetVocab: b.tgt,
	}
}

// Stem truncates w to its first prefix runes and/or its last suffix
// runes. With both set, a word longer than prefix+suffix keeps its head
// and tail joined together. Zero disables the respective side.
func Stem(w string, prefix, suffix int) string {
	if prefix <= 0 && suffix <= 0 {
		return w
	}
	runes := []rune(w)
	n := len(runes)
	switch {
	case prefix > 0 && suffix > 0:
		if n <= prefix+suffix {
			return w
		}
		return string(runes[:prefix]) + string(runes[n-suffix:])
	case prefix > 0:
		if n <= prefix {
			return w
		}
		return string(runes[:prefix])
	default:
		if n <= suffix {
			return w
		}
		return string(runes[n-suffix:])
	}
}
