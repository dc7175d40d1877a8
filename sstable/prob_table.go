package sstable

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	log "github.com/golang/glog"

	"github.com/bobonovski/goalign/posterior"
)

// NullWord stands for the NULL source word in serialized tables.
const NullWord = "<NULL>"

var ErrCorrupted = errors.New("sstable: probability table corrupted")

// ProbMap is a deserialized probability table.
type ProbMap struct {
	Lex  map[string]map[string]float64 // source word -> target word -> p
	Null map[string]float64            // target word -> p
}

// SaveProbTable serializes t to fn. The first line holds the source and
// target vocabulary sizes, then every entry follows as a tab separated
// "source target probability" line. Zero entries are skipped.
func SaveProbTable(fn string, t *posterior.ProbTable) error {
	out, err := os.OpenFile(fn, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	// write the table shape
	fmt.Fprintf(w, "%d\t%d\n", t.SourceVocab.Len(), t.TargetVocab.Len())

	t.Each(func(e posterior.Entry) {
		if e.Prob <= 0 { // only write out nonzero value
			return
		}
		src := NullWord
		if !e.Null {
			src = t.SourceVocab.Word(e.Source)
		}
		fmt.Fprintf(w, "%s\t%s\t%e\n", src, t.TargetVocab.Word(e.Target), e.Prob)
	})
	if err := w.Flush(); err != nil {
		return err
	}
	return out.Close()
}

// LoadProbTable reads a table written by SaveProbTable.
func LoadProbTable(fn string) (*ProbMap, error) {
	file, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	pm := &ProbMap{
		Lex:  make(map[string]map[string]float64),
		Null: make(map[string]float64),
	}
	lineIdx := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		txt := scanner.Text()
		if lineIdx == 0 {
			shape := strings.Split(txt, "\t")
			if len(shape) != 2 {
				return nil, fmt.Errorf("%w: shape not found: %s", ErrCorrupted, txt)
			}
			for _, s := range shape {
				if _, err := strconv.ParseUint(s, 10, 32); err != nil {
					return nil, fmt.Errorf("%w: %w", ErrCorrupted, err)
				}
			}
			lineIdx += 1
			continue
		}

		value := strings.Split(txt, "\t")
		if len(value) != 3 {
			log.Warningf("data corrupted, row %d, data %s", lineIdx, txt)
			lineIdx += 1
			continue
		}
		p, err := strconv.ParseFloat(value[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrCorrupted, lineIdx, err)
		}
		if value[0] == NullWord {
			pm.Null[value[1]] = p
		} else {
			if pm.Lex[value[0]] == nil {
				pm.Lex[value[0]] = make(map[string]float64)
			}
			pm.Lex[value[0]][value[1]] = p
		}
		lineIdx += 1
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if lineIdx == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrCorrupted)
	}
	return pm, nil
}
