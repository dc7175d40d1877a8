package sstable

import (
	"bufio"
	"io"
	"strconv"

	"github.com/bobonovski/goalign/posterior"
)

// WriteAlignments writes one line per sentence pair with zero-based
// "source-target" index pairs, NULL links omitted. Reversed alignments
// were computed with the sides swapped and are flipped back, so the
// output always refers to the sides of the input corpus.
func WriteAlignments(w io.Writer, a posterior.Alignment, reversed bool) error {
	out := bufio.NewWriter(w)
	var buf []byte
	for _, links := range a {
		buf = buf[:0]
		for j, i := range links {
			if i == 0 {
				continue
			}
			src, tgt := i-1, j
			if reversed {
				src, tgt = tgt, src
			}
			if len(buf) > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendInt(buf, int64(src), 10)
			buf = append(buf, '-')
			buf = strconv.AppendInt(buf, int64(tgt), 10)
		}
		buf = append(buf, '\n')
		if _, err := out.Write(buf); err != nil {
			return err
		}
	}
	return out.Flush()
}
