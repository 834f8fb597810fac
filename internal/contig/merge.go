package contig

import (
	"strings"

	"github.com/alberlin232/ShReGeAs/internal/mer"
)

// MinOverlap is the shortest suffix/prefix overlap two contigs are merged on
const MinOverlap = mer.MerLength

// merge returns the contig made from a and b, if they can be merged. a is
// the contig that's being scanned for a partner and b the candidate
//
// If the shorter contig is within the longer one, the longer one is returned.
// Otherwise overlaps of increasing length are tried, from MinOverlap to one
// less than the shorter contig's length. The first overlap that matches
// wins: the longer contig's suffix on the shorter contig's prefix before the
// shorter contig's suffix on the longer contig's prefix
func merge(a, b string) (string, bool) {
	big, small := a, b
	if len(b) > len(a) {
		big, small = b, a
	}

	if strings.Contains(big, small) {
		return big, true
	}

	for k := MinOverlap; k < len(small); k++ {
		if big[len(big)-k:] == small[:k] {
			return big + small[k:], true
		}
		if small[len(small)-k:] == big[:k] {
			return small + big[k:], true
		}
	}

	return "", false
}

// MergePass runs a single round of merging over the set
//
// Contigs are visited in set order. Each contig that hasn't been used yet is
// merged with the first later unused contig it can be merged with, and both
// are marked used. A contig without a partner is passed through unchanged
func MergePass(in *Set) *Set {
	seqs := in.Slice()
	used := make([]bool, len(seqs))
	out := NewSet()

	for i, a := range seqs {
		if used[i] {
			continue
		}
		used[i] = true

		merged := a
		for j := i + 1; j < len(seqs); j++ {
			if used[j] {
				continue
			}
			if m, ok := merge(a, seqs[j]); ok {
				used[j] = true
				merged = m
				break
			}
		}
		out.Add(merged)
	}

	return out
}

// Merge runs merge passes until a pass leaves the number of contigs
// unchanged. It returns that pass's contigs and the number of passes run.
// onPass, if not nil, is called with the pass number and the size of the
// set going into it
func Merge(in *Set, onPass func(pass, size int)) (*Set, int) {
	cur := in
	for pass := 1; ; pass++ {
		if onPass != nil {
			onPass(pass, cur.Len())
		}

		next := MergePass(cur)
		if next.Len() == cur.Len() {
			return next, pass
		}
		cur = next
	}
}
