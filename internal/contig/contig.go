// Package contig is for turning walks into contig sequences and for merging
// contigs that contain or overlap one another
package contig

import (
	"strings"

	"github.com/alberlin232/ShReGeAs/internal/mer"
)

// Assemble decodes every node of a walk and concatenates the mers in order.
// Consecutive nodes of a walk are the adjacent halves of reads so nothing
// is trimmed between them
func Assemble(path []mer.Key) string {
	var b strings.Builder
	b.Grow(len(path) * mer.MerLength)
	for _, k := range path {
		b.WriteString(mer.Decode(k))
	}
	return b.String()
}

// Set is an ordered set of contigs. Adding a contig that's already in the
// set is a no-op, and contigs are listed in the order they were first added
type Set struct {
	seqs  []string
	index map[string]struct{}
}

// NewSet returns a set with the passed contigs
func NewSet(seqs ...string) *Set {
	s := &Set{index: make(map[string]struct{}, len(seqs))}
	for _, seq := range seqs {
		s.Add(seq)
	}
	return s
}

// Add puts a contig in the set, returning false if it was already there
func (s *Set) Add(seq string) bool {
	if _, ok := s.index[seq]; ok {
		return false
	}
	s.index[seq] = struct{}{}
	s.seqs = append(s.seqs, seq)
	return true
}

// Contains returns whether the contig is in the set
func (s *Set) Contains(seq string) bool {
	_, ok := s.index[seq]
	return ok
}

// Len is the number of distinct contigs
func (s *Set) Len() int {
	return len(s.seqs)
}

// Slice returns the contigs in insertion order. It must not be modified
func (s *Set) Slice() []string {
	return s.seqs
}
