// Package mer is for converting between 15bp nucleotide strings and the
// integer keys that identify them as nodes in the read graph
package mer

import (
	"errors"
	"fmt"
)

const (
	// MerLength is the number of bases in a single mer (graph node)
	MerLength = 15

	// ReadLength is the number of bases in a read. Each read is split into
	// two adjacent mers
	ReadLength = 2 * MerLength

	// Space is the number of distinct mers, 4^15
	Space = 1 << (2 * MerLength)
)

// Key is the base-4 encoding of a mer
type Key uint32

// Invalid is returned by Encode when a mer can't be encoded
const Invalid Key = ^Key(0)

// ErrInvalidRead is wrapped by every error returned for a read that can't be
// turned into a graph edge
var ErrInvalidRead = errors.New("invalid read")

// bases maps a digit to its nucleotide
const bases = "ACGT"

// digit returns the base-4 value of a nucleotide, or -1 if it isn't one of ACGT
func digit(b byte) int {
	switch b {
	case 'A':
		return 0
	case 'C':
		return 1
	case 'G':
		return 2
	case 'T':
		return 3
	default:
		return -1
	}
}

// Encode returns the key of the first MerLength bases of mer, most
// significant digit first. Invalid is returned if mer is too short or has
// a base other than A, C, G or T
func Encode(mer string) Key {
	if len(mer) < MerLength {
		return Invalid
	}

	var k Key
	for i := 0; i < MerLength; i++ {
		d := digit(mer[i])
		if d < 0 {
			return Invalid
		}
		k = k<<2 | Key(d)
	}
	return k
}

// Decode returns the mer for a key. It's the inverse of Encode
func Decode(k Key) string {
	if k >= Space {
		panic(fmt.Sprintf("mer: decode of out-of-range key %d", k))
	}

	var buf [MerLength]byte
	for i := MerLength - 1; i >= 0; i-- {
		buf[i] = bases[k&3]
		k >>= 2
	}
	return string(buf[:])
}

// String returns the decoded mer, or "invalid" for the Invalid marker
func (k Key) String() string {
	if k >= Space {
		return "invalid"
	}
	return Decode(k)
}

// Split turns a read into the keys of its prefix and suffix mers
func Split(read string) (prefix, suffix Key, err error) {
	if len(read) != ReadLength {
		return Invalid, Invalid, fmt.Errorf("%w: length %d, expected %d", ErrInvalidRead, len(read), ReadLength)
	}

	for i := 0; i < len(read); i++ {
		if digit(read[i]) < 0 {
			return Invalid, Invalid, fmt.Errorf("%w: base %q at position %d", ErrInvalidRead, read[i], i)
		}
	}

	return Encode(read[:MerLength]), Encode(read[MerLength:]), nil
}
