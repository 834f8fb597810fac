package io

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"syscall"
)

// Write contigs to w, each as a header line with its 1-based number and
// length followed by the sequence on its own line
func Write(w io.Writer, contigs []string) error {
	bw := bufio.NewWriter(w)
	for i, c := range contigs {
		if _, err := fmt.Fprintf(bw, ">contig%d|size%d\n%s\n", i+1, len(c), c); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// IsBrokenPipe reports whether an error is a broken pipe / closed pipe.
// Happens when downstream consumers (like `head`) close early
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}
