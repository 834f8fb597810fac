// Package io is for reading reads from the input file and writing contigs
package io

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// readCloser closes a decompressor and the file under it
type readCloser struct {
	io.Reader
	closers []func() error
}

func (r *readCloser) Close() error {
	var err error
	for _, c := range r.closers {
		if cerr := c(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Open returns a reader for a plain, gzip or zstd compressed file. Compression
// is detected from the file's magic number or its extension. "-" is stdin
func Open(path string) (io.ReadCloser, error) {
	var f io.ReadCloser = os.Stdin
	if path != "-" {
		fh, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		f = fh
	}

	br := bufio.NewReader(f)
	sig, _ := br.Peek(len(zstdMagic))

	switch {
	case bytes.HasPrefix(sig, gzipMagic) || strings.HasSuffix(path, ".gz"):
		gr, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to read gzip file %s: %w", path, err)
		}
		return &readCloser{Reader: gr, closers: []func() error{gr.Close, f.Close}}, nil
	case bytes.HasPrefix(sig, zstdMagic) || strings.HasSuffix(path, ".zst"):
		zr, err := zstd.NewReader(br)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to read zstd file %s: %w", path, err)
		}
		return &readCloser{Reader: zr, closers: []func() error{
			func() error { zr.Close(); return nil },
			f.Close,
		}}, nil
	}

	return &readCloser{Reader: br, closers: []func() error{f.Close}}, nil
}

// MaxLine is the longest line Read keeps whole. Longer lines are cut to
// MaxLine bytes, so they still show up as (invalid) reads
const MaxLine = 4 * 1024 * 1024

// Read returns every read in r. Header lines (starting with '>') and blank
// lines are skipped and line endings are stripped. Reads aren't validated:
// the index of a read in the returned slice is its sequence id
func Read(r io.Reader) ([]string, error) {
	br := bufio.NewReaderSize(r, 64*1024)

	var reads []string
	for {
		line, err := readLine(br)
		if err == io.EOF {
			return reads, nil
		}
		if err != nil {
			return nil, err
		}

		line = strings.TrimRight(line, "\r")
		if line == "" || line[0] == '>' {
			continue
		}
		reads = append(reads, line)
	}
}

// readLine returns the next line of br without its line ending, keeping at
// most MaxLine bytes of it and draining the rest
func readLine(br *bufio.Reader) (string, error) {
	var line []byte
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err == io.EOF && len(line) > 0 {
			return string(line), nil
		}
		if err != nil {
			return "", err
		}
		if room := MaxLine - len(line); room > 0 {
			if len(chunk) > room {
				chunk = chunk[:room]
			}
			line = append(line, chunk...)
		}
		if !isPrefix {
			return string(line), nil
		}
	}
}

// ReadFile opens the file at path and returns its reads
func ReadFile(path string) ([]string, error) {
	f, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	reads, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return reads, nil
}
