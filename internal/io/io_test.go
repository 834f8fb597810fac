package io

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/alberlin232/ShReGeAs/internal/mer"
)

var fixtureReads = []string{
	"ACGTACGTACGTACGTTTTTTTTTTTTTTT",
	"TTTTTTTTTTTTTTTGGGGGGGGGGGGGGG",
	"ACGT",
	"ACGTACGTACGTACGNTTTTTTTTTTTTTT",
}

func Test_Read(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			"headers and blank lines are skipped",
			">h1\nAAAA\n\n>h2\nCCCC\n",
			[]string{"AAAA", "CCCC"},
		},
		{
			"windows line endings",
			"AAAA\r\nCCCC\r\n",
			[]string{"AAAA", "CCCC"},
		},
		{
			"no trailing newline",
			"AAAA",
			[]string{"AAAA"},
		},
		{
			"only headers",
			">h1\n>h2\n",
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(strings.NewReader(tt.input))
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Read() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_Read_longLine(t *testing.T) {
	first, last := fixtureReads[0], fixtureReads[1]
	input := first + "\n" + strings.Repeat("N", 5<<20) + "\n>" + strings.Repeat("h", 5<<20) + "\n" + last + "\n"

	got, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0] != first || got[2] != last {
		t.Fatalf("Read() returned %d reads, want the long line between %s and %s", len(got), first, last)
	}
	if len(got[1]) != MaxLine {
		t.Errorf("long line kept %d bytes, want %d", len(got[1]), MaxLine)
	}
	if _, _, err := mer.Split(got[1]); !errors.Is(err, mer.ErrInvalidRead) {
		t.Errorf("Split(long line) err = %v, want %v", err, mer.ErrInvalidRead)
	}
}

func Test_ReadFile(t *testing.T) {
	plain, err := os.ReadFile(filepath.Join("testdata", "reads.fa"))
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()

	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	gw.Write(plain)
	gw.Close()

	var zst bytes.Buffer
	zw, err := zstd.NewWriter(&zst)
	if err != nil {
		t.Fatal(err)
	}
	zw.Write(plain)
	zw.Close()

	files := map[string][]byte{
		"reads.fa":          plain,
		"reads.fa.gz":       gz.Bytes(),
		"reads.fa.zst":      zst.Bytes(),
		"gzip-no-extension": gz.Bytes(),
		"zstd-no-extension": zst.Bytes(),
	}
	for name, data := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, data, 0644); err != nil {
				t.Fatal(err)
			}

			got, err := ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, fixtureReads) {
				t.Errorf("ReadFile(%s) = %v, want %v", name, got, fixtureReads)
			}
		})
	}
}

func Test_ReadFile_missing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.fa")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadFile() err = %v, want a not-exist error", err)
	}
}

func Test_Write(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, []string{"ACGT", "GGGGGGGG"}); err != nil {
		t.Fatal(err)
	}

	want := ">contig1|size4\nACGT\n>contig2|size8\nGGGGGGGG\n"
	if buf.String() != want {
		t.Errorf("Write() = %q, want %q", buf.String(), want)
	}
}
