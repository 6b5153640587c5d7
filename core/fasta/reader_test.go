package fasta

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fixture = `; invalid-input fixtures
>hairpin | family=pk_free | expected=valid
GGGAAACCC
(((...)))

>mixed | family=k_type | expected=invalid | reason=two crossing families
AUGCAU
([{]})
>bare
acgu
`

func writeGz(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixtures.txt.gz")
	fh, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	gw := gzip.NewWriter(fh)
	if _, err := gw.Write([]byte(data)); err != nil {
		t.Fatalf("write gz: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	if err := fh.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
	return path
}

func TestReadRecords(t *testing.T) {
	var recs []Record
	err := ReadRecordsCtx(context.Background(), strings.NewReader(fixture), func(r Record) error {
		recs = append(recs, r)
		return nil
	})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("want 3 records, got %d", len(recs))
	}
	if recs[0].ID != "hairpin" || recs[0].Seq != "GGGAAACCC" || recs[0].Structure != "(((...)))" {
		t.Fatalf("record 0: %+v", recs[0])
	}
	if recs[0].Line != 2 {
		t.Fatalf("record 0 header line = %d", recs[0].Line)
	}
	if got := recs[1].Attr("reason"); got != "two crossing families" {
		t.Fatalf("reason attr = %q", got)
	}
	if got := recs[1].Attr("family"); got != "k_type" {
		t.Fatalf("family attr = %q", got)
	}
	if recs[2].Structure != "...." || recs[2].Seq != "acgu" {
		t.Fatalf("bare record: %+v", recs[2])
	}
}

func TestReadGzip(t *testing.T) {
	path := writeGz(t, fixture)
	recs, err := ReadAll(context.Background(), path)
	if err != nil {
		t.Fatalf("read gz: %v", err)
	}
	if len(recs) != 3 || recs[1].ID != "mixed" {
		t.Fatalf("gzip parse failed: %+v", recs)
	}
}

func TestReadStdin(t *testing.T) {
	orig := os.Stdin
	r, w, _ := os.Pipe()
	os.Stdin = r
	defer func() { os.Stdin = orig }()

	go func() {
		_, _ = io.WriteString(w, fixture)
		_ = w.Close()
	}()

	recs, err := ReadAll(context.Background(), "-")
	if err != nil {
		t.Fatalf("read stdin: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records from stdin, got %d", len(recs))
	}
	// the reader must leave stdin open for the caller
	if err := r.Close(); err != nil {
		t.Fatalf("stdin closed by reader: %v", err)
	}
}

func TestReadRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"data before header": "ACGU\n>x\nACGU\n",
		"no sequence":        ">x\n>y\nACGU\n",
		"extra line":         ">x\nACGU\n....\n....\n",
	}
	for name, in := range cases {
		err := ReadRecordsCtx(context.Background(), strings.NewReader(in), func(Record) error { return nil })
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestReadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n := 0
	err := ReadRecordsCtx(ctx, strings.NewReader(fixture), func(Record) error {
		n++
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no records after cancel, got %d", n)
	}
}

func TestEmitErrorStops(t *testing.T) {
	stop := errors.New("stop")
	n := 0
	err := ReadRecordsCtx(context.Background(), strings.NewReader(fixture), func(Record) error {
		n++
		return stop
	})
	if !errors.Is(err, stop) || n != 1 {
		t.Fatalf("want stop after one record, got n=%d err=%v", n, err)
	}
}

func TestMissingFile(t *testing.T) {
	_, err := ReadAll(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	if err == nil {
		t.Fatal("expected open error")
	}
}
