// core/fasta/records.go
// Sequence/structure fixture records:
//
//	>id | key=value | key=value
//	SEQUENCE
//	STRUCTURE
//
// The structure line is optional; a record without one is all dots. Blank
// lines and lines starting with ';' are ignored.
package fasta

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
)

// Record is one fixture entry.
type Record struct {
	ID        string
	Attrs     map[string]string
	Seq       string
	Structure string
	Line      int // 1-based line of the header
}

// Attr returns a header attribute, "" when absent.
func (r Record) Attr(key string) string { return r.Attrs[key] }

// ReadRecordsCtx scans r and calls emit for each record. Cancellation is
// checked between lines. Returning an error from emit stops the scan.
func ReadRecordsCtx(ctx context.Context, r io.Reader, emit func(Record) error) error {
	sc := bufio.NewScanner(r)
	const maxLine = 64 * 1024 * 1024 // long single-line sequences (64 MiB)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		cur    *Record
		body   int
		lineNo int
	)
	flush := func() error {
		if cur == nil {
			return nil
		}
		if cur.Seq == "" {
			return fmt.Errorf("fasta: record %q at line %d has no sequence", cur.ID, cur.Line)
		}
		if cur.Structure == "" {
			cur.Structure = strings.Repeat(".", len(cur.Seq))
		}
		rec := *cur
		cur = nil
		return emit(rec)
	}

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 || line[0] == ';' {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return err
			}
			id, attrs := parseHeader(line[1:])
			cur = &Record{ID: id, Attrs: attrs, Line: lineNo}
			body = 0
			continue
		}
		if cur == nil {
			return fmt.Errorf("fasta: line %d: data before first header", lineNo)
		}
		switch body {
		case 0:
			cur.Seq = string(line)
		case 1:
			cur.Structure = string(line)
		default:
			return fmt.Errorf("fasta: record %q: unexpected extra line %d", cur.ID, lineNo)
		}
		body++
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("fasta scan: %w", err)
	}
	return flush()
}

// ReadPathCtx opens path (plain, gzip or "-") and reads its records.
func ReadPathCtx(ctx context.Context, path string, emit func(Record) error) error {
	rc, err := openReader(path)
	if err != nil {
		return err
	}
	defer rc.Close()
	return ReadRecordsCtx(ctx, rc, emit)
}

// ReadAll collects every record of path.
func ReadAll(ctx context.Context, path string) ([]Record, error) {
	var out []Record
	err := ReadPathCtx(ctx, path, func(r Record) error {
		out = append(out, r)
		return nil
	})
	return out, err
}

// parseHeader splits "id | k=v | k=v". The id is the first token of the
// first field; fields without '=' are kept with an empty value.
func parseHeader(hdr []byte) (string, map[string]string) {
	fields := strings.Split(string(hdr), "|")
	id := strings.TrimSpace(fields[0])
	if i := strings.IndexAny(id, " \t"); i >= 0 {
		id = id[:i]
	}
	attrs := make(map[string]string, len(fields)-1)
	for _, f := range fields[1:] {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		k, v, _ := strings.Cut(f, "=")
		attrs[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return id, attrs
}
