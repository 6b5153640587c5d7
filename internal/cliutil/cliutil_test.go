package cliutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	_ = os.WriteFile(a, []byte(">a\nA\n"), 0o644)
	_ = os.WriteFile(b, []byte(">b\nA\n"), 0o644)
	got, err := ExpandInputs([]string{a, filepath.Join(dir, "*.txt"), "-"})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	want := []string{a, b, "-"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestExpandInputsErrors(t *testing.T) {
	if _, err := ExpandInputs([]string{filepath.Join(t.TempDir(), "*.none")}); err == nil {
		t.Fatal("expected no-match error")
	}
	if _, err := ExpandInputs([]string{"-", "-"}); err == nil {
		t.Fatal("expected repeated stdin error")
	}
}
