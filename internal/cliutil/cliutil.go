// internal/cliutil/cliutil.go
package cliutil

import (
	"fmt"
	"path/filepath"
	"strings"
)

func hasGlobMeta(s string) bool { return strings.ContainsAny(s, "*?[") }

// ExpandInputs expands globs among input paths, keeps "-" (stdin) as is and
// drops repeats while preserving first-seen order. Stdin may appear once.
func ExpandInputs(args []string) ([]string, error) {
	var (
		out  []string
		seen = map[string]bool{}
	)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	stdin := 0
	for _, a := range args {
		switch {
		case a == "-":
			stdin++
			if stdin > 1 {
				return nil, fmt.Errorf("stdin (-) given more than once")
			}
			add(a)
		case hasGlobMeta(a):
			m, err := filepath.Glob(a)
			if err != nil {
				return nil, fmt.Errorf("bad glob %q: %v", a, err)
			}
			if len(m) == 0 {
				return nil, fmt.Errorf("no input matched %q", a)
			}
			for _, p := range m {
				add(p)
			}
		default:
			add(a)
		}
	}
	return out, nil
}
