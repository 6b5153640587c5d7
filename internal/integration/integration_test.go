// internal/integration/integration_test.go
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cparty/internal/app"
	"cparty/internal/store"
	"cparty/pkg/api"
)

const fixtures = `>hairpin | family=pk_free | expected=valid
GAAAAC
(....)
>stem | family=pk_free | expected=valid
GGGGAAAACCCC
((((....))))
>bad | expected=invalid | reason=non-AUGC symbol
GAXAAC
(....)
`

func write(t *testing.T, name, data string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(fn, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", fn, err)
	}
	return fn
}

func run(t *testing.T, argv ...string) (int, string, string) {
	t.Helper()
	var out, errBuf bytes.Buffer
	code := app.Run(argv, &out, &errBuf)
	return code, out.String(), errBuf.String()
}

func decodeJSONL(t *testing.T, s string) []api.ResultV1 {
	t.Helper()
	var rs []api.ResultV1
	for _, line := range strings.Split(strings.TrimSpace(s), "\n") {
		var r api.ResultV1
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			t.Fatalf("decode %q: %v", line, err)
		}
		rs = append(rs, r)
	}
	return rs
}

func TestEnergySingleSequence(t *testing.T) {
	code, out, errS := run(t, "energy", "--seq", "GAAAAC", "--structure", "(....)")
	if code != app.ExitOK {
		t.Fatalf("exit %d, err=%s", code, errS)
	}
	if !strings.Contains(out, "energy=3.70 kcal/mol") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestRejectedRecordsExit4(t *testing.T) {
	fn := write(t, "fx.txt", fixtures)
	code, out, errS := run(t, "energy", "-i", fn, "--format", "jsonl")
	if code != app.ExitRejected {
		t.Fatalf("want exit %d, got %d (err=%s)", app.ExitRejected, code, errS)
	}
	rs := decodeJSONL(t, out)
	if len(rs) != 3 {
		t.Fatalf("want 3 results, got %d", len(rs))
	}
	if rs[0].ID != "hairpin" || rs[1].ID != "stem" || rs[2].ID != "bad" {
		t.Fatalf("order not preserved: %s %s %s", rs[0].ID, rs[1].ID, rs[2].ID)
	}
	if rs[2].Status != api.StatusRejected || rs[2].EnergyKcal != nil {
		t.Fatalf("bad record not rejected: %+v", rs[2])
	}
	if rs[0].RunID == "" || rs[0].RunID != rs[2].RunID {
		t.Fatalf("run ids not shared: %q %q", rs[0].RunID, rs[2].RunID)
	}
	if !strings.Contains(errS, "WARN: 1 of 3 records rejected") {
		t.Fatalf("missing warning: %s", errS)
	}

	code, _, errS = run(t, "energy", "-i", fn, "--quiet")
	if code != app.ExitRejected || strings.Contains(errS, "WARN") {
		t.Fatalf("quiet run: exit %d, err=%q", code, errS)
	}
}

func TestUsageErrorsExit2(t *testing.T) {
	fn := write(t, "fx.txt", fixtures)
	cases := [][]string{
		{"nonsense"},
		{"energy"},
		{"energy", "-i", fn, "--dangles", "1"},
		{"energy", "-i", fn, "--pk-free", "--pk-only"},
		{"energy", "-i", fn, "--format", "xml"},
		{"energy", "--structure", "...."},
		{"energy", "--seq", "ACGU", fn},
		{"parse", "-i", fn, "--slice", "e"},
		{"fold", "-i", fn, "--threads", "x"},
		{"plan", "extra"},
	}
	for _, argv := range cases {
		code, _, errS := run(t, argv...)
		if code != app.ExitUsage {
			t.Fatalf("%v: want exit 2, got %d (err=%s)", argv, code, errS)
		}
		if !strings.Contains(errS, "ERROR: ") {
			t.Fatalf("%v: no error message: %s", argv, errS)
		}
	}
}

func TestIOErrorsExit3(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.txt")
	if code, _, _ := run(t, "fold", "-i", missing); code != app.ExitIO {
		t.Fatalf("missing input: want 3, got %d", code)
	}
	bad := write(t, "bad.yaml", "stack: [1, 2")
	if code, _, _ := run(t, "energy", "--seq", "GAAAAC", "--structure", "(....)", "--params", bad); code != app.ExitIO {
		t.Fatalf("bad params: want 3, got %d", code)
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&b, ">r%d\nGGGAAAUCCC%s\n\n", i, strings.Repeat("A", i))
	}
	fn := write(t, "many.txt", b.String())
	render := func(threads int) string {
		code, out, errS := run(t, "fold", "-i", fn, "--threads", fmt.Sprint(threads), "--format", "tsv")
		if code != app.ExitOK {
			t.Fatalf("exit %d err %s", code, errS)
		}
		return out
	}
	serial, parallel := render(1), render(4)
	if serial != parallel {
		t.Fatalf("parallel output differs:\n%s\nvs\n%s", serial, parallel)
	}
	if n := strings.Count(serial, "\n"); n != 13 {
		t.Fatalf("want header plus 12 rows, got %d lines", n)
	}
}

func TestParseTraceAndPlan(t *testing.T) {
	code, out, errS := run(t, "parse", "--seq", "AUGCUA", "--structure", "((..))", "--trace")
	if code != app.ExitOK {
		t.Fatalf("exit %d err %s", code, errS)
	}
	if !strings.Contains(out, "score=-2.0") || !strings.Contains(out, "V_PAIR_WRAPPED") {
		t.Fatalf("unexpected parse output:\n%s", out)
	}

	code, out, _ = run(t, "parse", "--seq", "AUGC", "--structure", "()()", "--slice", "a")
	if code != app.ExitRejected || !strings.Contains(out, "candidates=") {
		t.Fatalf("slice-a selection failure not reported: %d\n%s", code, out)
	}

	code, out, _ = run(t, "plan")
	if code != app.ExitOK || !strings.Contains(out, "ZW\t013") || !strings.Contains(out, "BE\t017") {
		t.Fatalf("plan: %d\n%s", code, out)
	}
}

func TestDatabaseAndMetrics(t *testing.T) {
	fn := write(t, "fx.txt", fixtures)
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "runs.db")
	promPath := filepath.Join(dir, "cparty.prom")

	code, out, errS := run(t, "energy", "-i", fn, "--format", "jsonl", "--db", dbPath, "--metrics-file", promPath, "-q")
	if code != app.ExitRejected {
		t.Fatalf("exit %d err %s", code, errS)
	}
	runID := decodeJSONL(t, out)[0].RunID

	s, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer s.Close()
	got, err := s.Results(runID)
	if err != nil || len(got) != 3 {
		t.Fatalf("stored results: %d err=%v", len(got), err)
	}
	r, err := s.GetRun(runID)
	if err != nil || r.Records != 3 || r.Rejected != 1 || r.Command != "energy" {
		t.Fatalf("stored run: %+v err=%v", r, err)
	}

	prom, err := os.ReadFile(promPath)
	if err != nil {
		t.Fatalf("metrics file: %v", err)
	}
	if !strings.Contains(string(prom), "cparty_folds_total") || !strings.Contains(string(prom), "cparty_rejections_total") {
		t.Fatalf("metrics missing counters:\n%s", prom)
	}
}

func TestVersionAndHelp(t *testing.T) {
	code, out, _ := run(t, "--version")
	if code != app.ExitOK || !strings.Contains(out, "dev") {
		t.Fatalf("version: %d %q", code, out)
	}
	code, out, _ = run(t, "--help")
	if code != app.ExitOK || !strings.Contains(out, "logprob") {
		t.Fatalf("help: %d %q", code, out)
	}
}
