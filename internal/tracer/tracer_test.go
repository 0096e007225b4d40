//go:build amd64 || arm64

package tracer

import (
	"bytes"
	"encoding/json"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"fpwalk/internal/report"
	"fpwalk/pkg/color"

	"github.com/charmbracelet/log"
)

var lineRe = regexp.MustCompile(`^#(\d+): 0x([0-9a-f]+)$`)

type line struct {
	index int
	addr  uintptr
}

func parseTrace(t *testing.T, out string) []line {
	t.Helper()
	var lines []line
	for _, text := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		m := lineRe.FindStringSubmatch(text)
		if m == nil {
			t.Fatalf("malformed trace line %q", text)
		}
		index, _ := strconv.Atoi(m[1])
		addr, err := strconv.ParseUint(m[2], 16, 64)
		if err != nil {
			t.Fatalf("malformed address in %q: %v", text, err)
		}
		lines = append(lines, line{index, uintptr(addr)})
	}
	return lines
}

func runText(t *testing.T, tr *Tracer) []line {
	t.Helper()
	defer color.EnableColor(color.IsColorEnabled())
	color.EnableColor(false)

	var buf bytes.Buffer
	tr.Output = &buf
	if err := tr.Trace(); err != nil {
		t.Fatalf("Trace: %v", err)
	}
	return parseTrace(t, buf.String())
}

func funcName(ret uintptr) string {
	fn := runtime.FuncForPC(ret - 1)
	if fn == nil {
		return ""
	}
	return fn.Name()
}

func TestTraceText(t *testing.T) {
	lines := runText(t, &Tracer{})

	if len(lines) < 5 {
		t.Fatalf("expected at least 5 lines, got %d", len(lines))
	}
	for i, l := range lines {
		if l.index != i {
			t.Errorf("line %d: expected index %d, got %d", i, i, l.index)
		}
	}

	expected := []string{
		"fpwalk/internal/tracer.inner",
		"fpwalk/internal/tracer.outer",
		"fpwalk/internal/tracer.(*Tracer).Trace",
	}
	for i, name := range expected {
		if got := funcName(lines[i+1].addr); got != name {
			t.Errorf("#%d: expected return into %s, got %s", i+1, name, got)
		}
	}
}

func TestTraceCollapseDropsOneFrame(t *testing.T) {
	var counts [2]int
	for i, collapse := range []bool{false, true} {
		counts[i] = len(runText(t, &Tracer{Collapse: collapse}))
	}

	if counts[1] != counts[0]-1 {
		t.Errorf("expected collapse to print one line fewer, got %d and %d", counts[0], counts[1])
	}
}

func TestTraceMaxDepth(t *testing.T) {
	var logs bytes.Buffer
	defer log.SetDefault(log.Default())
	log.SetDefault(log.NewWithOptions(&logs, log.Options{Level: log.WarnLevel}))

	lines := runText(t, &Tracer{MaxDepth: 2})
	if len(lines) != 3 {
		t.Errorf("expected 3 lines, got %d", len(lines))
	}
	if !strings.Contains(logs.String(), "stopped early") {
		t.Errorf("expected a warning about the depth cap, got %q", logs.String())
	}
}

func TestTraceCrossCheck(t *testing.T) {
	var logs bytes.Buffer
	defer log.SetDefault(log.Default())
	log.SetDefault(log.NewWithOptions(&logs, log.Options{Level: log.InfoLevel}))

	runText(t, &Tracer{CrossCheck: true})
	if !strings.Contains(logs.String(), "Cross-check against runtime.Callers passed") {
		t.Errorf("expected cross-check to pass, got %q", logs.String())
	}

	logs.Reset()
	runText(t, &Tracer{CrossCheck: true, Collapse: true})
	if !strings.Contains(logs.String(), "Skipping cross-check") {
		t.Errorf("expected cross-check to be skipped in collapse mode, got %q", logs.String())
	}
}

func TestTraceUnchecked(t *testing.T) {
	checked := runText(t, &Tracer{})
	unchecked := runText(t, &Tracer{Unchecked: true})

	if len(checked) != len(unchecked) {
		t.Errorf("expected the probe not to change the walk, got %d and %d lines", len(checked), len(unchecked))
	}
}

func TestTraceJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := &Tracer{Format: "json", Output: &buf}
	if err := tr.Trace(); err != nil {
		t.Fatalf("Trace: %v", err)
	}

	var trace report.Trace
	if err := json.Unmarshal(buf.Bytes(), &trace); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}

	if want := runtime.GOARCH + "-fp"; trace.Convention != want {
		t.Errorf("expected convention %s, got %s", want, trace.Convention)
	}
	if !strings.HasPrefix(trace.Anchor, "0x") {
		t.Errorf("expected hex anchor, got %q", trace.Anchor)
	}
	if len(trace.Frames) < 4 {
		t.Fatalf("expected at least 4 frames, got %d", len(trace.Frames))
	}
	for i, f := range trace.Frames {
		if f.Index != i+1 {
			t.Errorf("frame %d: expected index %d, got %d", i, i+1, f.Index)
		}
	}
}

func TestTraceUnknownFormat(t *testing.T) {
	tr := &Tracer{Format: "xml", Output: &bytes.Buffer{}}
	if err := tr.Trace(); err == nil {
		t.Error("expected an error for an unknown format")
	}
}
