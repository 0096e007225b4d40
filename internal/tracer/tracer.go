package tracer

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"fpwalk/internal/report"
	"fpwalk/pkg/unwind"

	"github.com/charmbracelet/log"
)

type Tracer struct {
	Help       bool      // Show help message
	Verbose    bool      // Enable debug logging
	NoColor    bool      // Disable colored output
	Format     string    // Output format: text, json or yaml
	MaxDepth   int       // Maximum number of return addresses, 0 for no cap
	Collapse   bool      // Let the compiler fold the outer frame into Trace
	CrossCheck bool      // Compare the walk against runtime.Callers
	Unchecked  bool      // Read frame records without probing them first
	LogFile    string    // Optional rotating log file
	Output     io.Writer // Destination of the trace, stdout if nil
}

// Trace walks the frame chain from two call levels below itself and prints
// every frame as it is found.
func (t *Tracer) Trace() error {
	out := t.Output
	if out == nil {
		out = os.Stdout
	}

	opts := []unwind.Option{unwind.WithMaxDepth(t.MaxDepth)}
	if t.Unchecked {
		opts = append(opts, unwind.WithProbe(nil))
	}

	w, err := unwind.New(opts...)
	if err != nil {
		return err
	}

	p, err := report.New(report.Format(t.Format), out, w.Convention())
	if err != nil {
		return err
	}

	log.Debug("Walking frame chain", "convention", w.Convention(), "max_depth", t.MaxDepth, "collapse", t.Collapse)

	var frames int
	if t.Collapse {
		frames, err = outerInlined(t, w, p)
	} else {
		frames, err = outer(t, w, p)
	}
	if err != nil {
		return err
	}

	if err := p.Close(); err != nil {
		return fmt.Errorf("write trace: %w", err)
	}

	if walkErr := w.Err(); walkErr != nil {
		log.Warn("Frame chain walk stopped early", "frames", frames, "error", walkErr)
	} else {
		log.Debug("Frame chain walk finished", "frames", frames)
	}

	return nil
}

// outer adds one frame between Trace and the walk.
//
//go:noinline
func outer(t *Tracer, w *unwind.Walker, p report.Printer) (int, error) {
	return inner(t, w, p)
}

// outerInlined is small enough for the compiler to inline into Trace, which
// removes its frame record from the chain.
func outerInlined(t *Tracer, w *unwind.Walker, p report.Printer) (int, error) {
	return inner(t, w, p)
}

// inner performs the walk. It returns the number of lines printed.
//
//go:noinline
func inner(t *Tracer, w *unwind.Walker, p report.Printer) (int, error) {
	var rets []uintptr
	lines := 0

	for i, addr := range w.Frames() {
		var err error
		if i == 0 {
			err = p.Anchor(addr)
		} else {
			err = p.Return(i, addr)
			rets = append(rets, addr)
		}
		if err != nil {
			return lines, fmt.Errorf("write frame #%d: %w", i, err)
		}
		lines++
	}

	if t.CrossCheck {
		pcs := make([]uintptr, len(rets)+8)
		n := runtime.Callers(1, pcs)
		crossCheck(t, rets, pcs[:n])
	}

	return lines, nil
}

func crossCheck(t *Tracer, rets, callers []uintptr) {
	if t.Collapse {
		log.Warn("Skipping cross-check: inlined frames have no frame record", "walked", len(rets), "callers", len(callers))
		return
	}

	if err := unwind.CrossCheck(rets, callers); err != nil {
		log.Warn("Cross-check against runtime.Callers failed", "error", err)
		return
	}
	log.Info("Cross-check against runtime.Callers passed", "frames", len(rets))
}
