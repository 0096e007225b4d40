package unwind

import (
	"errors"
	"fmt"
)

// ErrShortCallers is returned by CrossCheck when the independent capture has
// fewer entries than the walk.
var ErrShortCallers = errors.New("callers capture is shorter than the walk")

// MismatchError reports the first return address on which a walk and
// runtime.Callers disagree.
type MismatchError struct {
	Index   int
	Walked  uintptr
	Callers uintptr
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("frame #%d: walked %s, runtime.Callers %s", e.Index, Addr(e.Walked), Addr(e.Callers))
}

// CrossCheck compares the return addresses of a walk ranged over in some
// function F against runtime.Callers(1, ...) captured in F.
//
// walked holds indexes 1..N of the walk. Entry 0 of both slices is skipped:
// both are return addresses into F, but from different call sites. The last
// walked entry is skipped too: it returns into the goroutine's entry
// function, which runtime.Callers hides when the compiler generated it for a
// go statement. callers may carry trailing entries the chain does not reach,
// such as the goroutine exit trampoline.
func CrossCheck(walked, callers []uintptr) error {
	last := len(walked) - 1
	if len(callers) < last {
		return fmt.Errorf("%w: %d < %d", ErrShortCallers, len(callers), last)
	}

	for i := 1; i < last; i++ {
		if walked[i] != callers[i] {
			return &MismatchError{Index: i + 1, Walked: walked[i], Callers: callers[i]}
		}
	}

	return nil
}
