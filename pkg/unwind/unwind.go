// Package unwind walks the frame-pointer chain of the current goroutine and
// yields the return addresses it finds, innermost first.
package unwind

import (
	"errors"
	"fmt"
	"iter"

	"fpwalk/pkg/abi"
)

// DefaultMaxDepth bounds the number of return addresses a walk reports.
const DefaultMaxDepth = 1024

var (
	ErrDepthExceeded = errors.New("frame chain exceeds maximum depth")
	ErrNotMonotonic  = errors.New("frame chain does not move toward higher addresses")
	ErrUnreadable    = errors.New("frame record is not readable")
)

// Walker produces frame sequences. A Walker must not be ranged over from
// more than one goroutine at a time.
type Walker struct {
	conv     abi.Convention
	maxDepth int
	probe    abi.Probe
	err      error
}

type Option func(*Walker)

// WithConvention overrides the build-selected calling convention.
func WithConvention(c abi.Convention) Option {
	return func(w *Walker) {
		w.conv = c
	}
}

// WithMaxDepth caps the number of return addresses. Zero or less removes the cap.
func WithMaxDepth(n int) Option {
	return func(w *Walker) {
		w.maxDepth = n
	}
}

// WithProbe sets the readability check run before each record is read.
// A nil probe reads records unchecked.
func WithProbe(p abi.Probe) Option {
	return func(w *Walker) {
		w.probe = p
	}
}

// New creates a Walker for the native calling convention unless one is given.
func New(opts ...Option) (*Walker, error) {
	w := &Walker{
		maxDepth: DefaultMaxDepth,
		probe:    abi.Mapped,
	}
	for _, opt := range opts {
		opt(w)
	}

	if w.conv == nil {
		conv, err := abi.Native()
		if err != nil {
			return nil, fmt.Errorf("frame walker: %w", err)
		}
		w.conv = conv
	}

	return w, nil
}

// Convention returns the name of the calling convention in use.
func (w *Walker) Convention() string {
	return w.conv.Name()
}

// Err returns the reason the last walk stopped early, or nil if it reached
// the outermost record or was stopped by the consumer.
func (w *Walker) Err() error {
	return w.err
}

// Frames returns the frame sequence of the function ranging over it.
//
// Index 0 carries the address of the walker's own frame record. Every later
// index carries the return address of one active call, starting with the
// return into the ranging function. The sequence ends at the first record
// whose caller link is nil.
//
// The anchor is read when iteration starts, so the sequence must be ranged
// over where it should describe the stack, not stored and replayed elsewhere.
//
//go:noinline
func (w *Walker) Frames() iter.Seq2[int, uintptr] {
	return func(yield func(int, uintptr) bool) {
		w.err = nil

		fp := w.conv.Anchor()
		if fp == nil {
			w.err = fmt.Errorf("%w: nil anchor", ErrUnreadable)
			return
		}
		if !yield(0, uintptr(fp)) {
			return
		}

		for i := 1; ; i++ {
			if w.probe != nil && !w.probe(fp) {
				w.err = fmt.Errorf("%w: %#x", ErrUnreadable, uintptr(fp))
				return
			}

			prev, ret := w.conv.Next(fp)
			if prev == nil {
				return
			}
			if w.maxDepth > 0 && i > w.maxDepth {
				w.err = fmt.Errorf("%w: %d", ErrDepthExceeded, w.maxDepth)
				return
			}
			if uintptr(prev) <= uintptr(fp) {
				w.err = fmt.Errorf("%w: %#x -> %#x", ErrNotMonotonic, uintptr(fp), uintptr(prev))
				return
			}

			if !yield(i, ret) {
				return
			}
			fp = prev
		}
	}
}

// Addr formats an address the way the trace prints it.
func Addr(a uintptr) string {
	return fmt.Sprintf("%#x", a)
}
