package abi

import (
	"errors"
	"unsafe"
)

// ErrUnsupported is returned by Native when the target architecture does not
// keep a frame-pointer chain.
var ErrUnsupported = errors.New("no frame-pointer calling convention for this architecture")

// Convention describes how frame records are found and linked on a target.
type Convention interface {
	// Name returns a short identifier such as "amd64-fp".
	Name() string

	// Anchor returns the frame record of the function that called Anchor.
	// The record is only valid while that function is active.
	Anchor() unsafe.Pointer

	// Next reads the record at fp and returns the caller's record together
	// with the return address into the caller. prev is nil at the outermost
	// record.
	Next(fp unsafe.Pointer) (prev unsafe.Pointer, ret uintptr)
}

// Probe reports whether the frame record at p can be read.
type Probe func(p unsafe.Pointer) bool
