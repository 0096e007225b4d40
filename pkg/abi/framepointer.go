//go:build amd64 || arm64

package abi

import (
	"runtime"
	"unsafe"
)

// getfp returns the frame pointer register of its caller.
// Implemented in getfp_$GOARCH.s as a frameless stub.
func getfp() unsafe.Pointer

type framePointer struct {
	name string
}

// Native returns the frame-pointer convention of the running binary.
func Native() (Convention, error) {
	return &framePointer{name: runtime.GOARCH + "-fp"}, nil
}

func (f *framePointer) Name() string {
	return f.name
}

// Anchor reads its own record and follows one link, which yields the record
// of the caller.
//
//go:noinline
func (f *framePointer) Anchor() unsafe.Pointer {
	prev, _ := Step(getfp())
	return prev
}

func (f *framePointer) Next(fp unsafe.Pointer) (unsafe.Pointer, uintptr) {
	return Step(fp)
}
