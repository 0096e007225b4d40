//go:build linux

package abi

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Mapped reports whether the whole record at p lies in mapped pages.
// mincore(2) fails with ENOMEM for any page outside the address space.
func Mapped(p unsafe.Pointer) bool {
	addr := uintptr(p)
	if addr == 0 {
		return false
	}

	size := uintptr(PageSize())
	start := addr &^ (size - 1)
	end := (addr + RecordSize + size - 1) &^ (size - 1)

	vec := make([]byte, (end-start)/size)
	_, _, errno := unix.Syscall(unix.SYS_MINCORE, start, end-start, uintptr(unsafe.Pointer(&vec[0])))
	return errno == 0
}
