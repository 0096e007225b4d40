//go:build unix

package abi

import "golang.org/x/sys/unix"

// PageSize returns the memory page size of the host.
func PageSize() int {
	return unix.Getpagesize()
}
