//go:build !linux

package abi

import "unsafe"

// Mapped only rejects nil on platforms without a cheap residency query.
func Mapped(p unsafe.Pointer) bool {
	return p != nil
}
