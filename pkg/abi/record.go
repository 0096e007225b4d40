package abi

import "unsafe"

// Record is the two-word frame record pushed by a function prologue: the
// caller's saved frame pointer followed by the return address into the
// caller. The saved frame pointer lives at the lower address.
type Record struct {
	Prev   unsafe.Pointer // caller's record, nil at the outermost frame
	Return uintptr        // resume address in the caller
}

// RecordSize is the size in bytes of a Record.
const RecordSize = unsafe.Sizeof(Record{})

// Step reads the record at fp.
func Step(fp unsafe.Pointer) (prev unsafe.Pointer, ret uintptr) {
	r := (*Record)(fp)
	return r.Prev, r.Return
}
