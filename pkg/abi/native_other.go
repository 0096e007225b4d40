//go:build !amd64 && !arm64

package abi

import (
	"fmt"
	"runtime"
)

// Native returns ErrUnsupported: the Go toolchain keeps frame pointers only on
// amd64 and arm64.
func Native() (Convention, error) {
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, runtime.GOARCH)
}
