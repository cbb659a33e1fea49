//go:build !unix

package settings

import "runtime"

func hostMachine() (string, error) {
	return runtime.GOARCH, nil
}
