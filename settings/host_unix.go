//go:build unix

package settings

import (
	"golang.org/x/sys/unix"
)

func hostMachine() (string, error) {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return "", err
	}
	return unix.ByteSliceToString(u.Machine[:]), nil
}
