package settings

import (
	"maps"
	"runtime"

	"github.com/qiniu/x/log"
)

// Provider supplies axis values from somewhere outside the recipe, such
// as the host machine. Callers invoke a provider once and pass the result
// to Parse; no component reads host state on its own.
type Provider interface {
	Detect() (map[string]string, error)
}

// Static is a Provider returning fixed values.
type Static map[string]string

func (s Static) Detect() (map[string]string, error) {
	return maps.Clone(map[string]string(s)), nil
}

// Host detects os and arch of the running machine. Compiler and BuildType
// are copied through when non-empty; the host cannot tell which compiler or
// build type a user wants.
type Host struct {
	Compiler  string
	BuildType string
}

func (h Host) Detect() (map[string]string, error) {
	vals := make(map[string]string)
	if os := hostOS(runtime.GOOS); os != "" {
		vals[string(OS)] = os
	} else {
		log.Warnf("settings: unrecognized host os %q", runtime.GOOS)
	}
	machine, err := hostMachine()
	if err != nil {
		return nil, err
	}
	if arch := normalizeArch(machine); arch != "" {
		vals[string(Arch)] = arch
	} else {
		log.Warnf("settings: unrecognized host machine %q", machine)
	}
	if h.Compiler != "" {
		vals[string(Compiler)] = h.Compiler
	}
	if h.BuildType != "" {
		vals[string(BuildType)] = h.BuildType
	}
	log.Debugf("settings: detected host %v", vals)
	return vals, nil
}

func hostOS(goos string) string {
	switch goos {
	case "linux", "windows", "freebsd", "android", "ios":
		return goos
	case "darwin":
		return "macos"
	}
	return ""
}

// normalizeArch maps uname machine names and GOARCH values onto the arch
// domain.
func normalizeArch(machine string) string {
	switch machine {
	case "x86_64", "amd64":
		return "x86_64"
	case "i386", "i486", "i586", "i686", "x86", "386":
		return "x86"
	case "aarch64", "arm64", "armv8", "armv8l":
		return "armv8"
	case "armv7l", "armv7", "arm":
		return "armv7"
	case "riscv64":
		return "riscv64"
	case "ppc64le":
		return "ppc64le"
	case "s390x":
		return "s390x"
	case "wasm":
		return "wasm"
	}
	return ""
}
