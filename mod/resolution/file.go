// Package resolution reads resolution files: the resolved dependency data a
// package manager writes after solving a recipe's requirements.
//
// A resolution file is YAML, keyed by the settings matrix key it was
// resolved for:
//
//	version: 1
//	profiles:
//	  x86_64-release-gcc-11-linux:
//	    packages:
//	      catch2:
//	        version: 3.5.3
//	        root: /home/me/.cache/pkgs/catch2@3.5.3
//	        include_dirs: [include]
//	        lib_dirs: [lib]
//	        libs: [Catch2Main, Catch2]
package resolution

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// FormatVersion is the only resolution file format understood.
const FormatVersion = 1

// File represents a parsed resolution file.
type File struct {
	Version  int                 `yaml:"version"`
	Profiles map[string]*Profile `yaml:"profiles"`
}

// Profile holds the packages resolved for one settings matrix.
type Profile struct {
	Packages map[string]*Package `yaml:"packages"`
}

// Package describes one resolved package. Relative directories are relative
// to Root.
type Package struct {
	Version     string   `yaml:"version"`
	Root        string   `yaml:"root"`
	IncludeDirs []string `yaml:"include_dirs,omitempty"`
	LibDirs     []string `yaml:"lib_dirs,omitempty"`
	BinDirs     []string `yaml:"bin_dirs,omitempty"`
	Libs        []string `yaml:"libs,omitempty"`
	Defines     []string `yaml:"defines,omitempty"`
	LinkFlags   []string `yaml:"link_flags,omitempty"`
	// Errors are resolution failures the package manager recorded for this
	// package instead of failing the whole file.
	Errors []string `yaml:"errors,omitempty"`
}

// Parse reads and parses a resolution file from either provided data or a file path.
// If data is non-nil, it is used directly and the file parameter is ignored.
// Otherwise, the file is read from the provided path.
func Parse(file string, data []byte) (*File, error) {
	var reader io.Reader

	if data != nil {
		reader = bytes.NewReader(data)
	} else {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		reader = f
	}

	var rf File
	dec := yaml.NewDecoder(reader)
	dec.KnownFields(true)
	if err := dec.Decode(&rf); err != nil {
		return nil, fmt.Errorf("failed to parse resolution file %s: %w", file, err)
	}
	if rf.Version != FormatVersion {
		return nil, fmt.Errorf("failed to parse resolution file %s: unsupported version %d", file, rf.Version)
	}
	return &rf, nil
}

// Profile returns the profile resolved for the settings key.
func (f *File) Profile(key string) (*Profile, bool) {
	p, ok := f.Profiles[key]
	if !ok || p == nil {
		return nil, false
	}
	return p, true
}
