package generate

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Build directory layout:
//
//	buildDir/
//	  .recipe-manifest.json   # files generators own: relative path → entry
//	  toolchain.cmake
//	  dependencies.cmake
//	  ...
const ManifestFile = ".recipe-manifest.json"

// manifestEntry records one generated file.
type manifestEntry struct {
	Kind   string `json:"kind"`
	SHA256 string `json:"sha256"`
}

// manifest maps build-dir relative, slash separated paths to the entry of
// the generator that last wrote them.
type manifest struct {
	Files map[string]*manifestEntry `json:"files"`
}

func (m *manifest) get(rel string) (*manifestEntry, bool) {
	e, ok := m.Files[rel]
	return e, ok
}

func (m *manifest) set(rel string, e *manifestEntry) {
	if m.Files == nil {
		m.Files = make(map[string]*manifestEntry)
	}
	m.Files[rel] = e
}

func (m *manifest) clone() *manifest {
	c := &manifest{Files: make(map[string]*manifestEntry, len(m.Files))}
	for rel, e := range m.Files {
		c.Files[rel] = e
	}
	return c
}

func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// loadManifest reads the manifest from buildDir. A missing manifest is an
// empty one.
func loadManifest(buildDir string) (*manifest, error) {
	data, err := os.ReadFile(filepath.Join(buildDir, ManifestFile))
	if errors.Is(err, fs.ErrNotExist) {
		return &manifest{}, nil
	}
	if err != nil {
		return nil, err
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// encode returns the manifest file content.
func (m *manifest) encode() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// manifestPath returns the key of abs in the manifest of buildDir.
func manifestPath(buildDir, abs string) string {
	rel, err := filepath.Rel(buildDir, abs)
	if err != nil {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}
