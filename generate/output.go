package generate

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/qiniu/x/log"

	"github.com/goplus/recipe/pkgs/errs"
)

// stage holds the files of one invocation until they are committed.
type stage struct {
	paths []string
	data  map[string][]byte
}

func newStage() *stage {
	return &stage{data: make(map[string][]byte)}
}

func (s *stage) put(path string, data []byte) {
	if _, ok := s.data[path]; !ok {
		s.paths = append(s.paths, path)
	}
	s.data[path] = bytes.Clone(data)
}

func (s *stage) get(path string) ([]byte, bool) {
	data, ok := s.data[path]
	return data, ok
}

// run is the state shared by the invocations of one Invoker.
type run struct {
	// written maps absolute paths to what this run wrote there, and owner
	// to the kind that wrote them.
	written map[string][]byte
	owner   map[string]string
	man     *manifest
}

func absUnder(dir, path string) string {
	path = filepath.FromSlash(path)
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(dir, path)
}

// check reports errs.ErrOutputConflict for the first staged file that
// would clobber something this invocation does not own: a different file
// written by an earlier invocation of the run, or a file on disk that no
// generator wrote.
func (r *run) check(buildDir string, st *stage) error {
	for _, path := range st.paths {
		data := st.data[path]
		if prev, ok := r.written[path]; ok {
			if !bytes.Equal(prev, data) {
				return fmt.Errorf("%w: %s already written by %s in this run", errs.ErrOutputConflict, path, r.owner[path])
			}
			continue
		}
		old, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return err
		}
		if bytes.Equal(old, data) {
			continue
		}
		if _, ok := r.man.get(manifestPath(buildDir, path)); !ok {
			return fmt.Errorf("%w: %s exists and was not generated", errs.ErrOutputConflict, path)
		}
	}
	return nil
}

// commit moves the staged files into place, followed by the manifest
// content man at manPath. Each file is first written to a temporary file
// next to its target; only when all of them are written are they renamed.
// If anything fails, the temporary files are removed and every target
// renamed so far is restored: files that existed before get their old
// content back, new ones are removed.
func commit(st *stage, manPath string, man []byte) (err error) {
	paths := append(slices.Clone(st.paths), manPath)
	data := make([][]byte, 0, len(paths))
	for _, path := range st.paths {
		data = append(data, st.data[path])
	}
	data = append(data, man)

	tmps := make([]string, 0, len(paths))
	var renamed []string
	prev := make(map[string][]byte)
	defer func() {
		if err == nil {
			return
		}
		for _, tmp := range tmps {
			_ = os.Remove(tmp)
		}
		for _, path := range renamed {
			log.Debugf("generate: rollback %s", path)
			if old, ok := prev[path]; ok {
				_ = atomicWriteFile(path, old)
			} else {
				_ = os.Remove(path)
			}
		}
	}()

	for i, path := range paths {
		if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		var tmp string
		tmp, err = writeTemp(path, data[i])
		if err != nil {
			return err
		}
		tmps = append(tmps, tmp)
	}
	for _, path := range paths {
		if fi, serr := os.Lstat(path); serr == nil && fi.Mode().IsRegular() {
			if prev[path], err = os.ReadFile(path); err != nil {
				return err
			}
		}
	}
	for i, path := range paths {
		if err = os.Rename(tmps[i], path); err != nil {
			return err
		}
		renamed = append(renamed, path)
	}
	return nil
}

// writeTemp writes content to a temp file in the directory of path and
// returns its name.
func writeTemp(path string, content []byte) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return "", err
	}
	name := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return "", err
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return "", err
	}
	return name, nil
}

// atomicWriteFile writes content to path by writing to a temp file in the
// same directory and then renaming it over the destination.
func atomicWriteFile(path string, content []byte) error {
	tmp, err := writeTemp(path, content)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
