package recipe

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// -----------------------------------------------------------------------------

// Project represents the source tree a recipe belongs to.
type Project struct {
	Dir   string
	DirFS fs.FS
}

// OpenProject returns the project rooted at dir.
func OpenProject(dir string) *Project {
	return &Project{Dir: dir, DirFS: os.DirFS(dir)}
}

// ReadFile reads the content of a file in the project.
func (p *Project) ReadFile(path string) ([]byte, error) {
	file, err := p.DirFS.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

// Recipe loads the recipe file name of the project, normally FileName.
func (p *Project) Recipe(name string) (*Recipe, error) {
	src, err := p.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return Parse(filepath.Join(p.Dir, name), src)
}

// -----------------------------------------------------------------------------
