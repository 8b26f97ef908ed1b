package extract

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Workdir is the temporary extraction directory for one input. It has
// single-owner semantics: created at the start of processing, removed on
// every exit path, and never left referencing a directory that no longer
// exists.
type Workdir struct {
	path string
}

// NewWorkdir creates a fresh extraction directory. The name is salted
// with the process id plus a random suffix so concurrent runs cannot
// collide.
func NewWorkdir() (*Workdir, error) {
	path, err := os.MkdirTemp("", fmt.Sprintf("epubtext.%d.*", os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("cannot create temporary directory: %w", err)
	}
	return &Workdir{path: path}, nil
}

// Path returns the extraction root.
func (w *Workdir) Path() string {
	return w.path
}

// Remove deletes the directory and everything under it. Safe to call
// more than once; after the first call the handle is cleared.
func (w *Workdir) Remove() error {
	if w.path == "" {
		return nil
	}
	err := os.RemoveAll(w.path)
	w.path = ""
	return err
}

// RestrictPermissions normalizes modes over the extracted tree: owner
// read/write, group and other read, no group/other write. Directories
// and files that were executable keep their execute bits for all.
func (w *Workdir) RestrictPermissions() error {
	return filepath.WalkDir(w.path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		mode := os.FileMode(0o644)
		if d.IsDir() || info.Mode()&0o111 != 0 {
			mode = 0o755
		}
		return os.Chmod(path, mode)
	})
}
