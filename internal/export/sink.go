package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/san-kum/sirsim/internal/sim"
)

// SinkError reports a failed write to an output destination.
type SinkError struct {
	Path string
	Op   string
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("export: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *SinkError) Unwrap() []error {
	return []error{sim.ErrSinkUnavailable, e.Err}
}

// WriteFileAtomic runs fn against a temporary file next to path and renames
// it into place once fn and the sync succeed. On failure the temporary file
// is removed and path is left untouched.
func WriteFileAtomic(path string, fn func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return &SinkError{Path: path, Op: "create", Err: err}
	}
	tmp := f.Name()

	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	if err = fn(f); err != nil {
		return &SinkError{Path: path, Op: "write", Err: err}
	}
	if err = f.Sync(); err != nil {
		return &SinkError{Path: path, Op: "sync", Err: err}
	}
	if err = f.Close(); err != nil {
		return &SinkError{Path: path, Op: "close", Err: err}
	}
	if err = os.Chmod(tmp, 0644); err != nil {
		return &SinkError{Path: path, Op: "chmod", Err: err}
	}
	if err = os.Rename(tmp, path); err != nil {
		return &SinkError{Path: path, Op: "rename", Err: err}
	}
	return nil
}
