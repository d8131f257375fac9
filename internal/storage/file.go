package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/san-kum/sirsim/internal/export"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.txt"
	summaryFile    = "summary.csv"
)

// FileStore keeps one directory per run under baseDir.
type FileStore struct {
	baseDir string
}

func NewFileStore(baseDir string) *FileStore {
	return &FileStore{baseDir: baseDir}
}

func (s *FileStore) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *FileStore) Dir(id string) string {
	return filepath.Join(s.baseDir, id)
}

func (s *FileStore) Save(_ context.Context, run Run) (string, error) {
	id := run.Metadata.ID
	if err := validateID(id); err != nil {
		return "", err
	}
	meta, err := json.MarshalIndent(run.Metadata, "", "  ")
	if err != nil {
		return "", fmt.Errorf("storage: encode metadata: %w", err)
	}

	runDir := s.Dir(id)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", &export.SinkError{Path: runDir, Op: "mkdir", Err: err}
	}

	err = export.WriteFileAtomic(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		_, err := w.Write(append(meta, '\n'))
		return err
	})
	if err != nil {
		return "", err
	}

	err = export.WriteFileAtomic(filepath.Join(runDir, trajectoryFile), func(w io.Writer) error {
		return export.WriteTrajectory(w, run.Series)
	})
	if err != nil {
		return "", err
	}

	err = export.WriteFileAtomic(filepath.Join(runDir, summaryFile), func(w io.Writer) error {
		return export.WriteSummary(w, run.Series)
	})
	if err != nil {
		return "", err
	}

	return id, nil
}

// List returns every readable run, newest first. Directories without valid
// metadata are skipped.
func (s *FileStore) List(_ context.Context) ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), metadataFile))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *FileStore) Load(_ context.Context, id string) (*RunMetadata, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.Dir(id), metadataFile))
	if err != nil {
		return nil, notFound(id, err)
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: decode %s metadata: %w", id, err)
	}
	return &meta, nil
}

func (s *FileStore) LoadSeries(_ context.Context, id string) (*export.Series, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.Dir(id), summaryFile))
	if err != nil {
		return nil, notFound(id, err)
	}
	defer f.Close()

	series, err := export.ReadSummary(f)
	if err != nil {
		return nil, fmt.Errorf("storage: %s: %w", id, err)
	}
	return series, nil
}

func (s *FileStore) Close() error { return nil }

func notFound(id string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return err
}
