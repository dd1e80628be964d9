package operations

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileReporter is a Reporter persisting reports as a JSON array in a file. Reports already in the
// file are loaded on creation, so a later run can skip the operations an earlier run completed.
type FileReporter struct {
	mem  *MemoryReporter
	path string

	mu sync.Mutex
}

var _ Reporter = (*FileReporter)(nil)

// NewFileReporter creates a FileReporter backed by path. A missing file is treated as empty.
func NewFileReporter(path string) (*FileReporter, error) {
	reports, err := readReports(path)
	if err != nil {
		return nil, err
	}

	return &FileReporter{
		mem:  NewMemoryReporter(WithReports(reports)),
		path: path,
	}, nil
}

// AddReport adds the report and rewrites the file.
func (f *FileReporter) AddReport(report Report[any, any]) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.mem.AddReport(report); err != nil {
		return err
	}

	reports, err := f.mem.GetReports()
	if err != nil {
		return err
	}

	return writeReports(f.path, reports)
}

// GetReports returns all reports.
func (f *FileReporter) GetReports() ([]Report[any, any], error) {
	return f.mem.GetReports()
}

// GetReport returns a report by ID.
func (f *FileReporter) GetReport(id string) (Report[any, any], error) {
	return f.mem.GetReport(id)
}

// Path returns the file the reports are written to.
func (f *FileReporter) Path() string {
	return f.path
}

func readReports(path string) ([]Report[any, any], error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []Report[any, any]{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read reports from %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []Report[any, any]{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var reports []Report[any, any]
	if err = dec.Decode(&reports); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reports from %s: %w", path, err)
	}

	return reports, nil
}

// writeReports replaces the file through a rename so an interrupted write never truncates it.
func writeReports(path string, reports []Report[any, any]) error {
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal reports: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}

	tmp := path + ".tmp"
	if err = os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write reports: %w", err)
	}

	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}
