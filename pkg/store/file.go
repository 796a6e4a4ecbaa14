package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/IonImpulse/fivec-scheduler-server/pkg/course"
)

const (
	snapshotFile = "course_cache.json"
	codesFile    = "code_data.json"
)

// FileBackend keeps each document in its own JSON file inside Dir
type FileBackend struct {
	Dir string
}

func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{Dir: dir}
}

func (f *FileBackend) SaveSnapshot(_ context.Context, snap course.Snapshot) error {
	return f.write(snapshotFile, snap)
}

func (f *FileBackend) LoadSnapshot(_ context.Context) (course.Snapshot, error) {
	var snap course.Snapshot
	if err := f.read(snapshotFile, &snap); err != nil {
		return course.Snapshot{}, err
	}
	return snap, nil
}

func (f *FileBackend) SaveCodes(_ context.Context, codes map[string]course.SharedCourseList) error {
	return f.write(codesFile, codes)
}

func (f *FileBackend) LoadCodes(_ context.Context) (map[string]course.SharedCourseList, error) {
	codes := make(map[string]course.SharedCourseList)
	if err := f.read(codesFile, &codes); err != nil {
		return map[string]course.SharedCourseList{}, err
	}
	return codes, nil
}

// read leaves v untouched when the file does not exist
func (f *FileBackend) read(name string, v any) error {
	path := filepath.Join(f.Dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	return nil
}

// write replaces the file through a rename so readers never see half a document
func (f *FileBackend) write(name string, v any) error {
	if err := os.MkdirAll(f.Dir, 0755); err != nil {
		return fmt.Errorf("could not create data directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(f.Dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set permissions on %s: %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	return os.Rename(tmp.Name(), filepath.Join(f.Dir, name))
}
