package script

import (
	"fmt"
	"path/filepath"
)

// memSource is a Source backed by an in-memory map, used in tests.
type memSource struct {
	files map[string][]byte
}

func newMemSource(files map[string]string) *memSource {
	m := &memSource{files: map[string][]byte{}}
	for k, v := range files {
		m.files[k] = []byte(v)
	}
	return m
}

func (m *memSource) Load(path string) ([]byte, error) {
	b, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("no such script: %s", path)
	}
	return b, nil
}

func (m *memSource) Resolve(baseDir, relPath string) (string, error) {
	if filepath.IsAbs(relPath) {
		return relPath, nil
	}
	return filepath.Join(baseDir, relPath), nil
}
