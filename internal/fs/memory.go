package fs

import (
	"bytes"
	"path"
	"sort"
	"sync"
)

// Memory is an in-memory FileSystem double for deterministic engine
// tests: no real disk I/O, no timing dependence, and the ability to
// inspect file contents directly from a test (Contents, Exists).
type Memory struct {
	mu    sync.Mutex
	files map[string]*memFile
}

type memFile struct {
	data   []byte
	closed bool
}

// NewMemory returns an empty in-memory filesystem rooted at "/".
func NewMemory() *Memory {
	return &Memory{files: make(map[string]*memFile)}
}

// JoinPath joins with a forward slash regardless of host OS, so test
// expectations are platform-independent.
func (m *Memory) JoinPath(elem ...string) string { return path.Join(elem...) }

// ScanDir lists base names of all files directly under dir.
func (m *Memory) ScanDir(dir string, each func(name string)) error {
	m.mu.Lock()
	var names []string
	for p := range m.files {
		d, n := path.Split(p)
		d = stripTrailingSlash(d)
		if d == stripTrailingSlash(dir) {
			names = append(names, n)
		}
	}
	m.mu.Unlock()
	sort.Strings(names)
	for _, n := range names {
		each(n)
	}
	return nil
}

func stripTrailingSlash(s string) string {
	if len(s) > 1 && s[len(s)-1] == '/' {
		return s[:len(s)-1]
	}
	return s
}

// GetFileSize returns the current length of the file's contents.
func (m *Memory) GetFileSize(p string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[p]
	if !ok {
		return 0, &IoError{Kind: KindNotFound, Path: p}
	}
	return uint64(len(f.data)), nil
}

// RenameFile moves a file, failing with KindExists if the destination
// is already present and KindNotFound if the source is missing.
func (m *Memory) RenameFile(from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[from]
	if !ok {
		return &IoError{Kind: KindNotFound, Path: from}
	}
	if _, exists := m.files[to]; exists {
		return &IoError{Kind: KindExists, Path: to}
	}
	delete(m.files, from)
	m.files[to] = f
	return nil
}

// RemoveFile deletes a file. Removing a missing file is not an error.
func (m *Memory) RemoveFile(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, p)
	return nil
}

// MkdirAll is a no-op: the memory filesystem has no real directories,
// only path prefixes.
func (m *Memory) MkdirAll(string) error { return nil }

// CreateOutputFile creates a new file, failing with KindExists if one
// is already present at path.
func (m *Memory) CreateOutputFile(p string) (OutputFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.files[p]; exists {
		return nil, &IoError{Kind: KindExists, Path: p}
	}
	f := &memFile{}
	m.files[p] = f
	return &memOutputFile{fs: m, path: p, f: f}, nil
}

// OpenOutputFileAppend reopens an existing file for further writes.
func (m *Memory) OpenOutputFileAppend(p string) (OutputFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[p]
	if !ok {
		return nil, &IoError{Kind: KindNotFound, Path: p}
	}
	f.closed = false
	return &memOutputFile{fs: m, path: p, f: f}, nil
}

// Contents returns a copy of a file's bytes, for test assertions.
func (m *Memory) Contents(p string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[p]
	if !ok {
		return nil, false
	}
	return bytes.Clone(f.data), true
}

// Exists reports whether a file is present, for test assertions.
func (m *Memory) Exists(p string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[p]
	return ok
}

type memOutputFile struct {
	fs   *Memory
	path string
	f    *memFile
}

func (o *memOutputFile) Write(p []byte) (int, error) {
	o.fs.mu.Lock()
	defer o.fs.mu.Unlock()
	if o.f.closed {
		return 0, &IoError{Kind: KindOther, Path: o.path}
	}
	o.f.data = append(o.f.data, p...)
	return len(p), nil
}

func (o *memOutputFile) Flush() error { return nil }

func (o *memOutputFile) Close() error {
	o.fs.mu.Lock()
	defer o.fs.mu.Unlock()
	o.f.closed = true
	return nil
}

var _ FileSystem = (*Memory)(nil)
