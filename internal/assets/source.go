package assets

import (
	"fmt"
	"os"
)

// Source yields an imported scene. Every successful Import hands ownership
// of the scene to the caller, who must Close it.
type Source interface {
	Import() (*Scene, error)
	String() string
}

// FileSource imports a file from disk.
type FileSource struct {
	Path string
}

// Import reads and decodes the file.
func (s FileSource) Import() (*Scene, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.Path, err)
	}
	return Decode(s.Path, data)
}

func (s FileSource) String() string { return s.Path }

// BytesSource imports an in-memory file. Name selects the decoder.
type BytesSource struct {
	Name string
	Data []byte
}

// Import decodes the data.
func (s BytesSource) Import() (*Scene, error) {
	return Decode(s.Name, s.Data)
}

func (s BytesSource) String() string { return s.Name }

// ManagerSource imports a path through a Manager's archives and directories.
type ManagerSource struct {
	Manager *Manager
	Path    string
}

// Import loads, decodes and registers the scene with the manager.
func (s ManagerSource) Import() (*Scene, error) {
	return s.Manager.Import(s.Path)
}

func (s ManagerSource) String() string { return s.Path }
