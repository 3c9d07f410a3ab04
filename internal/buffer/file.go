package buffer

import (
	"fmt"
	"io/fs"
	"os"
)

// File reads and writes one file on disk, preserving content verbatim.
type File struct {
	Path string
	// Mode is used when writing a file that does not exist yet.
	Mode fs.FileMode
}

func NewFile(path string) *File {
	return &File{Path: path, Mode: 0o644}
}

func (f *File) Read() (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.Path, err)
	}
	return string(data), nil
}

func (f *File) Write(text string) error {
	mode := f.Mode
	if info, err := os.Stat(f.Path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(f.Path, []byte(text), mode); err != nil {
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	return nil
}
