package buffer

import (
	"fmt"
	"io"
)

// Std pairs a reader and writer, normally stdin and stdout, so the
// resolver can run as a plain pipeline filter.
type Std struct {
	In  io.Reader
	Out io.Writer
}

func (s *Std) Read() (string, error) {
	data, err := io.ReadAll(s.In)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func (s *Std) Write(text string) error {
	if _, err := io.WriteString(s.Out, text); err != nil {
		return fmt.Errorf("write stdout: %w", err)
	}
	return nil
}
