package buffer

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Clipboard reads and writes the system clipboard.
type Clipboard struct{}

func (Clipboard) Read() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	return text, nil
}

func (Clipboard) Write(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}
