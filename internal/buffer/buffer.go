// Package buffer supplies the text sources and sinks the resolver core is
// wired to. The core never touches files, pipes or the clipboard itself;
// the embedding command picks a Buffer and hands text back and forth.
package buffer

// Buffer is a read/write capability over one text document.
type Buffer interface {
	Read() (string, error)
	Write(text string) error
}
