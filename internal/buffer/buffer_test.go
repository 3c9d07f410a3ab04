package buffer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\n"), 0o644))

	f := NewFile(path)
	text, err := f.Read()
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", text)

	require.NoError(t, f.Write("c\n"))
	text, err = f.Read()
	require.NoError(t, err)
	assert.Equal(t, "c\n", text)
}

func TestFileWritePreservesMode(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "script.sh")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o755))

	require.NoError(t, NewFile(path).Write("y"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestFileReadMissing(t *testing.T) {
	t.Parallel()
	_, err := NewFile(filepath.Join(t.TempDir(), "nope")).Read()
	assert.Error(t, err)
}

func TestStd(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	s := &Std{In: strings.NewReader("piped in"), Out: &out}

	text, err := s.Read()
	require.NoError(t, err)
	assert.Equal(t, "piped in", text)

	require.NoError(t, s.Write("piped out"))
	assert.Equal(t, "piped out", out.String())
}
