package resolver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmerge/internal/conflict"
	"cmerge/internal/git"
)

type recordingRunner struct {
	calls [][]string
}

func (r *recordingRunner) Run(dir string, args ...string) (string, string, error) {
	r.calls = append(r.calls, args)
	return "", "", nil
}

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func readFixture(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

func TestResolveFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFixture(t, dir, "a.txt", "top\n<<<<<<< HEAD\nours\n=======\ntheirs\n>>>>>>> other\nbottom\n")

	svc := New(git.NewWithRunner(dir, &recordingRunner{}))
	out := svc.ResolveFile("a.txt", conflict.Current)

	require.NoError(t, out.Err)
	assert.True(t, out.Changed)
	assert.Equal(t, 1, out.Result.Resolved)
	assert.Equal(t, "top\nours\nbottom\n", readFixture(t, dir, "a.txt"))
}

func TestResolveFileLeavesMalformedUntouched(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	content := "<<<<<<< x\nA\n=======\n"
	writeFixture(t, dir, "bad.txt", content)

	svc := New(git.NewWithRunner(dir, &recordingRunner{}))
	out := svc.ResolveFile("bad.txt", conflict.Incoming)

	require.NoError(t, out.Err)
	assert.False(t, out.Changed)
	assert.Equal(t, 1, out.Result.Unresolved)
	// Nothing resolved, so the file is not rewritten at all.
	assert.Equal(t, content, readFixture(t, dir, "bad.txt"))
}

func TestResolveFileMissing(t *testing.T) {
	t.Parallel()
	svc := New(git.NewWithRunner(t.TempDir(), &recordingRunner{}))
	out := svc.ResolveFile("ghost.txt", conflict.Current)
	assert.Error(t, out.Err)
	assert.False(t, out.Changed)
}

func TestResolveFilesStagesCleanResults(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFixture(t, dir, "clean.txt", "<<<<<<< a\n1\n=======\n2\n>>>>>>> b\n")
	writeFixture(t, dir, "partial.txt", "<<<<<<< a\n1\n=======\n2\n>>>>>>> b\n<<<<<<< orphan\n")
	writeFixture(t, dir, "plain.txt", "no conflicts here\n")

	runner := &recordingRunner{}
	svc := New(git.NewWithRunner(dir, runner))

	outcomes, err := svc.ResolveFiles(context.Background(), []string{"clean.txt", "partial.txt", "plain.txt"}, conflict.Incoming)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	assert.Equal(t, "2\n", readFixture(t, dir, "clean.txt"))
	assert.Equal(t, "2\n<<<<<<< orphan\n", readFixture(t, dir, "partial.txt"))

	// Only the fully resolved file gets staged.
	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"add", "clean.txt"}, runner.calls[0])

	sum := Summarize(outcomes)
	assert.Equal(t, 3, sum.Files)
	assert.Equal(t, 2, sum.Changed)
	assert.Equal(t, 2, sum.Resolved)
	assert.Equal(t, 1, sum.Unresolved)
	assert.Equal(t, 0, sum.Failed)
}

func TestResolveFilesCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := New(git.NewWithRunner(t.TempDir(), &recordingRunner{}))
	_, err := svc.ResolveFiles(ctx, []string{"a.txt"}, conflict.Current)
	assert.ErrorIs(t, err, context.Canceled)
}
