// Package resolver applies a resolution policy to conflicted files on
// disk, tying the pure text resolver to file buffers and the git index.
package resolver

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"cmerge/internal/buffer"
	"cmerge/internal/conflict"
	"cmerge/internal/git"
)

// maxWorkers bounds the resolve fan-out. Each file is independent, the
// core is stateless, so files only contend on disk.
const maxWorkers = 4

type Service struct {
	repo *git.Repo
}

func New(repo *git.Repo) *Service {
	return &Service{repo: repo}
}

// Outcome is the per-file result of a resolve pass.
type Outcome struct {
	Path    string
	Result  conflict.Result
	Changed bool
	Err     error
}

// Summary aggregates outcomes for status reporting.
type Summary struct {
	Files      int
	Changed    int
	Resolved   int // regions replaced across all files
	Unresolved int // regions left behind across all files
	Failed     int
}

func Summarize(outcomes []Outcome) Summary {
	s := Summary{Files: len(outcomes)}
	for _, o := range outcomes {
		if o.Err != nil {
			s.Failed++
		}
		if o.Changed {
			s.Changed++
		}
		s.Resolved += o.Result.Resolved
		s.Unresolved += o.Result.Unresolved
	}
	return s
}

// ResolveFile resolves one file in place. The file is rewritten only when
// at least one region was replaced; staging is left to the caller so a
// batch can stage once. Err carries conflict.ErrMarkersRemain when the
// written result is only partially resolved.
func (s *Service) ResolveFile(path string, policy conflict.Policy) Outcome {
	buf := buffer.NewFile(filepath.Join(s.repo.WorkDir, path))

	text, err := buf.Read()
	if err != nil {
		return Outcome{Path: path, Err: err}
	}

	res, resErr := conflict.Resolve(text, policy)
	if res.Resolved > 0 {
		if err := buf.Write(res.Text); err != nil {
			return Outcome{Path: path, Result: res, Err: err}
		}
	}

	log.Info().
		Str("path", path).
		Stringer("policy", policy).
		Int("resolved", res.Resolved).
		Int("unresolved", res.Unresolved).
		Msg("resolved file")

	return Outcome{Path: path, Result: res, Changed: res.Resolved > 0, Err: resErr}
}

// ResolveFiles resolves paths concurrently, then stages every file that
// came out fully clean.
func (s *Service) ResolveFiles(ctx context.Context, paths []string, policy conflict.Policy) ([]Outcome, error) {
	outcomes := make([]Outcome, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			outcomes[i] = s.ResolveFile(path, policy)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var resolved []string
	for _, o := range outcomes {
		if o.Changed && o.Err == nil && o.Result.Clean() {
			resolved = append(resolved, o.Path)
		}
	}
	if err := s.repo.MarkResolved(resolved); err != nil {
		return outcomes, err
	}

	return outcomes, nil
}
