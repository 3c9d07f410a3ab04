package git

import (
	"bufio"
	"fmt"
	"strings"
)

type Repo struct {
	WorkDir string
	runner  Runner
}

func New(workDir string) *Repo {
	return &Repo{WorkDir: workDir, runner: ExecRunner{}}
}

// NewWithRunner builds a Repo around a custom Runner, used by tests.
func NewWithRunner(workDir string, runner Runner) *Repo {
	return &Repo{WorkDir: workDir, runner: runner}
}

func (repo *Repo) CurrentBranch() (string, error) {
	stdout, _, err := repo.runner.Run(repo.WorkDir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %v", err)
	}
	return strings.TrimSpace(stdout), nil
}

func (repo *Repo) IsClean() (bool, error) {
	stdout, stderr, err := repo.runner.Run(repo.WorkDir, "status", "--porcelain")
	if err != nil {
		return false, commandError("status", err, stdout, stderr)
	}
	return len(stdout) == 0, nil
}

// MergeInProgress reports whether a merge is underway, probed through
// MERGE_HEAD. A failed probe means no merge, not an error.
func (repo *Repo) MergeInProgress() bool {
	_, _, err := repo.runner.Run(repo.WorkDir, "rev-parse", "-q", "--verify", "MERGE_HEAD")
	return err == nil
}

// ConflictedFiles lists paths that are unmerged in the index.
func (repo *Repo) ConflictedFiles() ([]string, error) {
	stdout, stderr, err := repo.runner.Run(repo.WorkDir, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, commandError("list conflicted files", err, stdout, stderr)
	}

	var files []string
	scanner := bufio.NewScanner(strings.NewReader(stdout))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Git quotes filenames with special characters - remove the quotes
		if strings.HasPrefix(line, "\"") && strings.HasSuffix(line, "\"") {
			line = line[1 : len(line)-1]
		}

		if line != "" {
			files = append(files, line)
		}
	}

	return files, nil
}

// MarkResolved stages files whose conflicts have been resolved.
func (repo *Repo) MarkResolved(files []string) error {
	if len(files) == 0 {
		return nil
	}

	args := append([]string{"add"}, files...)
	stdout, stderr, err := repo.runner.Run(repo.WorkDir, args...)
	return commandError("mark resolved", err, stdout, stderr)
}
