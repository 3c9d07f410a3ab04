package git

import (
	"os"
	"path/filepath"

	"cmerge/internal/conflict"
)

// FileSummary describes the conflict state of one unmerged file.
type FileSummary struct {
	Path    string
	Regions int   // well-formed conflict regions
	Markers int   // raw start-marker lines, may exceed Regions when malformed
	Size    int64 // file size in bytes
}

// ConflictSummaries reads every unmerged file and reports its structural
// region count next to the raw marker count. Unreadable files are skipped
// rather than failing the whole listing.
func (repo *Repo) ConflictSummaries() ([]FileSummary, error) {
	files, err := repo.ConflictedFiles()
	if err != nil {
		return nil, err
	}

	var summaries []FileSummary
	for _, file := range files {
		path := filepath.Join(repo.WorkDir, file)

		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		summary := FileSummary{
			Path:    file,
			Regions: len(conflict.Scan(string(data))),
			Markers: conflict.Count(string(data)),
		}
		if info, err := os.Stat(path); err == nil {
			summary.Size = info.Size()
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}
