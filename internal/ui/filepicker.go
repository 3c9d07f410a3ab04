package ui

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"

	"cmerge/internal/git"
)

func PickFiles(summaries []git.FileSummary) ([]string, error) {
	var selectedFiles []string
	var options []huh.Option[string]

	for _, summary := range summaries {
		label := fmt.Sprintf("%s (%d conflicts, %s)",
			summary.Path, summary.Regions, humanize.Bytes(uint64(summary.Size)))
		options = append(options, huh.NewOption(label, summary.Path))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Select files to resolve:").
				Options(options...).
				Value(&selectedFiles),
		),
	)

	err := form.Run()
	if err != nil {
		return nil, err
	}

	return selectedFiles, nil
}
