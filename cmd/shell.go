package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"cmerge/internal/git"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive cmerge shell",
	Long:  "Launch an interactive shell for running cmerge commands without repeating the 'cmerge' prefix",
	Run: func(cmd *cobra.Command, args []string) {
		runInteractiveShell()
	},
}

func runInteractiveShell() {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)

	// Load command history
	historyFile := historyFilePath()
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	// Setup tab completion for command names
	line.SetCompleter(func(line string) (c []string) {
		for _, cmd := range commandNames() {
			if strings.HasPrefix(cmd, strings.ToLower(line)) {
				c = append(c, cmd)
			}
		}
		return
	})

	fmt.Println("cmerge interactive shell. Type 'exit' or press Ctrl+D to quit.")
	fmt.Println("Type 'help' to see available commands.")

	repo := git.New(workDir)
	for {
		input, err := line.Prompt(shellPrompt(repo))
		if err != nil {
			// EOF or error (Ctrl+D)
			fmt.Println()
			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		line.AppendHistory(input)

		if handleSpecialCommand(input) {
			continue
		}

		// Handle help command separately to avoid initialization cycle
		if strings.ToLower(input) == "help" {
			rootCmd.Help()
			continue
		}

		executeCommand(input)
	}

	// Save history on exit
	if f, err := os.Create(historyFile); err == nil {
		line.WriteHistory(f)
		f.Close()
	}
}

// shellPrompt shows the branch and how many files still carry conflicts.
func shellPrompt(repo *git.Repo) string {
	branch, err := repo.CurrentBranch()
	if err != nil {
		branch = "unknown"
	}

	if files, err := repo.ConflictedFiles(); err == nil && len(files) > 0 {
		return fmt.Sprintf("[%s %d!]> ", branch, len(files))
	}
	return fmt.Sprintf("[%s]> ", branch)
}

func handleSpecialCommand(input string) bool {
	switch strings.ToLower(input) {
	case "exit", "quit":
		fmt.Println("Goodbye!")
		os.Exit(0)
		return true
	case "clear", "cls":
		fmt.Print("\033[H\033[2J")
		return true
	}
	return false
}

func executeCommand(input string) {
	parts := parseCommandLine(input)
	if len(parts) == 0 {
		return
	}

	rootCmd.SetArgs(parts)

	// Errors must not exit the process in shell mode
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	rootCmd.SetArgs([]string{})
}

func parseCommandLine(input string) []string {
	// Simple parsing - split on spaces but respect quotes
	var parts []string
	var current strings.Builder
	inQuotes := false
	quoteChar := rune(0)

	for _, char := range input {
		switch {
		case (char == '"' || char == '\'') && !inQuotes:
			inQuotes = true
			quoteChar = char
		case char == quoteChar && inQuotes:
			inQuotes = false
			quoteChar = 0
		case char == ' ' && !inQuotes:
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(char)
		}
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}

func commandNames() []string {
	var names []string
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "shell" {
			continue
		}
		names = append(names, cmd.Name())
	}
	return names
}

func historyFilePath() string {
	if cfg.HistoryFile != "" {
		return cfg.HistoryFile
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".cmerge_history"
	}
	return filepath.Join(homeDir, ".cmerge_history")
}
