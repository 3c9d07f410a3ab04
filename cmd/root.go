package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"cmerge/internal/buffer"
	"cmerge/internal/config"
	"cmerge/internal/conflict"
	"cmerge/internal/git"
	"cmerge/internal/resolver"
	"cmerge/internal/ui"
)

var (
	cfg       config.Config
	verbosity int
	workDir   string
)

var rootCmd = &cobra.Command{
	Use:   "cmerge",
	Short: "A merge-conflict resolution tool",
	Long:  "Finds merge-conflict markers in files and resolves them by policy or interactively",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(verbosity)

		loaded, err := config.Load()
		if err != nil {
			log.Warn().Err(err).Msg("config unreadable, using defaults")
			loaded = config.Default()
		}
		cfg = loaded
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity")
	rootCmd.PersistentFlags().StringVarP(&workDir, "dir", "C", ".", "repository working directory")

	resolveCmd.Flags().StringVarP(&policyFlag, "policy", "p", "", "resolution policy: current, incoming or both")
	resolveCmd.Flags().BoolVar(&stdinFlag, "stdin", false, "read text from stdin and write the resolution to stdout")
	resolveCmd.Flags().BoolVar(&copyFlag, "copy", false, "also copy the resolved text to the clipboard")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(shellCmd)
}

func setupLogging(verbosity int) {
	switch verbosity {
	case 0:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case 1:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	}).With().Timestamp().Logger()
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List conflicted files and their conflict counts",
	Run: func(cmd *cobra.Command, args []string) {
		repo := git.New(workDir)

		branch, err := repo.CurrentBranch()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading repository: %v\n", err)
			os.Exit(1)
		}

		if repo.MergeInProgress() {
			fmt.Printf("On branch %s, merge in progress.\n", branch)
		} else {
			fmt.Printf("On branch %s.\n", branch)
		}

		summaries, err := repo.ConflictSummaries()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing conflicts: %v\n", err)
			os.Exit(1)
		}

		if len(summaries) == 0 {
			fmt.Println("No conflicted files.")
			return
		}

		for _, s := range summaries {
			line := fmt.Sprintf(" - %s: %d conflicts (%s)", s.Path, s.Regions, humanize.Bytes(uint64(s.Size)))
			if s.Markers > s.Regions {
				line += fmt.Sprintf(", %d malformed markers", s.Markers-s.Regions)
			}
			fmt.Println(line)
		}
	},
}

var (
	policyFlag string
	stdinFlag  bool
	copyFlag   bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [files...]",
	Short: "Resolve conflicts by policy, in files or on stdin",
	Run: func(cmd *cobra.Command, args []string) {
		name := policyFlag
		if name == "" {
			name = cfg.DefaultPolicy
		}
		policy, err := conflict.ParsePolicy(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		copyOut := copyFlag || cfg.Clipboard

		if stdinFlag {
			resolveStdin(policy, copyOut)
			return
		}

		repo := git.New(workDir)
		files := args

		if len(files) == 0 {
			summaries, err := repo.ConflictSummaries()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error listing conflicts: %v\n", err)
				os.Exit(1)
			}
			if len(summaries) == 0 {
				fmt.Println("No conflicted files.")
				return
			}

			files, err = ui.PickFiles(summaries)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error selecting files: %v\n", err)
				os.Exit(1)
			}
			if len(files) == 0 {
				fmt.Println("No files selected.")
				return
			}
		}

		svc := resolver.New(repo)
		outcomes, err := svc.ResolveFiles(cmd.Context(), files, policy)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error resolving files: %v\n", err)
			os.Exit(1)
		}

		for _, o := range outcomes {
			switch {
			case o.Err != nil:
				fmt.Printf(" - %s: %v\n", o.Path, o.Err)
			case o.Result.Unresolved > 0:
				fmt.Printf(" - %s: %d resolved, %d left unresolved\n", o.Path, o.Result.Resolved, o.Result.Unresolved)
			default:
				fmt.Printf(" - %s: %d resolved\n", o.Path, o.Result.Resolved)
			}
		}

		sum := resolver.Summarize(outcomes)
		fmt.Printf("Resolved %d conflicts across %d files.\n", sum.Resolved, sum.Files)
		if sum.Unresolved > 0 {
			fmt.Printf("%d conflicts remain; fix them manually or rerun with another policy.\n", sum.Unresolved)
		}

		if copyOut && len(files) == 1 {
			text, err := buffer.NewFile(filepath.Join(workDir, files[0])).Read()
			if err == nil {
				if err := (buffer.Clipboard{}).Write(text); err != nil {
					log.Warn().Err(err).Msg("clipboard copy failed")
				}
			}
		}

		if sum.Failed > 0 {
			os.Exit(1)
		}
	},
}

func resolveStdin(policy conflict.Policy, copyOut bool) {
	std := &buffer.Std{In: os.Stdin, Out: os.Stdout}

	text, err := std.Read()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	res, resErr := conflict.Resolve(text, policy)
	if err := std.Write(res.Text); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if copyOut {
		if err := (buffer.Clipboard{}).Write(res.Text); err != nil {
			log.Warn().Err(err).Msg("clipboard copy failed")
		}
	}

	if resErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", resErr)
		os.Exit(1)
	}
	if res.Unresolved > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d malformed conflicts left unresolved\n", res.Unresolved)
		os.Exit(1)
	}
}

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Report whether text contains conflict markers",
	Long:  "Reads the given file, or stdin when no file is given, and reports both the cheap marker check and the structural conflict count. Exits non-zero when conflicts are present.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var buf buffer.Buffer
		if len(args) == 1 {
			buf = buffer.NewFile(args[0])
		} else {
			buf = &buffer.Std{In: os.Stdin, Out: os.Stdout}
		}

		text, err := buf.Read()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		regions := len(conflict.Scan(text))
		fmt.Printf("markers present: %v\n", conflict.HasMarkers(text))
		fmt.Printf("marker lines: %d\n", conflict.Count(text))
		fmt.Printf("conflict regions: %d\n", regions)

		if regions > 0 {
			os.Exit(1)
		}
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Resolve conflicts interactively",
	Run: func(cmd *cobra.Command, args []string) {
		repo := git.New(workDir)

		files, err := repo.ConflictedFiles()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing conflicts: %v\n", err)
			os.Exit(1)
		}
		if len(files) == 0 {
			fmt.Println("No conflicted files.")
			return
		}

		if err := ui.RunConflictResolver(repo, resolver.New(repo), files); err != nil {
			fmt.Fprintf(os.Stderr, "Error running resolver: %v\n", err)
			os.Exit(1)
		}
	},
}
