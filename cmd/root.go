package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hvkleist/rosdep-arch-audit/internal/aur"
	"github.com/hvkleist/rosdep-arch-audit/internal/config"
	"github.com/hvkleist/rosdep-arch-audit/internal/pacman"
	"github.com/hvkleist/rosdep-arch-audit/internal/repology"
	"github.com/hvkleist/rosdep-arch-audit/internal/report"
	"github.com/hvkleist/rosdep-arch-audit/internal/resolve"
	"github.com/hvkleist/rosdep-arch-audit/internal/rosdep"
)

var (
	cfgFile    string
	outputFile string
	syncDir    string
)

var rootCmd = &cobra.Command{
	Use:   "rosdep-arch-audit",
	Short: "Audit rosdep keys against Arch Linux packages",
	Long: `Checks every rosdep key's arch entry against the pacman sync
databases and the AUR package list, then tries to resolve broken or
missing entries by naming convention and through repology. The result
is written as a YAML patch containing only corrected keys.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAudit(cmd.Context())
	},
}

func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(
		&cfgFile,
		"config",
		"c",
		"",
		"path to config file",
	)
	rootCmd.Flags().StringVarP(
		&outputFile,
		"output",
		"o",
		"",
		"path to output file",
	)
	rootCmd.Flags().StringVar(
		&syncDir,
		"sync-dir",
		"",
		"pacman sync database directory",
	)
}

func runAudit(ctx context.Context) error {
	cfg := config.Default()
	if cfgFile != "" {
		var err error
		if cfg, err = config.Load(cfgFile); err != nil {
			return err
		}
	}
	if outputFile != "" {
		cfg.OutputPath = outputFile
	}
	if syncDir != "" {
		cfg.SyncDir = syncDir
	}

	fmt.Println("--- Loading pacman packages ---")

	official, err := pacman.Load(cfg.SyncDir, cfg.Sections)
	if err != nil {
		return fmt.Errorf("load pacman index: %w", err)
	}
	fmt.Printf("%d pacman packages loaded.\n", official.Len())

	fmt.Println("--- Loading AUR packages ---")

	aurSet, err := aur.Fetch(ctx, cfg.AURURL)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("load AUR packages: %w", err)
	}
	fmt.Printf("%d AUR packages loaded.\n", aurSet.Len())

	db := make(rosdep.Database)
	for _, file := range cfg.MappingFiles {
		fmt.Printf("--- Loading %s ---\n", file)
		part, err := rosdep.Fetch(ctx, cfg.RosdistroURL+"/"+file)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("load %s: %w", file, err)
		}
		for key, m := range part {
			db[key] = m
		}
	}
	fmt.Printf("Got %d rosdep keys.\n", len(db))

	fmt.Println("--- Resolving keys ---")

	engine := resolve.Engine{
		Official: official,
		AUR:      aurSet,
		XRef:     repology.NewClient(cfg.RepologyURL),
		Logf: func(format string, args ...any) {
			fmt.Printf(format, args...)
		},
	}
	outcome, err := engine.Process(ctx, db)
	if err != nil {
		// Interrupted: exit quietly without writing the artifact.
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("resolve: %w", err)
	}

	printSuggestions(outcome.Suggestions)

	if err := report.Write(cfg.OutputPath, outcome.Corrections); err != nil {
		return fmt.Errorf("write %s: %w", cfg.OutputPath, err)
	}
	report.PrintSummary(os.Stdout, outcome.Stats)
	return nil
}

func printSuggestions(suggestions map[string][]string) {
	keys := make([]string, 0, len(suggestions))
	for key := range suggestions {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("No match for %s, closest official packages: %s\n",
			key, strings.Join(suggestions[key], ", "))
	}
}
