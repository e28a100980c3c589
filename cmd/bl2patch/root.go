package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/bl2patch/exe/registry"
	"github.com/joshuapare/bl2patch/exe/state"
	"github.com/joshuapare/bl2patch/internal/config"
	"github.com/joshuapare/bl2patch/internal/logger"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	noColor    bool
	exePath    string
	steamRoots []string
	configPath string
	noBackup   bool

	// Loaded in setup
	cfg      = config.Default()
	closeLog = func() error { return nil }

	// lastBackup is the backup taken during this run, if any.
	lastBackup string

	// newRegistry builds the version catalog. Tests replace it.
	newRegistry = registry.Default
)

var rootCmd = &cobra.Command{
	Use:   "bl2patch",
	Short: "Toggle the Borderlands 2 executable patch",
	Long: `bl2patch recognizes the installed Borderlands2.exe by its SHA-1 digest and
toggles a fixed set of byte changes: a pristine executable is patched, a patched
one is restored to pristine. Unknown builds are never modified.

The executable is found through Steam's library index unless --exe is given.

Example:
  bl2patch
  bl2patch status --json
  bl2patch --exe "/games/Borderlands 2/Binaries/Win32/Borderlands2.exe" revert`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPatch(opToggle)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().
		StringVar(&exePath, "exe", "", "Path to Borderlands2.exe (skips the Steam lookup)")
	rootCmd.PersistentFlags().
		StringArrayVar(&steamRoots, "steam-root", nil, "Steam installation to search (repeatable)")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/bl2patch/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noBackup, "no-backup", false, "Do not back up the executable before writing")
}

// setup loads the config, applies flag overrides and starts logging.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	if len(steamRoots) > 0 {
		cfg.SteamRoots = steamRoots
	}
	if noBackup {
		cfg.Backup.Enabled = false
	}
	if os.Getenv("NO_COLOR") != "" {
		noColor = true
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	opts := logger.Options{
		Enabled: cfg.Log.Enabled,
		LogDir:  cfg.Log.Dir,
		Level:   level,
	}
	if verbose && !quiet {
		opts.Console = os.Stderr
	}
	closeLog, err = logger.Init(opts)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	logger.Debug("starting", "command", cmd.CommandPath(), "version", version)
	return nil
}

func execute() {
	err := rootCmd.Execute()
	if closeErr := closeLog(); closeErr != nil && err == nil {
		err = fmt.Errorf("close log: %w", closeErr)
	}
	if err != nil {
		reportError(err)
		os.Exit(1)
	}
}

// reportError prints err and, when the executable may be damaged, how to
// recover it.
func reportError(err error) {
	printError("%v\n", err)
	if !errors.Is(err, state.ErrCorrupted) {
		return
	}
	if lastBackup != "" {
		fmt.Fprintf(os.Stderr, "You should restore from your backup: %s\n", lastBackup)
		fmt.Fprintf(os.Stderr, "%s\n", styled(mutedStyle, "Run: bl2patch restore"))
		return
	}
	fmt.Fprintf(os.Stderr, "You should restore from your backup, or verify the game files in Steam.\n")
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprint(os.Stderr, styled(errorStyle, "Error:")+" ")
	fmt.Fprintf(os.Stderr, format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
