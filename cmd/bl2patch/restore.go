package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/bl2patch/exe/state"
)

var (
	// Restore command flags
	restoreFrom string
	restoreList bool
)

func init() {
	rootCmd.AddCommand(newRestoreCmd())
}

func newRestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Replace the executable with a backup",
		Long: `The restore command replaces the executable with its newest backup, or
the one named by --from. The backup must fingerprint to a known pristine or
patched build; anything else is refused.

Example:
  bl2patch restore
  bl2patch restore --list
  bl2patch restore --from Borderlands2.exe.bak.20190624-153000.000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore()
		},
	}
	cmd.Flags().StringVar(&restoreFrom, "from", "", "Backup file to restore (default: newest)")
	cmd.Flags().BoolVar(&restoreList, "list", false, "List backups instead of restoring")
	return cmd
}

type restoreResult struct {
	Path     string    `json:"path"`
	Backup   string    `json:"backup"`
	Restored stateView `json:"restored"`
}

func runRestore() error {
	path, err := targetPath()
	if err != nil {
		return err
	}
	mgr := newBackupManager()

	if restoreList {
		return listBackups(path)
	}

	src := restoreFrom
	if src == "" {
		latest, err := mgr.Latest(path)
		if err != nil {
			return err
		}
		src = latest.Path
	}
	printVerbose("Checking backup: %s\n", src)

	reg := newRegistry()
	var want state.State
	err = withExeReadOnly(src, func(f *os.File) error {
		var classifyErr error
		want, classifyErr = state.Classify(f, reg)
		return classifyErr
	})
	if err != nil {
		return fmt.Errorf("check backup: %w", err)
	}
	if !want.Known() {
		return fmt.Errorf("refusing to restore %s: %w", src, &state.UnknownVersionError{Digest: want.Digest})
	}

	if err := mgr.Restore(path, src); err != nil {
		return err
	}

	var got state.State
	err = withExeReadOnly(path, func(f *os.File) error {
		var classifyErr error
		got, classifyErr = state.Classify(f, reg)
		return classifyErr
	})
	if err != nil {
		return fmt.Errorf("verify restore: %w", err)
	}
	if got.Kind != want.Kind || got.Version != want.Version {
		return &state.VerifyError{Phase: state.PhasePost, Expected: want, Got: got}
	}

	if jsonOut {
		return printJSON(restoreResult{Path: path, Backup: src, Restored: viewOf(got)})
	}
	printInfo("Restored %s from %s (%s)\n", path, src, got)
	return nil
}

func listBackups(path string) error {
	backups, err := newBackupManager().List(path)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(backups)
	}

	if len(backups) == 0 {
		printInfo("No backups of %s\n", path)
		return nil
	}
	printInfo("Backups of %s (newest first):\n", path)
	for _, b := range backups {
		printInfo("  %s  %s  %d bytes\n", b.CreatedAt.Format("2006-01-02 15:04:05"), b.Path, b.Size)
	}
	return nil
}
