package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/bl2patch/exe/state"
)

// patchOp selects which resolver operation runPatch performs.
type patchOp int

const (
	opToggle patchOp = iota
	opApply
	opRevert
)

func init() {
	rootCmd.AddCommand(newApplyCmd(), newRevertCmd())
}

func newApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Patch the executable (no-op if already patched)",
		Long: `The apply command writes the patch bytes to a pristine executable and
verifies the result. An executable that is already patched is left alone.

Example:
  bl2patch apply
  bl2patch apply --no-backup`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPatch(opApply)
		},
	}
}

func newRevertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revert",
		Short: "Restore the original bytes (no-op if already pristine)",
		Long: `The revert command writes the original bytes back to a patched
executable and verifies the result. A pristine executable is left alone.

Example:
  bl2patch revert`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPatch(opRevert)
		},
	}
}

// patchResult is the JSON output of toggle, apply and revert.
type patchResult struct {
	Path      string    `json:"path"`
	Before    stateView `json:"before"`
	After     stateView `json:"after"`
	Direction string    `json:"direction,omitempty"`
	Changed   bool      `json:"changed"`
	Changes   int       `json:"changes"`
	Backup    string    `json:"backup,omitempty"`
}

func runPatch(op patchOp) error {
	path, err := targetPath()
	if err != nil {
		return err
	}

	printVerbose("Checking executable: %s\n", path)

	var res state.Result
	err = withExe(path, func(f *os.File) error {
		r := newResolver(path)
		var runErr error
		switch op {
		case opApply:
			res, runErr = r.Apply(f)
		case opRevert:
			res, runErr = r.Revert(f)
		default:
			res, runErr = r.Toggle(f)
		}
		return runErr
	})
	if err != nil {
		return err
	}

	if jsonOut {
		out := patchResult{
			Path:    path,
			Before:  viewOf(res.Before),
			After:   viewOf(res.After),
			Changed: res.Changed,
			Changes: res.Changes,
			Backup:  lastBackup,
		}
		if res.Changed {
			out.Direction = res.Direction.String()
		}
		return printJSON(out)
	}

	if !res.Changed {
		printInfo("Nothing to do: executable is already %s\n", res.Before)
		return nil
	}

	printVerbose("Version: %s\n", res.After.Version.Name)
	printVerbose("Wrote %d change(s), SHA1 now %s\n", res.Changes, res.After.Digest)
	switch res.After.Kind {
	case state.Patched:
		printInfo("%s\n", styled(successStyle, "Patch successful"))
	default:
		printInfo("%s\n", styled(pristineStyle, "Patch reverted"))
	}
	return nil
}
