package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/bl2patch/exe/state"
)

func init() {
	rootCmd.AddCommand(newStatusCmd())
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether the executable is pristine, patched or unknown",
		Long: `The status command fingerprints the executable and reports its state
without writing to it.

Example:
  bl2patch status
  bl2patch status --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}
}

type statusResult struct {
	Path string `json:"path"`
	stateView
}

func runStatus() error {
	path, err := targetPath()
	if err != nil {
		return err
	}

	var st state.State
	err = withExeReadOnly(path, func(f *os.File) error {
		var statErr error
		st, statErr = state.NewResolver(newRegistry(), state.DefaultOptions()).Status(f)
		return statErr
	})
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(statusResult{Path: path, stateView: viewOf(st)})
	}

	printInfo("Executable: %s\n", path)
	printInfo("  State: %s\n", styled(kindStyle(st.Kind), st.Kind.String()))
	if st.Version != nil {
		printInfo("  Version: %s\n", st.Version.Name)
	}
	printInfo("  SHA1: %s\n", styled(mutedStyle, st.Digest.String()))
	return nil
}
