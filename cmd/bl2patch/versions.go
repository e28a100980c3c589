package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newVersionsCmd())
}

func newVersionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "List the executable builds this patcher recognizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersions()
		},
	}
}

type versionView struct {
	Name      string       `json:"name"`
	Unpatched string       `json:"unpatched_sha1"`
	Patched   string       `json:"patched_sha1"`
	Changes   []changeView `json:"changes"`
}

type changeView struct {
	Offset   uint64 `json:"offset"`
	Original string `json:"original"`
	Patch    string `json:"patch"`
	Note     string `json:"note,omitempty"`
}

func runVersions() error {
	versions := newRegistry().Versions()

	views := make([]versionView, 0, len(versions))
	for _, v := range versions {
		vv := versionView{
			Name:      v.Name,
			Unpatched: v.Unpatched.String(),
			Patched:   v.Patched.String(),
		}
		for _, c := range v.Changes {
			vv.Changes = append(vv.Changes, changeView{
				Offset:   c.Offset,
				Original: fmt.Sprintf("% x", c.Original),
				Patch:    fmt.Sprintf("% x", c.Patch),
				Note:     c.Note,
			})
		}
		views = append(views, vv)
	}

	if jsonOut {
		return printJSON(views)
	}

	for _, v := range views {
		printInfo("%s\n", v.Name)
		printInfo("  unpatched: %s\n", v.Unpatched)
		printInfo("  patched:   %s\n", v.Patched)
		for _, c := range v.Changes {
			printInfo("  0x%08x  %s -> %s", c.Offset, c.Original, c.Patch)
			if c.Note != "" {
				printInfo("  (%s)", c.Note)
			}
			printInfo("\n")
		}
	}
	return nil
}
