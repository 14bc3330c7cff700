package main

import (
	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X main.commit=... -X main.date=...".
var (
	commit = "none"
	date   = "unknown"
)

func init() {
	rootCmd.AddCommand(newVersionCmd())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion()
		},
	}
}

type versionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Built   string `json:"built"`
}

// runVersion reports rootCmd.Version, the same string --version prints.
func runVersion() error {
	v := versionInfo{Version: rootCmd.Version, Commit: commit, Built: date}
	if jsonOut {
		return printJSON(v)
	}
	printInfo("%s %s\n", rootCmd.Name(), v.Version)
	printInfo("  commit: %s\n", v.Commit)
	printInfo("  built: %s\n", v.Built)
	return nil
}
