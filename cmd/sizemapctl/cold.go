package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newColdCmd())
}

func newColdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cold",
		Short: "List the classes eligible for cold memory",
		Long: `The cold command lists the cold-class set in classification order. The
classifier only runs with --cold and on geometries with a cold register.

Example:
  sizemapctl cold --cold`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCold()
		},
	}
	return cmd
}

func runCold() error {
	m, err := buildSizeMap()
	if err != nil {
		return err
	}

	rows := []classRow{}
	for _, cl := range m.ColdClasses() {
		rows = append(rows, newClassRow(m, cl))
	}

	if jsonOut {
		return printJSON(rows)
	}

	if len(rows) == 0 {
		printInfo("No cold classes (enable the classifier with --cold)\n")
		return nil
	}
	printInfo("%-6s %10s %6s %8s\n", "CLASS", "SIZE", "PAGES", "OBJECTS")
	for _, r := range rows {
		printInfo("%-6d %10s %6d %8d\n", r.Class, bytesString(r.Size), r.Pages, r.ObjectsInSpan)
	}
	return nil
}
