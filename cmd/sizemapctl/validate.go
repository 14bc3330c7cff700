package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/segalloc/sizemap"
	"github.com/joshuapare/segalloc/sizemap/source"
)

func init() {
	rootCmd.AddCommand(newValidateCmd())
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check an override file before deploying it",
		Long: `The validate command decodes a TOML or YAML override file and checks it
against the selected geometry. It also reports whether the class count matches
the compiled-in table, which the runtime loader requires.

Example:
  sizemapctl validate classes.toml
  sizemapctl validate classes.yaml --small-pages --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args)
		},
	}
	return cmd
}

type validateResult struct {
	File     string `json:"file"`
	Geometry string `json:"geometry"`
	Classes  int    `json:"classes"`
	Expected int    `json:"expected_classes"`
	Valid    bool   `json:"valid"`
	Loadable bool   `json:"loadable"`
	Reason   string `json:"reason,omitempty"`
	Index    int    `json:"index,omitempty"`
	Value    int    `json:"value,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

func runValidate(args []string) error {
	path := args[0]
	g, tables := selectedGeometry()

	infos, err := source.File(path).SizeClasses()
	if err != nil {
		return fmt.Errorf("failed to read override: %w", err)
	}

	res := validateResult{
		File:     path,
		Geometry: g.Name,
		Classes:  len(infos),
		Expected: len(tables.Default),
	}

	verr := sizemap.Validate(&g, infos)
	var ve *sizemap.ValidationError
	switch {
	case verr == nil:
		res.Valid = true
		res.Loadable = res.Classes == res.Expected
	case errors.As(verr, &ve):
		res.Reason = string(ve.Reason)
		res.Index, res.Value, res.Limit = ve.Index, ve.Value, ve.Limit
	default:
		return verr
	}

	if jsonOut {
		if err := printJSON(res); err != nil {
			return err
		}
	} else {
		printValidateResult(res)
	}

	if !res.Loadable {
		return errors.New("override would be rejected")
	}
	return nil
}

func printValidateResult(res validateResult) {
	printInfo("\nOverride: %s\n", res.File)
	printInfo("  Geometry: %s\n", res.Geometry)
	printInfo("  Classes: %d (runtime requires %d)\n", res.Classes, res.Expected)

	if !res.Valid {
		printInfo("  ✗ %s at class %d (value %d, limit %d)\n", res.Reason, res.Index, res.Value, res.Limit)
		return
	}
	printInfo("  ✓ Size classes valid\n")
	if res.Loadable {
		printInfo("  ✓ Class count matches\n")
	} else {
		printInfo("  ✗ Class count differs\n")
	}
}
