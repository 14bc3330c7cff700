package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/segalloc/internal/platform"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Report the geometry and host page size",
		Long: `The info command prints the allocator geometry selected by the flags,
the built class counts and the host page size.

Example:
  sizemapctl info
  sizemapctl info --small-pages --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo()
		},
	}
	return cmd
}

type infoResult struct {
	Geometry         string `json:"geometry"`
	PageSize         int    `json:"page_size"`
	MaxSize          int    `json:"max_size"`
	MaxSmallSize     int    `json:"max_small_size"`
	NumBaseClasses   int    `json:"num_base_classes"`
	NumClasses       int    `json:"num_classes"`
	Populated        int    `json:"populated_classes"`
	ColdClasses      int    `json:"cold_classes"`
	ClassArraySize   int    `json:"class_array_size"`
	HostPageSize     int    `json:"host_page_size"`
	HostCompatible   bool   `json:"host_compatible"`
	MaxObjectsToMove int    `json:"max_objects_to_move"`
}

func runInfo() error {
	m, err := buildSizeMap()
	if err != nil {
		return err
	}
	g := m.Geometry()

	info := infoResult{
		Geometry:         g.Name,
		PageSize:         g.PageSize(),
		MaxSize:          g.MaxSize,
		MaxSmallSize:     g.MaxSmallSize,
		NumBaseClasses:   g.NumBaseClasses,
		NumClasses:       m.NumClasses(),
		Populated:        m.NumPopulatedClasses(),
		ColdClasses:      len(m.ColdClasses()),
		ClassArraySize:   g.ClassArraySize(),
		HostPageSize:     platform.PageSize(),
		HostCompatible:   platform.CompatiblePageShift(g.PageShift),
		MaxObjectsToMove: g.MaxObjectsToMove,
	}

	if jsonOut {
		return printJSON(info)
	}

	printInfo("\nGeometry: %s\n", info.Geometry)
	printInfo("  Page size: %s bytes\n", bytesString(info.PageSize))
	printInfo("  Max small size: %s bytes\n", bytesString(info.MaxSmallSize))
	printInfo("  Max size: %s bytes\n", bytesString(info.MaxSize))
	printInfo("  Classes: %d (%d per register, %d populated)\n", info.NumClasses, info.NumBaseClasses, info.Populated)
	printInfo("  Cold classes: %d\n", info.ColdClasses)
	printInfo("  Lookup entries: %d per register\n", info.ClassArraySize)
	printInfo("  Max objects to move: %d\n", info.MaxObjectsToMove)

	printInfo("\nHost:\n")
	printInfo("  Page size: %s bytes\n", bytesString(info.HostPageSize))
	if info.HostCompatible {
		printInfo("  ✓ Allocator pages are whole host pages\n")
	} else {
		printInfo("  ✗ Allocator pages are smaller than host pages\n")
	}
	return nil
}
