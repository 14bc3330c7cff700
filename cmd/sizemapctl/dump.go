package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/segalloc/sizemap"
)

var dumpRegister int

func init() {
	cmd := newDumpCmd()
	cmd.Flags().IntVar(&dumpRegister, "register", -1, "Dump only one register (0 = normal, 1 = cold)")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the class table",
		Long: `The dump command prints every populated size class: its id, object size,
span length, transfer batch and objects per span.

Example:
  sizemapctl dump
  sizemapctl dump --register 1 --cold
  sizemapctl dump --experiments CFL_AWARE_SIZE_CLASS --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump()
		},
	}
	return cmd
}

// classRow is one class as printed by dump and cold.
type classRow struct {
	Class         int  `json:"class"`
	Size          int  `json:"size"`
	Pages         int  `json:"pages"`
	NumToMove     int  `json:"num_to_move"`
	ObjectsInSpan int  `json:"objects_per_span"`
	Cold          bool `json:"cold,omitempty"`
}

func newClassRow(m *sizemap.SizeMap, cl int) classRow {
	g := m.Geometry()
	info := m.ClassInfo(cl)
	row := classRow{
		Class:     cl,
		Size:      info.Size,
		Pages:     info.Pages,
		NumToMove: info.NumToMove,
		Cold:      m.IsColdClass(cl),
	}
	if info.Size > 0 {
		row.ObjectsInSpan = info.Pages * g.PageSize() / info.Size
	}
	return row
}

func runDump() error {
	m, err := buildSizeMap()
	if err != nil {
		return err
	}
	g := m.Geometry()

	if dumpRegister >= g.NumRegisters() {
		return fmt.Errorf("register %d out of range (geometry %s has %d)", dumpRegister, g.Name, g.NumRegisters())
	}

	var rows []classRow
	for reg := 0; reg < g.NumRegisters(); reg++ {
		if dumpRegister >= 0 && reg != dumpRegister {
			continue
		}
		// Class 0 is reserved; stop at the zero tail
		for i := 1; i < g.NumBaseClasses; i++ {
			cl := reg*g.NumBaseClasses + i
			if m.ClassSize(cl) == 0 {
				break
			}
			rows = append(rows, newClassRow(m, cl))
		}
	}

	if jsonOut {
		return printJSON(rows)
	}

	printInfo("%-6s %10s %6s %6s %8s\n", "CLASS", "SIZE", "PAGES", "BATCH", "OBJECTS")
	for _, r := range rows {
		mark := ""
		if r.Cold {
			mark = " cold"
		}
		printInfo("%-6d %10s %6d %6d %8d%s\n", r.Class, bytesString(r.Size), r.Pages, r.NumToMove, r.ObjectsInSpan, mark)
	}
	printInfo("\n%d classes (%d populated per register)\n", len(rows), m.NumPopulatedClasses()-1)
	return nil
}
