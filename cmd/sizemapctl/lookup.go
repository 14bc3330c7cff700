package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshuapare/segalloc/sizemap"
)

func init() {
	rootCmd.AddCommand(newLookupCmd())
}

func newLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <size>...",
		Short: "Map request sizes to size classes",
		Long: `The lookup command prints the class that serves each request size. With
--cold it also prints the class used for cold allocations.

Example:
  sizemapctl lookup 100 1000 70000
  sizemapctl lookup 5000 --cold --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(args)
		},
	}
	return cmd
}

type lookupResult struct {
	Size      int  `json:"size"`
	Class     int  `json:"class"`
	ClassSize int  `json:"class_size"`
	ColdClass *int `json:"cold_class,omitempty"`
	ColdSize  *int `json:"cold_class_size,omitempty"`
}

func runLookup(args []string) error {
	sizes := make([]int, len(args))
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid size %q", arg)
		}
		sizes[i] = n
	}

	m, err := buildSizeMap()
	if err != nil {
		return err
	}

	results := make([]lookupResult, 0, len(sizes))
	for _, size := range sizes {
		cl, ok := m.SizeClass(size, sizemap.AccessHot)
		if !ok {
			g := m.Geometry()
			return fmt.Errorf("size %d above the largest class (%d)", size, g.MaxSize)
		}
		res := lookupResult{Size: size, Class: cl, ClassSize: m.ClassSize(cl)}
		if coldFlag {
			ccl, _ := m.SizeClass(size, sizemap.AccessCold)
			csize := m.ClassSize(ccl)
			res.ColdClass, res.ColdSize = &ccl, &csize
		}
		results = append(results, res)
	}

	if jsonOut {
		return printJSON(results)
	}

	for _, r := range results {
		printInfo("%s -> class %d (%s bytes)", bytesString(r.Size), r.Class, bytesString(r.ClassSize))
		if r.ColdClass != nil {
			printInfo(", cold class %d (%s bytes)", *r.ColdClass, bytesString(*r.ColdSize))
		}
		printInfo("\n")
	}
	return nil
}
