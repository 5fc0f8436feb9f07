package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <study.lof> [more...]",
		Short: "Summarize LoF genotype tables",
		Long: `Print a per-file summary of one or more LoF genotype tables:
sample count, variant count, total het and hom carriers, and the number
of malformed lines encountered while parsing.`,
		Example: `  lof-merge stats study1.lof
  lof-merge stats study1.lof study2.lof.gz`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(args)
		},
	}
}

func runStats(paths []string) error {
	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"study", "samples", "variants", "het_carriers", "hom_carriers", "parse_warnings"}
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, path := range paths {
		study, err := readStudy(path)
		if err != nil {
			return err
		}

		het, hom := study.CarrierTotals()
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\n",
			study.Name, study.SampleCount(), study.VariantCount(), het, hom, len(study.Warnings))
	}

	return nil
}
