package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mvvugt/LoFTK/internal/lof"
	"github.com/mvvugt/LoFTK/internal/merge"
	"github.com/mvvugt/LoFTK/internal/output"
)

func newMergeCmd() *cobra.Command {
	var (
		outPath string
		union   bool
		wing    string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "merge [flags] <study.lof> <study.lof> [more...]",
		Short: "Merge two or more LoF genotype tables into one",
		Long: `Merge per-study LoF genotype tables into one combined table.

By default only variants present in every study are kept (intersection).
With --union, variants present in any study are kept and the genotype
columns of studies lacking a variant are padded with the wing value.

Carrier counts and frequencies are recomputed from the raw per-sample
genotypes; the frequency columns of the input files are ignored.`,
		Example: `  lof-merge merge -o combined.lof study1.lof study2.lof
  lof-merge merge --union --wing 0 -o combined.lof study1.lof study2.lof study3.lof
  lof-merge merge --force -o combined.lof study1.lof.gz study2.lof.gz`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Persisted defaults apply only where flags were not given.
			if !cmd.Flags().Changed("union") && viper.IsSet("merge.union") {
				union = viper.GetBool("merge.union")
			}
			if !cmd.Flags().Changed("wing") && viper.IsSet("merge.wing") {
				wing = viper.GetString("merge.wing")
			}
			return runMerge(args, outPath, union, wing, force)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file for the combined table (required)")
	cmd.Flags().BoolVar(&union, "union", false, "Keep variants present in any study instead of every study")
	cmd.Flags().StringVar(&wing, "wing", "0", "Filler genotype for studies lacking a variant (union mode only)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite the output file if it exists")

	return cmd
}

func runMerge(paths []string, outPath string, union bool, wing string, force bool) error {
	if len(paths) < 2 {
		return configErrorf("at least 2 input files required, got %d", len(paths))
	}
	if outPath == "" {
		return configErrorf("output file required (--out)")
	}
	if !force {
		if _, err := os.Stat(outPath); err == nil {
			return configErrorf("output file %s exists (use --force to overwrite)", outPath)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("input file %s: %w", path, err)
		}
		if !info.Mode().IsRegular() {
			return fmt.Errorf("input file %s: not a regular file", path)
		}
	}

	studies, err := readStudies(paths)
	if err != nil {
		return err
	}

	mode := merge.ModeIntersection
	if union {
		mode = merge.ModeUnion
	}

	merger := merge.New(mode, wing)
	merger.SetLogger(logger)

	result, err := merger.Merge(studies)
	if err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	if err := output.NewTabWriter(out).WriteResult(result); err != nil {
		out.Close()
		os.Remove(outPath)
		return fmt.Errorf("write combined table: %w", err)
	}

	return out.Close()
}

// readStudies parses every input table, in command-line order.
func readStudies(paths []string) ([]*lof.Study, error) {
	studies := make([]*lof.Study, 0, len(paths))
	for _, path := range paths {
		study, err := readStudy(path)
		if err != nil {
			return nil, err
		}

		logger.Info("parsed study",
			zap.String("study", study.Name),
			zap.Int("samples", study.SampleCount()),
			zap.Int("variants", study.VariantCount()),
			zap.Int("warnings", len(study.Warnings)))

		studies = append(studies, study)
	}
	return studies, nil
}

func readStudy(path string) (*lof.Study, error) {
	parser, err := lof.NewParser(path)
	if err != nil {
		return nil, err
	}
	defer parser.Close()

	parser.SetLogger(logger)
	return parser.Read()
}
