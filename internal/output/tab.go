// Package output provides merged-table output formatters.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/mvvugt/LoFTK/internal/lof"
	"github.com/mvvugt/LoFTK/internal/merge"
)

// TabWriter writes a merged LoF table in tab-delimited format.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"SNP_ID",
			"Allele",
			"Consequence",
			"gene_ID",
			"gene_symbol",
			"heterozygous_LoF_frequency",
			"homozygous_LoF_frequency",
			"heterozygous_LoF_carriers",
			"homozygous_LoF_carriers",
		},
	}
}

// WriteHeader writes the header line: the fixed columns followed by
// each study's sample names, studies in input order.
func (tw *TabWriter) WriteHeader(studies []*lof.Study) error {
	cols := make([]string, 0, len(tw.columns))
	cols = append(cols, tw.columns...)
	for _, s := range studies {
		cols = append(cols, s.Samples...)
	}

	_, err := tw.w.WriteString(strings.Join(cols, "\t") + "\n")
	return err
}

// Write writes a single merged variant row.
func (tw *TabWriter) Write(row merge.Row) error {
	values := append(row.Key.Fields(),
		row.HetFreq,
		row.HomFreq,
		strconv.Itoa(row.HetCount),
		strconv.Itoa(row.HomCount),
		row.Genotypes,
	)

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// WriteResult writes a complete merged table, header and all rows.
func (tw *TabWriter) WriteResult(result *merge.Result) error {
	if err := tw.WriteHeader(result.Studies); err != nil {
		return err
	}
	for _, row := range result.Rows {
		if err := tw.Write(row); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
