package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvvugt/LoFTK/internal/lof"
	"github.com/mvvugt/LoFTK/internal/merge"
)

func TestTabWriter_WriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	studies := []*lof.Study{
		{Name: "study1", Samples: []string{"A1", "A2"}},
		{Name: "study2", Samples: []string{"B1", "B2", "B3"}},
	}

	require.NoError(t, w.WriteHeader(studies))
	require.NoError(t, w.Flush())

	header := strings.TrimRight(buf.String(), "\n")
	fields := strings.Split(header, "\t")

	expected := []string{
		"SNP_ID",
		"Allele",
		"Consequence",
		"gene_ID",
		"gene_symbol",
		"heterozygous_LoF_frequency",
		"homozygous_LoF_frequency",
		"heterozygous_LoF_carriers",
		"homozygous_LoF_carriers",
		"A1", "A2",
		"B1", "B2", "B3",
	}
	assert.Equal(t, expected, fields)
}

func TestTabWriter_WriteRow(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	row := merge.Row{
		Key: lof.VariantKey{
			SNPID:       "rs1",
			Allele:      "A",
			Consequence: "stop_gained",
			GeneID:      "ENSG01",
			GeneSymbol:  "BRCA1",
		},
		HetFreq:   "0.4",
		HomFreq:   "0.2",
		HetCount:  2,
		HomCount:  1,
		Genotypes: "0\t1\t2\t1\t0",
	}

	require.NoError(t, w.Write(row))
	require.NoError(t, w.Flush())

	assert.Equal(t, "rs1\tA\tstop_gained\tENSG01\tBRCA1\t0.4\t0.2\t2\t1\t0\t1\t2\t1\t0\n", buf.String())
}

func TestTabWriter_WriteResult(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	result := &merge.Result{
		Mode: merge.ModeIntersection,
		Studies: []*lof.Study{
			{Name: "study1", Samples: []string{"A1"}},
			{Name: "study2", Samples: []string{"B1"}},
		},
		Rows: []merge.Row{
			{
				Key:       lof.VariantKey{SNPID: "rs1", Allele: "A", Consequence: "stop_gained", GeneID: "ENSG01", GeneSymbol: "BRCA1"},
				HetFreq:   "0.5",
				HomFreq:   "0",
				HetCount:  1,
				HomCount:  0,
				Genotypes: "1\t0",
			},
			{
				Key:       lof.VariantKey{SNPID: "rs2", Allele: "T", Consequence: "frameshift_variant", GeneID: "ENSG02", GeneSymbol: "TTN"},
				HetFreq:   "NA",
				HomFreq:   "NA",
				HetCount:  0,
				HomCount:  0,
				Genotypes: "0\t0",
			},
		},
	}

	require.NoError(t, w.WriteResult(result))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "SNP_ID\t"))
	assert.True(t, strings.HasSuffix(lines[0], "\tA1\tB1"))
	assert.Equal(t, "rs1\tA\tstop_gained\tENSG01\tBRCA1\t0.5\t0\t1\t0\t1\t0", lines[1])
	assert.Equal(t, "rs2\tT\tframeshift_variant\tENSG02\tTTN\tNA\tNA\t0\t0\t0\t0", lines[2])
}
