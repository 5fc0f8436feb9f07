// Package lof provides parsing and data structures for LoF genotype tables.
package lof

// Genotype tokens as encoded in the per-sample columns of a LoF table.
// Any other token is counted toward the sample total but not toward
// either carrier count.
const (
	GenotypeNonCarrier = "0"
	GenotypeHetCarrier = "1"
	GenotypeHomCarrier = "2"
)

// FixedColumns is the number of leading metadata columns in a LoF table;
// every column after these holds one sample's genotype call.
const FixedColumns = 9

// KeyColumns is the number of leading columns that form the variant key.
// The columns between KeyColumns and FixedColumns carry per-study
// frequencies and carrier counts, which are never trusted on input and
// always recomputed from the raw genotypes.
const KeyColumns = 5

// VariantKey identifies a variant-allele-consequence-gene combination.
// It is the join key when tables from multiple studies are merged.
type VariantKey struct {
	SNPID       string
	Allele      string
	Consequence string
	GeneID      string
	GeneSymbol  string
}

// Fields returns the key's columns in table order.
func (k VariantKey) Fields() []string {
	return []string{k.SNPID, k.Allele, k.Consequence, k.GeneID, k.GeneSymbol}
}

// VariantRecord holds the genotype data for one variant in one study.
type VariantRecord struct {
	HetCount     int    // samples with genotype "1"
	HomCount     int    // samples with genotype "2"
	TotalSamples int    // genotype columns on this row, recomputed per row
	Genotypes    string // per-sample tokens re-joined with tab, original order
}

// Study is one fully parsed LoF table.
//
// Keys preserves the order variants appear in the file. A duplicate key
// keeps its first position but its record is overwritten, so the last
// occurrence in the file wins.
type Study struct {
	Name     string
	Samples  []string
	Keys     []VariantKey
	Records  map[VariantKey]VariantRecord
	Warnings []ParseWarning
}

// VariantCount returns the number of distinct variants in the study.
func (s *Study) VariantCount() int {
	return len(s.Keys)
}

// SampleCount returns the number of samples declared in the header.
func (s *Study) SampleCount() int {
	return len(s.Samples)
}

// CarrierTotals sums het and hom carrier counts across all variants.
func (s *Study) CarrierTotals() (het, hom int) {
	for _, rec := range s.Records {
		het += rec.HetCount
		hom += rec.HomCount
	}
	return het, hom
}
