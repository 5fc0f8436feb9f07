package merge

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mvvugt/LoFTK/internal/lof"
)

// FreqNA is emitted when the carrier frequency denominator is zero.
// Downstream tools string-match this token, so it is defined output,
// not an error.
const FreqNA = "NA"

// Row is one merged variant: recomputed frequencies and counts plus the
// per-sample genotypes of every study concatenated in input order.
// Frequencies are preformatted so the writer emits the exact literals.
type Row struct {
	Key       lof.VariantKey
	HetFreq   string
	HomFreq   string
	HetCount  int
	HomCount  int
	Genotypes string
}

// Result is a fully merged table.
type Result struct {
	Mode    Mode
	Studies []*lof.Study
	Rows    []Row
}

// Merger merges parsed studies into a combined table.
type Merger struct {
	mode   Mode
	wing   string
	logger *zap.Logger
}

// New creates a Merger. The wing value fills the genotype block of a
// study that lacks a variant in union mode.
func New(mode Mode, wing string) *Merger {
	return &Merger{
		mode:   mode,
		wing:   wing,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for progress and warning messages.
func (m *Merger) SetLogger(l *zap.Logger) {
	m.logger = l
}

// Merge combines the studies, in the order given, into one table.
// Aggregate counts are recomputed from the raw genotypes; the
// frequency columns of the inputs are never consulted.
func (m *Merger) Merge(studies []*lof.Study) (*Result, error) {
	keys, err := CombineKeys(studies, m.mode)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Mode:    m.mode,
		Studies: studies,
		Rows:    make([]Row, 0, len(keys)),
	}

	for _, key := range keys {
		row, err := m.aggregate(key, studies)
		if err != nil {
			return nil, err
		}
		result.Rows = append(result.Rows, row)
	}

	m.logger.Info("merged studies",
		zap.Int("studies", len(studies)),
		zap.Stringer("mode", m.mode),
		zap.Int("variants", len(result.Rows)))

	return result, nil
}

// aggregate folds one variant across all studies: counts and genotype
// blocks from studies that have it, wing-filled blocks from studies
// that lack it. The denominator is always the full cohort size, the
// sum of every study's header sample count.
func (m *Merger) aggregate(key lof.VariantKey, studies []*lof.Study) (Row, error) {
	var hetCount, homCount, totalSamples int
	blocks := make([]string, 0, len(studies))

	for _, s := range studies {
		totalSamples += len(s.Samples)

		rec, ok := s.Records[key]
		if !ok {
			if m.mode == ModeIntersection {
				// CombineKeys guarantees presence in every study.
				return Row{}, fmt.Errorf("merge: internal error: variant %s absent from study %s in intersection mode", key.SNPID, s.Name)
			}
			blocks = append(blocks, fillerBlock(m.wing, len(s.Samples)))
			continue
		}

		hetCount += rec.HetCount
		homCount += rec.HomCount
		blocks = append(blocks, rec.Genotypes)
	}

	return Row{
		Key:       key,
		HetFreq:   formatFreq(hetCount, totalSamples),
		HomFreq:   formatFreq(homCount, totalSamples),
		HetCount:  hetCount,
		HomCount:  homCount,
		Genotypes: strings.Join(blocks, "\t"),
	}, nil
}

// fillerBlock builds a genotype block of n copies of the wing value.
func fillerBlock(wing string, n int) string {
	if n == 0 {
		return ""
	}
	block := make([]string, n)
	for i := range block {
		block[i] = wing
	}
	return strings.Join(block, "\t")
}

// formatFreq formats a carrier frequency. A zero denominator yields the
// NA token and a zero numerator yields the integer literal "0", never
// "0.0"; both spellings are load-bearing for downstream consumers.
func formatFreq(count, total int) string {
	if total == 0 {
		return FreqNA
	}
	if count == 0 {
		return "0"
	}
	return strconv.FormatFloat(float64(count)/float64(total), 'g', -1, 64)
}
