// Package merge combines LoF genotype tables from multiple studies
// into a single variant-keyed table.
package merge

import (
	"errors"

	"github.com/mvvugt/LoFTK/internal/lof"
)

// Mode selects which variants the merged table contains.
type Mode int

const (
	// ModeIntersection keeps variants present in every study.
	ModeIntersection Mode = iota
	// ModeUnion keeps variants present in any study, padding absent
	// studies with a filler genotype.
	ModeUnion
)

func (m Mode) String() string {
	if m == ModeUnion {
		return "union"
	}
	return "intersection"
}

// ErrTooFewStudies is returned when fewer than two studies are given
// to combine; merging a single table is meaningless.
var ErrTooFewStudies = errors.New("merge: at least 2 studies required")

// CombineKeys computes the set of variant keys the merged table will
// contain, in deterministic order: intersection walks the first study's
// keys in file order; union walks studies in input order and keeps the
// first appearance of each key.
func CombineKeys(studies []*lof.Study, mode Mode) ([]lof.VariantKey, error) {
	if len(studies) < 2 {
		return nil, ErrTooFewStudies
	}

	if mode == ModeUnion {
		return unionKeys(studies), nil
	}
	return intersectKeys(studies), nil
}

func intersectKeys(studies []*lof.Study) []lof.VariantKey {
	var keys []lof.VariantKey
	for _, key := range studies[0].Keys {
		inAll := true
		for _, s := range studies[1:] {
			if _, ok := s.Records[key]; !ok {
				inAll = false
				break
			}
		}
		if inAll {
			keys = append(keys, key)
		}
	}
	return keys
}

func unionKeys(studies []*lof.Study) []lof.VariantKey {
	var keys []lof.VariantKey
	seen := make(map[lof.VariantKey]struct{})
	for _, s := range studies {
		for _, key := range s.Keys {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	return keys
}
