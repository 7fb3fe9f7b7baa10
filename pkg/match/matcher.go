package match

import (
	"math"

	"github.com/agnivade/levenshtein"

	"tc.com/asset-prices/pkg/sources"
)

// DefaultThreshold is the similarity score (0-100) above which two record
// names are considered the same asset.
const DefaultThreshold = 80

// Group is a cluster of raw records judged to represent the same asset.
// Key is the unmodified display name of the record that seeded the group.
type Group struct {
	Key     string
	Records []sources.RawRecord
}

// Similarity scores how alike two names are on a 0-100 scale.
// Both inputs are normalized first; equal normalized forms score 100, two
// empty normalized forms score 0, and everything else is derived from the
// Levenshtein edit distance relative to the longer normalized length.
func Similarity(a, b string) int {
	na := Normalize(a)
	nb := Normalize(b)

	if na == "" && nb == "" {
		return 0
	}
	if na == nb {
		return 100
	}

	dist := levenshtein.ComputeDistance(na, nb)
	maxLen := len(na)
	if len(nb) > maxLen {
		maxLen = len(nb)
	}

	return int(math.Round(float64(maxLen-dist) / float64(maxLen) * 100))
}

// FindMatches clusters records by name similarity using single-pass,
// anchor-based greedy grouping: in input order, each not-yet-assigned record
// seeds a new group, and every later unassigned record joins that group when
// its similarity TO THE SEED meets the threshold.
//
// Clustering is deliberately not transitively closed: a record similar to a
// non-seed member but not to the seed itself does not join the group. Every
// record ends up in exactly one group.
func FindMatches(records []sources.RawRecord, threshold int) []Group {
	groups := make([]Group, 0, len(records))
	assigned := make([]bool, len(records))

	for i, seed := range records {
		if assigned[i] {
			continue
		}
		assigned[i] = true

		group := Group{
			Key:     seed.Name,
			Records: []sources.RawRecord{seed},
		}

		for j := i + 1; j < len(records); j++ {
			if assigned[j] {
				continue
			}
			if Similarity(seed.Name, records[j].Name) >= threshold {
				group.Records = append(group.Records, records[j])
				assigned[j] = true
			}
		}

		groups = append(groups, group)
	}

	return groups
}
