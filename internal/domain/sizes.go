package domain

import "sort"

// referenceSizeOrder is the canonical ordering for standard apparel sizes.
// Labels outside this list sort after all standard labels, alphabetically.
var referenceSizeOrder = []string{"XS", "S", "M", "L", "XL", "2XL", "3XL", "4XL", "5XL"}

var referenceSizeRank = func() map[string]int {
	m := make(map[string]int, len(referenceSizeOrder))
	for i, label := range referenceSizeOrder {
		m[label] = i
	}
	return m
}()

// SortSizeLabels deduplicates and orders size labels: standard sizes first in
// XS..5XL order, then non-standard labels alphabetically.
func SortSizeLabels(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	unique := make([]string, 0, len(labels))
	for _, label := range labels {
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		unique = append(unique, label)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		ri, iStd := referenceSizeRank[unique[i]]
		rj, jStd := referenceSizeRank[unique[j]]
		switch {
		case iStd && jStd:
			return ri < rj
		case iStd:
			return true
		case jStd:
			return false
		default:
			return unique[i] < unique[j]
		}
	})

	return unique
}
