package grep

import "sort"

// AnyOf selects a line when any of its members matches. Each member keeps
// its own group numbering, which joining patterns with | would not.
type AnyOf []Finder

// MatchString implements regrep.Matcher.
func (a AnyOf) MatchString(s string) bool {
	for _, f := range a {
		if f.MatchString(s) {
			return true
		}
	}
	return false
}

// FindAllStringIndex merges the matches of all members, ordered by start.
// A match overlapping an earlier one is dropped; of two matches starting at
// the same offset the longer is kept.
func (a AnyOf) FindAllStringIndex(s string, n int) [][]int {
	if n == 0 {
		return nil
	}
	var all [][]int
	for _, f := range a {
		all = append(all, f.FindAllStringIndex(s, -1)...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i][0] != all[j][0] {
			return all[i][0] < all[j][0]
		}
		return all[i][1] > all[j][1]
	})

	var out [][]int
	end := -1
	for _, loc := range all {
		if loc[0] < end || (loc[0] == end && loc[0] == loc[1]) {
			continue
		}
		out = append(out, loc)
		end = loc[1]
		if n > 0 && len(out) >= n {
			break
		}
	}
	return out
}
