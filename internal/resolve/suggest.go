package resolve

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

const maxSuggestions = 3

// Suggest returns up to three registered names close to name: fuzzy
// subsequence matches first, then names within a small edit distance.
func Suggest(name string, names []string) []string {
	if name == "" || len(names) == 0 {
		return nil
	}
	type cand struct {
		name string
		dist int
	}
	seen := make(map[string]bool)
	var cands []cand

	ranks := fuzzy.RankFindFold(name, names)
	sort.Sort(ranks)
	for _, r := range ranks {
		if r.Target == name || seen[r.Target] {
			continue
		}
		seen[r.Target] = true
		cands = append(cands, cand{name: r.Target, dist: r.Distance})
	}

	limit := max(1, len(name)/3)
	for _, n := range names {
		if n == name || seen[n] {
			continue
		}
		if d := fuzzy.LevenshteinDistance(name, n); d <= limit {
			seen[n] = true
			cands = append(cands, cand{name: n, dist: d})
		}
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].dist != cands[j].dist {
			return cands[i].dist < cands[j].dist
		}
		return cands[i].name < cands[j].name
	})
	out := make([]string, 0, maxSuggestions)
	for _, c := range cands {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, c.name)
	}
	return out
}
