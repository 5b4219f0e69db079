package resolve

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Suggest returns up to max near-matches for an unresolved key from
// the given set, closest first. Purely advisory; suggestions never
// enter the output mapping.
func Suggest(key string, set NameSet, max int) []string {
	if key == "" || set.Len() == 0 || max <= 0 {
		return nil
	}

	ranks := fuzzy.RankFind(key, set.Names())
	if len(ranks) == 0 {
		return nil
	}
	sort.Sort(ranks)

	thr := distanceThreshold(len(key))
	out := make([]string, 0, max)
	for _, r := range ranks {
		if r.Distance > thr {
			break
		}
		out = append(out, r.Target)
		if len(out) == max {
			break
		}
	}
	return out
}

// distanceThreshold caps the acceptable edit distance at roughly 20%
// of the key length, clamped to [1, 3].
func distanceThreshold(n int) int {
	th := n / 5
	if th < 1 {
		return 1
	}
	if th > 3 {
		return 3
	}
	return th
}
