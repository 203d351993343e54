package scoring

import (
	"sort"

	"github.com/litescript/ls-nightwatch/internal/sky"
)

// Selection controls SelectBest.
type Selection struct {
	MaxObjects       int
	MinScore         float64
	PerSubtypeCap    int
	ExceptionalScore float64
	EnsureCategories bool
}

// DefaultSelection returns the standard highlight rules.
func DefaultSelection(maxObjects int) Selection {
	return Selection{
		MaxObjects:       maxObjects,
		MinScore:         60,
		PerSubtypeCap:    3,
		ExceptionalScore: 180,
		EnsureCategories: true,
	}
}

// Rank sorts scored objects by descending total. Ties break on ID so output
// is stable across runs.
func Rank(scored []ScoredObject) {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].TotalScore != scored[j].TotalScore {
			return scored[i].TotalScore > scored[j].TotalScore
		}
		return scored[i].Object.ID < scored[j].Object.ID
	})
}

// SelectBest picks a varied highlight list. Objects below MinScore are
// dropped unless nothing qualifies, in which case the top MaxObjects are
// returned. The best object of each category is kept first, then the rest
// fill by rank with at most PerSubtypeCap per subtype. Objects at or above
// ExceptionalScore ignore the subtype cap.
func SelectBest(scored []ScoredObject, sel Selection) []ScoredObject {
	ranked := append([]ScoredObject(nil), scored...)
	Rank(ranked)

	limit := sel.MaxObjects
	if limit <= 0 || limit > len(ranked) {
		limit = len(ranked)
	}

	var viable []ScoredObject
	for _, so := range ranked {
		if so.TotalScore >= sel.MinScore {
			viable = append(viable, so)
		}
	}
	if len(viable) == 0 {
		return ranked[:limit]
	}

	picked := make(map[string]bool)
	perSubtype := make(map[sky.Subtype]int)
	var out []ScoredObject
	take := func(so ScoredObject) {
		picked[so.Object.ID] = true
		perSubtype[so.Object.Subtype]++
		out = append(out, so)
	}

	if sel.EnsureCategories {
		for _, cat := range sky.Categories() {
			if len(out) >= limit {
				break
			}
			for _, so := range viable {
				if so.Object.Category == cat {
					take(so)
					break
				}
			}
		}
	}

	for _, so := range viable {
		if len(out) >= limit {
			break
		}
		if picked[so.Object.ID] {
			continue
		}
		if sel.PerSubtypeCap > 0 && perSubtype[so.Object.Subtype] >= sel.PerSubtypeCap &&
			so.TotalScore < sel.ExceptionalScore {
			continue
		}
		take(so)
	}

	Rank(out)
	return out
}
