// Package rank reorders skills sections so the items matching a job's
// keywords come first. Prose sections pass through untouched; every section
// keeps exactly its original items, only their order changes.
package rank

import (
	"sort"
	"strings"

	"tailor-backend/internal/keywords"
	"tailor-backend/internal/sections"
)

// Score sums the weights of the keywords whose term appears in the item
// text, case-insensitively. No match means zero; scores never filter items,
// they only order them.
func Score(text string, kws []keywords.Keyword) float64 {
	if text == "" || len(kws) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	var sum float64
	for _, kw := range kws {
		if kw.Term != "" && strings.Contains(lower, kw.Term) {
			sum += kw.Weight
		}
	}
	return sum
}

// Reorder returns a copy of secs with the items of every skills section
// stable-sorted by descending relevance score. Equal scores keep their
// original document position, lower first, so identical inputs always
// produce identical outputs. The input is never mutated and no item is
// added, removed or rewritten.
func Reorder(secs []sections.Section, kws []keywords.Keyword) []sections.Section {
	out := make([]sections.Section, len(secs))
	for i, sec := range secs {
		out[i] = sec
		if sec.Kind != sections.KindSkills || len(sec.Items) < 2 || len(kws) == 0 {
			continue
		}
		scored := make([]scoredItem, len(sec.Items))
		for j, it := range sec.Items {
			scored[j] = scoredItem{item: it, score: Score(it.Text, kws)}
		}
		sort.SliceStable(scored, func(a, b int) bool {
			if scored[a].score != scored[b].score {
				return scored[a].score > scored[b].score
			}
			return scored[a].item.Pos < scored[b].item.Pos
		})
		items := make([]sections.Item, len(scored))
		for j, s := range scored {
			items[j] = s.item
		}
		out[i].Items = items
	}
	return out
}

type scoredItem struct {
	item  sections.Item
	score float64
}
