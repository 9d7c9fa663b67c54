package inventory

import (
	"context"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Match is a search hit with its relevance
type Match struct {
	Item  Item    `json:"item"`
	Score float64 `json:"score"`
}

// Search finds items whose name matches query exactly, by prefix, by
// substring or within a small edit distance of the name or one of its words.
func (s *Store) Search(ctx context.Context, query string) ([]Match, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return rank(items, query), nil
}

func rank(items []Item, query string) []Match {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []Match{}
	}

	matches := make([]Match, 0, len(items))
	for _, it := range items {
		if score, ok := matchScore(q, strings.ToLower(it.Name)); ok {
			matches = append(matches, Match{Item: it, Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score == matches[j].Score {
			return matches[i].Item.Name < matches[j].Item.Name
		}
		return matches[i].Score > matches[j].Score
	})
	return matches
}

func matchScore(q, name string) (float64, bool) {
	switch {
	case q == name:
		return 1.0, true
	case strings.HasPrefix(name, q) && len(q) >= 2:
		return 0.9, true
	case strings.Contains(name, q) && len(q) >= 3:
		return 0.8, true
	}
	if len(q) < 3 {
		return 0, false
	}

	best := -1
	for _, cand := range append(strings.Fields(name), name) {
		dist := levenshtein.ComputeDistance(q, cand)
		if dist > distanceLimit(len(cand)) {
			continue
		}
		if best < 0 || dist < best {
			best = dist
		}
	}
	if best < 0 {
		return 0, false
	}
	return 0.72 - 0.08*float64(best), true
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
