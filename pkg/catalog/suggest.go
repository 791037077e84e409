package catalog

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Suggest returns module ids close to id, nearest first.
func (c *Catalog) Suggest(id string) []string {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return nil
	}

	type hit struct {
		id   string
		dist int
	}
	var hits []hit
	for _, m := range c.modules {
		candidate := strings.ToLower(m.ID)
		dist := levenshtein.ComputeDistance(id, candidate)
		if dist > distanceLimit(len(candidate)) {
			continue
		}
		hits = append(hits, hit{id: m.ID, dist: dist})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].dist < hits[j].dist
	})

	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.id)
	}
	return out
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
