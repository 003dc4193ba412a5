package core

import "sort"

// ExpenseGroup is a cluster of expense entries judged similar enough by name
// to report as one aggregate line. It is recomputed per report call and never
// persisted.
type ExpenseGroup struct {
	Name    string        `json:"nome"`
	Total   float64       `json:"total"`
	Count   int           `json:"quantidade"`
	Average float64       `json:"media"`
	Members []DetailEntry `json:"itens"`
}

// GroupExpenses clusters expense entries by name similarity. Each entry is
// assigned to the FIRST existing group (in group-creation order) whose key
// scores above 0.7, not the best-scoring one; an entry can therefore land in
// an earlier, less similar group. That quirk is part of the observed contract.
//
// A group's key is the normalized name of its first member; its reported name
// is that member's raw name. Output is sorted by descending total, creation
// order preserved on ties. Pure and deterministic for a given input order.
func GroupExpenses(expenses []DetailEntry) []ExpenseGroup {
	keys := make([]string, 0)
	groups := make(map[string]*ExpenseGroup)

	for _, e := range expenses {
		nameNorm := Normalize(e.Name)

		assigned := false
		for _, key := range keys {
			if Similarity(nameNorm, key) > 0.7 {
				g := groups[key]
				g.Total += e.Amount
				g.Count++
				g.Members = append(g.Members, e)
				assigned = true
				break
			}
		}

		if !assigned {
			groups[nameNorm] = &ExpenseGroup{
				Name:    e.Name,
				Total:   e.Amount,
				Count:   1,
				Members: []DetailEntry{e},
			}
			keys = append(keys, nameNorm)
		}
	}

	out := make([]ExpenseGroup, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		g.Average = g.Total / float64(g.Count)
		out = append(out, *g)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}
