// Package summary builds the cross-question wrap-up shown after the session
// completes: who won what, grouped by nominee. It reads only frozen results,
// never the raw vote ledger, so it stays cheap and stable long after the
// session ends.
package summary

import (
	"github.com/gradnight/superlatives/internal/models"
)

// NomineeSummary lists the superlative titles one nominee won.
type NomineeSummary struct {
	NomineeName string   `json:"nominee_name"`
	ImageRef    string   `json:"image_ref,omitempty"`
	TitlesWon   []string `json:"titles_won"`
}

// Build aggregates every frozen winner entry by nominee name. Superlatives
// must be in catalog order; titles accumulate in that order, tied winners
// each receive credit, and never-revealed questions are skipped. An empty
// slice (not nil handling upstream, not an error) is the result when nothing
// was revealed.
func Build(superlatives []models.Superlative) []NomineeSummary {
	byName := make(map[string]*NomineeSummary)
	var order []string

	for _, s := range superlatives {
		if s.FrozenResult == nil {
			continue
		}
		for _, w := range s.FrozenResult.Winners {
			entry, ok := byName[w.NomineeName]
			if !ok {
				entry = &NomineeSummary{NomineeName: w.NomineeName, ImageRef: w.ImageRef}
				byName[w.NomineeName] = entry
				order = append(order, w.NomineeName)
			}
			if entry.ImageRef == "" {
				entry.ImageRef = w.ImageRef
			}
			entry.TitlesWon = append(entry.TitlesWon, s.Title)
		}
	}

	out := make([]NomineeSummary, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	return out
}
