// Package tally turns the vote ledger for one superlative into ranked
// nominee standings and a winner/tie determination. It is a pure function of
// (superlative, votes) so every caller computing from the same ledger
// snapshot converges on the same result.
package tally

import (
	"sort"
	"time"

	"github.com/gradnight/superlatives/internal/models"
)

// NomineeScore is one nominee's accumulated standing.
type NomineeScore struct {
	Name            string     `json:"name"`
	ImageRef        string     `json:"image_ref,omitempty"`
	Score           int        `json:"score"`
	GraduatingVotes int        `json:"graduating_votes"`
	FirstVoteAt     *time.Time `json:"first_vote_at,omitempty"`
}

// Standing is the ranked outcome for one superlative. Nominees are ordered
// best-first; the winner set is the leading run of nominees equal to the
// top entry on all three ranking keys.
type Standing struct {
	Nominees []NomineeScore
}

// ComputeStanding ranks votes for a superlative. Votes must be in ascending
// cast order (the store assigns cast_at at write time and the ledger query
// orders by it). Nominees with zero votes are excluded; the result is nil
// when no nominee received a vote.
//
// Ranking: score desc, then graduating votes desc, then first vote earliest.
// Every vote counts 1 regardless of role; graduating votes additionally feed
// the secondary key so the graduating cohort's preference breaks raw-score
// ties; earliest-first-vote makes the final order reproducible from the
// ledger with no random resolution.
func ComputeStanding(s *models.Superlative, votes []models.Vote) *Standing {
	if s == nil || len(s.Nominees) == 0 {
		return nil
	}

	byName := make(map[string]*NomineeScore, len(s.Nominees))
	ordered := make([]*NomineeScore, 0, len(s.Nominees))
	for _, n := range s.Nominees {
		ns := &NomineeScore{Name: n.Name, ImageRef: n.ImageRef}
		byName[n.Name] = ns
		ordered = append(ordered, ns)
	}

	for _, v := range votes {
		ns, ok := byName[v.NomineeName]
		if !ok {
			continue // vote for a nominee no longer on the question
		}
		ns.Score++
		if v.ParticipantRole == models.RoleGraduating {
			ns.GraduatingVotes++
		}
		if ns.FirstVoteAt == nil {
			t := v.CastAt
			ns.FirstVoteAt = &t
		}
	}

	ranked := make([]NomineeScore, 0, len(ordered))
	for _, ns := range ordered {
		if ns.Score > 0 {
			ranked = append(ranked, *ns)
		}
	}
	if len(ranked) == 0 {
		return nil
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.GraduatingVotes != b.GraduatingVotes {
			return a.GraduatingVotes > b.GraduatingVotes
		}
		return earlier(a.FirstVoteAt, b.FirstVoteAt)
	})

	return &Standing{Nominees: ranked}
}

// Winners returns the winner set: every nominee tied with the top entry on
// score, graduating votes and first-vote time simultaneously. IsTie is set
// on each entry when the set has more than one member.
func (st *Standing) Winners() []models.Winner {
	if st == nil || len(st.Nominees) == 0 {
		return nil
	}
	top := st.Nominees[0]
	var winners []models.Winner
	for _, ns := range st.Nominees {
		if ns.Score != top.Score || ns.GraduatingVotes != top.GraduatingVotes || !sameTime(ns.FirstVoteAt, top.FirstVoteAt) {
			break
		}
		winners = append(winners, models.Winner{
			NomineeName: ns.Name,
			ImageRef:    ns.ImageRef,
			Score:       ns.Score,
		})
	}
	if len(winners) > 1 {
		for i := range winners {
			winners[i].IsTie = true
		}
	}
	return winners
}

// Counts returns per-nominee scores keyed by name, including zero-vote
// nominees. Used for live count broadcasts before reveal.
func Counts(s *models.Superlative, votes []models.Vote) map[string]int {
	counts := make(map[string]int, len(s.Nominees))
	for _, n := range s.Nominees {
		counts[n.Name] = 0
	}
	for _, v := range votes {
		if _, ok := counts[v.NomineeName]; ok {
			counts[v.NomineeName]++
		}
	}
	return counts
}

// earlier orders first-vote timestamps ascending; a missing timestamp sorts
// last.
func earlier(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.Before(*b)
	}
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
