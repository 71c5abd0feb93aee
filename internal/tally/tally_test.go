package tally

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gradnight/superlatives/internal/models"
)

var base = time.Date(2026, 5, 20, 19, 0, 0, 0, time.UTC)

func question(nominees ...string) *models.Superlative {
	s := &models.Superlative{ID: uuid.New(), Title: "Most likely to succeed"}
	for _, n := range nominees {
		s.Nominees = append(s.Nominees, models.Nominee{Name: n})
	}
	return s
}

func vote(sec int, nominee string, role models.Role) models.Vote {
	return models.Vote{
		ID:              uuid.New(),
		ParticipantID:   uuid.New(),
		ParticipantRole: role,
		NomineeName:     nominee,
		CastAt:          base.Add(time.Duration(sec) * time.Second),
	}
}

func TestComputeStandingNoVotes(t *testing.T) {
	if st := ComputeStanding(question("A", "B"), nil); st != nil {
		t.Fatalf("expected nil standing with no votes, got %+v", st)
	}
}

func TestComputeStandingExcludesZeroScore(t *testing.T) {
	st := ComputeStanding(question("A", "B", "C"), []models.Vote{
		vote(1, "A", models.RoleGuest),
	})
	if st == nil {
		t.Fatal("expected standing")
	}
	if len(st.Nominees) != 1 || st.Nominees[0].Name != "A" {
		t.Fatalf("expected only A ranked, got %+v", st.Nominees)
	}
}

func TestSimpleMajority(t *testing.T) {
	// 3 participants vote {A, A, B}: A wins with score 2, no tie.
	st := ComputeStanding(question("A", "B"), []models.Vote{
		vote(1, "A", models.RoleGuest),
		vote(2, "A", models.RoleGuest),
		vote(3, "B", models.RoleGuest),
	})
	winners := st.Winners()
	if len(winners) != 1 {
		t.Fatalf("expected one winner, got %+v", winners)
	}
	if w := winners[0]; w.NomineeName != "A" || w.Score != 2 || w.IsTie {
		t.Fatalf("expected A score 2 not tied, got %+v", w)
	}
}

func TestGraduatingVotesBreakTie(t *testing.T) {
	// 1-1 on raw score; B's vote came from a graduating participant.
	st := ComputeStanding(question("A", "B"), []models.Vote{
		vote(1, "A", models.RoleGuest),
		vote(2, "B", models.RoleGraduating),
	})
	winners := st.Winners()
	if len(winners) != 1 || winners[0].NomineeName != "B" {
		t.Fatalf("expected graduating vote to break tie for B, got %+v", winners)
	}
	if winners[0].IsTie {
		t.Fatal("tie broken on secondary key must not be reported as tie")
	}
}

func TestEarliestVoteBreaksTie(t *testing.T) {
	st := ComputeStanding(question("A", "B"), []models.Vote{
		vote(5, "B", models.RoleGuest),
		vote(9, "A", models.RoleGuest),
	})
	// Votes arrive in ascending cast order: B was voted for first.
	winners := st.Winners()
	if len(winners) != 1 || winners[0].NomineeName != "B" {
		t.Fatalf("expected earliest-voted nominee B to win, got %+v", winners)
	}
}

func TestExactTieOnAllThreeKeys(t *testing.T) {
	shared := base.Add(3 * time.Second)
	votes := []models.Vote{
		{ID: uuid.New(), ParticipantID: uuid.New(), ParticipantRole: models.RoleGuest, NomineeName: "A", CastAt: shared},
		{ID: uuid.New(), ParticipantID: uuid.New(), ParticipantRole: models.RoleGuest, NomineeName: "B", CastAt: shared},
	}
	winners := ComputeStanding(question("A", "B"), votes).Winners()
	if len(winners) != 2 {
		t.Fatalf("expected two tied winners, got %+v", winners)
	}
	for _, w := range winners {
		if !w.IsTie {
			t.Fatalf("expected IsTie on %s", w.NomineeName)
		}
		if w.Score != 1 {
			t.Fatalf("expected score 1, got %+v", w)
		}
	}
}

func TestWinnerSetExcludesLowerRanks(t *testing.T) {
	// A and B tie at 2; C trails at 1 and must not appear in the winner set.
	tA, tB := base.Add(1*time.Second), base.Add(1*time.Second)
	votes := []models.Vote{
		{ID: uuid.New(), ParticipantID: uuid.New(), NomineeName: "A", ParticipantRole: models.RoleGuest, CastAt: tA},
		{ID: uuid.New(), ParticipantID: uuid.New(), NomineeName: "B", ParticipantRole: models.RoleGuest, CastAt: tB},
		vote(2, "A", models.RoleGuest),
		vote(2, "B", models.RoleGuest),
		vote(4, "C", models.RoleGuest),
	}
	winners := ComputeStanding(question("A", "B", "C"), votes).Winners()
	if len(winners) != 2 {
		t.Fatalf("expected A and B tied, got %+v", winners)
	}
	for _, w := range winners {
		if w.NomineeName == "C" {
			t.Fatal("C must not be in the winner set")
		}
	}
}

func TestDeterministicAcrossCalls(t *testing.T) {
	q := question("A", "B", "C")
	votes := []models.Vote{
		vote(1, "C", models.RoleGraduating),
		vote(2, "A", models.RoleGuest),
		vote(3, "B", models.RoleGuest),
		vote(4, "A", models.RoleGraduating),
		vote(5, "C", models.RoleGuest),
	}
	first := ComputeStanding(q, votes)
	second := ComputeStanding(q, votes)
	if len(first.Nominees) != len(second.Nominees) {
		t.Fatal("standing length differs between identical calls")
	}
	for i := range first.Nominees {
		if first.Nominees[i].Name != second.Nominees[i].Name {
			t.Fatalf("order differs at %d: %s vs %s", i, first.Nominees[i].Name, second.Nominees[i].Name)
		}
	}
}

func TestVoteForRemovedNomineeIgnored(t *testing.T) {
	st := ComputeStanding(question("A"), []models.Vote{
		vote(1, "Ghost", models.RoleGuest),
	})
	if st != nil {
		t.Fatalf("votes for unknown nominees must not produce a standing, got %+v", st)
	}
}

func TestCounts(t *testing.T) {
	counts := Counts(question("A", "B"), []models.Vote{
		vote(1, "A", models.RoleGuest),
		vote(2, "A", models.RoleGraduating),
		vote(3, "Ghost", models.RoleGuest),
	})
	if counts["A"] != 2 || counts["B"] != 0 {
		t.Fatalf("unexpected counts %v", counts)
	}
	if _, ok := counts["Ghost"]; ok {
		t.Fatal("unknown nominee must not appear in counts")
	}
}
