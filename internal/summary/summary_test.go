package summary

import (
	"reflect"
	"testing"

	"github.com/gradnight/superlatives/internal/models"
)

func frozen(winners ...models.Winner) *models.FrozenResult {
	return &models.FrozenResult{Winners: winners}
}

func TestBuildDistinctWinners(t *testing.T) {
	got := Build([]models.Superlative{
		{Title: "Best Laugh", FrozenResult: frozen(models.Winner{NomineeName: "X", Score: 3})},
		{Title: "Most Artistic", FrozenResult: frozen(models.Winner{NomineeName: "Y", Score: 2})},
	})
	want := []NomineeSummary{
		{NomineeName: "X", TitlesWon: []string{"Best Laugh"}},
		{NomineeName: "Y", TitlesWon: []string{"Most Artistic"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestBuildAccumulatesMultipleWins(t *testing.T) {
	got := Build([]models.Superlative{
		{Title: "Best Laugh", FrozenResult: frozen(models.Winner{NomineeName: "X", Score: 3})},
		{Title: "Most Artistic", FrozenResult: frozen(models.Winner{NomineeName: "X", Score: 4})},
	})
	if len(got) != 1 {
		t.Fatalf("expected a single nominee, got %+v", got)
	}
	want := []string{"Best Laugh", "Most Artistic"}
	if !reflect.DeepEqual(got[0].TitlesWon, want) {
		t.Fatalf("titles = %v, want %v", got[0].TitlesWon, want)
	}
}

func TestBuildCreditsEveryTiedWinner(t *testing.T) {
	got := Build([]models.Superlative{
		{Title: "Class Clown", FrozenResult: frozen(
			models.Winner{NomineeName: "X", Score: 2, IsTie: true},
			models.Winner{NomineeName: "Y", Score: 2, IsTie: true},
		)},
	})
	if len(got) != 2 {
		t.Fatalf("expected both tied nominees credited, got %+v", got)
	}
	for _, e := range got {
		if len(e.TitlesWon) != 1 || e.TitlesWon[0] != "Class Clown" {
			t.Fatalf("unexpected entry %+v", e)
		}
	}
}

func TestBuildSkipsUnrevealed(t *testing.T) {
	got := Build([]models.Superlative{
		{Title: "Never revealed"},
		{Title: "Revealed", FrozenResult: frozen(models.Winner{NomineeName: "X", Score: 1})},
	})
	if len(got) != 1 || got[0].TitlesWon[0] != "Revealed" {
		t.Fatalf("unrevealed questions must be skipped, got %+v", got)
	}
}

func TestBuildEmptyCatalog(t *testing.T) {
	got := Build(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected explicit empty summary, got %#v", got)
	}
}

func TestBuildKeepsFirstImageRef(t *testing.T) {
	got := Build([]models.Superlative{
		{Title: "One", FrozenResult: frozen(models.Winner{NomineeName: "X", ImageRef: "img/x.png"})},
		{Title: "Two", FrozenResult: frozen(models.Winner{NomineeName: "X"})},
	})
	if got[0].ImageRef != "img/x.png" {
		t.Fatalf("expected image ref preserved, got %+v", got[0])
	}
}
