package codenames

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testBoard() *Board {
	return &Board{Cards: []Card{
		{Codename: "apple", Agent: BlueAgent},
		{Codename: "moon", Agent: RedAgent},
		{Codename: "sun", Agent: BlueAgent},
		{Codename: "tree", Agent: Bystander},
		{Codename: "spy", Agent: Assassin},
	}}
}

func TestReveal(t *testing.T) {
	b := testBoard()

	a, err := b.Reveal("  APPLE ", RedTeam)
	if err != nil {
		t.Fatalf("Reveal: %v", err)
	}
	if a != BlueAgent {
		t.Errorf("Reveal(apple) = %v, want %v", a, BlueAgent)
	}
	if !b.Cards[0].Revealed || b.Cards[0].RevealedBy != RedTeam {
		t.Errorf("apple = %+v, want revealed by red", b.Cards[0])
	}
	if n := b.Remaining(BlueTeam); n != 1 {
		t.Errorf("Remaining(blue) = %d, want 1", n)
	}

	before := CloneBoard(b)
	if _, err := b.Reveal("apple", BlueTeam); !errors.Is(err, ErrAlreadyRevealed) {
		t.Errorf("second Reveal = %v, want AlreadyRevealed", err)
	}
	if _, err := b.Reveal("banana", BlueTeam); !errors.Is(err, ErrUnknownWord) {
		t.Errorf("Reveal(banana) = %v, want UnknownWord", err)
	}
	if diff := cmp.Diff(before, b); diff != "" {
		t.Errorf("failed reveals changed the board (-want +got)\n%s", diff)
	}

	if err := b.Check("moon"); err != nil {
		t.Errorf("Check(moon): %v", err)
	}
	if err := b.Check("apple"); !errors.Is(err, ErrAlreadyRevealed) {
		t.Errorf("Check(apple) = %v, want AlreadyRevealed", err)
	}
}

func TestBoardViews(t *testing.T) {
	b := testBoard()
	if _, err := b.Reveal("tree", BlueTeam); err != nil {
		t.Fatalf("Reveal: %v", err)
	}

	if diff := cmp.Diff([]string{"apple", "moon", "sun", "spy"}, b.Unrevealed()); diff != "" {
		t.Errorf("unexpected unrevealed words (-want +got)\n%s", diff)
	}
	if diff := cmp.Diff(map[Agent][]string{Bystander: {"tree"}}, b.Revealed()); diff != "" {
		t.Errorf("unexpected revealed words (-want +got)\n%s", diff)
	}

	wantAll := map[Agent][]string{
		BlueAgent: {"apple", "sun"},
		RedAgent:  {"moon"},
		Bystander: {"tree"},
		Assassin:  {"spy"},
	}
	if diff := cmp.Diff(wantAll, b.ByAgent(false)); diff != "" {
		t.Errorf("unexpected ByAgent(false) (-want +got)\n%s", diff)
	}
	delete(wantAll, Bystander)
	if diff := cmp.Diff(wantAll, b.ByAgent(true)); diff != "" {
		t.Errorf("unexpected ByAgent(true) (-want +got)\n%s", diff)
	}

	if n := b.Total(BlueAgent); n != 2 {
		t.Errorf("Total(blue) = %d, want 2", n)
	}
}

func TestPublic(t *testing.T) {
	b := testBoard()
	if _, err := b.Reveal("spy", RedTeam); err != nil {
		t.Fatalf("Reveal: %v", err)
	}

	pub := Public(b)
	for i, card := range pub.Cards {
		want := UnknownAgent
		if card.Codename == "spy" {
			want = Assassin
		}
		if card.Agent != want {
			t.Errorf("public %q = %v, want %v", card.Codename, card.Agent, want)
		}
		wantBy := NoTeam
		if card.Revealed {
			wantBy = RedTeam
		}
		if card.RevealedBy != wantBy {
			t.Errorf("public %q revealed by %v, want %v", card.Codename, card.RevealedBy, wantBy)
		}
		if b.Cards[i].Agent == UnknownAgent {
			t.Errorf("Public modified the original board at %q", b.Cards[i].Codename)
		}
	}

	if Public(nil) != nil {
		t.Error("Public(nil) should be nil")
	}
}

func TestErrors(t *testing.T) {
	cause := errors.New("boom")
	err := error(WrapError(InvalidNumber, cause, "bad number %d", 7))

	if !errors.Is(err, ErrInvalidNumber) {
		t.Error("errors.Is should match on kind")
	}
	if errors.Is(err, ErrInvalidClue) {
		t.Error("errors.Is shouldn't match a different kind")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if err.Error() != "bad number 7" {
		t.Errorf("Error() = %q", err.Error())
	}

	wrapped := errors.Join(errors.New("context"), err)
	if k := KindOf(wrapped); k != InvalidNumber {
		t.Errorf("KindOf = %q, want %q", k, InvalidNumber)
	}
	if k := KindOf(cause); k != "" {
		t.Errorf("KindOf(plain error) = %q, want nothing", k)
	}
}
