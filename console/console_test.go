package console

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/bcspragu/codenamesbot/codenames"
	"github.com/google/go-cmp/cmp"
)

func TestPrompter(t *testing.T) {
	in := strings.NewReader("Muffins 3\nsun lots\n  Apple \nPASS\n")
	var out bytes.Buffer
	p := NewPrompter(in, &out)

	c, err := p.Clue(codenames.BlueTeam)
	if err != nil {
		t.Fatalf("Clue: %v", err)
	}
	if diff := cmp.Diff(&codenames.Clue{Word: "muffins", Count: codenames.Finite(3)}, c); diff != "" {
		t.Errorf("unexpected clue (-want +got)\n%s", diff)
	}

	if _, err := p.Clue(codenames.BlueTeam); !errors.Is(err, codenames.ErrInvalidNumber) {
		t.Errorf("bad clue = %v, want InvalidNumber", err)
	}

	g, err := p.Guess(codenames.BlueTeam, c)
	if err != nil {
		t.Fatalf("Guess: %v", err)
	}
	if g != "Apple" {
		t.Errorf("guess = %q, want Apple", g)
	}

	if _, err := p.Guess(codenames.BlueTeam, c); !errors.Is(err, ErrPass) {
		t.Errorf("pass = %v, want ErrPass", err)
	}
	if _, err := p.Guess(codenames.BlueTeam, c); !errors.Is(err, io.EOF) {
		t.Errorf("out of input = %v, want io.EOF", err)
	}

	if !strings.Contains(out.String(), "Blue Team Hinter, enter a clue") {
		t.Errorf("missing clue prompt in %q", out.String())
	}
}

func TestPrintBoard(t *testing.T) {
	b := &codenames.Board{}
	for i := 0; i < codenames.Size; i++ {
		b.Cards = append(b.Cards, codenames.Card{Codename: string(rune('a' + i)), Agent: codenames.Bystander})
	}
	b.Cards[0].Revealed = true

	var buf bytes.Buffer
	PrintBoard(&buf, b, false)
	for _, card := range b.Cards {
		if !strings.Contains(buf.String(), card.Codename) {
			t.Errorf("board is missing %q", card.Codename)
		}
	}
	// Five rows of cards.
	rows := 0
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "|") {
			rows++
		}
	}
	if rows != codenames.Rows {
		t.Errorf("board has %d rows, want %d\n%s", rows, codenames.Rows, buf.String())
	}
}

func TestPrintWords(t *testing.T) {
	var buf bytes.Buffer
	PrintWords(&buf, map[codenames.Agent][]string{
		codenames.Assassin:  {"moon"},
		codenames.BlueAgent: {"sun", "apple"},
	})
	out := buf.String()
	if !strings.Contains(out, "apple, sun") || !strings.Contains(out, "moon") {
		t.Errorf("unexpected words table\n%s", out)
	}
	if strings.Contains(out, codenames.RedAgent.String()) {
		t.Errorf("empty agents shouldn't be listed\n%s", out)
	}
}
