package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bcspragu/codenamesbot/codenames"
	"github.com/bcspragu/codenamesbot/console"
	"github.com/rs/zerolog"
)

func TestPlayUntilAssassin(t *testing.T) {
	g, err := setup("alice:a, bob:b", "", "a", 42)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if g.Phase() != codenames.PhaseHint {
		t.Fatalf("phase = %q, want %q", g.Phase(), codenames.PhaseHint)
	}
	if g.CurrentTeam() != codenames.BlueTeam {
		t.Fatalf("current team = %v, want %v", g.CurrentTeam(), codenames.BlueTeam)
	}

	assassin := g.HinterWords(false)[codenames.Assassin][0]
	in := strings.Join([]string{
		"sun",     // No number.
		"sun two", // Not a number.
		"sun 1",
		"zzzz-not-a-word",
		assassin,
	}, "\n") + "\n"

	var out bytes.Buffer
	if err := play(g, console.NewPrompter(strings.NewReader(in), &out), zerolog.Nop()); err != nil {
		t.Fatalf("play: %v", err)
	}

	if g.Winner() != codenames.RedTeam {
		t.Errorf("winner = %v, want %v", g.Winner(), codenames.RedTeam)
	}
	if n := strings.Count(out.String(), "Try again"); n != 3 {
		t.Errorf("got %d retries, want 3\n%s", n, out.String())
	}
	if !strings.Contains(out.String(), "Red Team wins") {
		t.Errorf("output doesn't announce the winner\n%s", out.String())
	}
}

func TestPickHintersByName(t *testing.T) {
	g, err := setup("alice:a,bob:a,carol:b,dave:b", "", "b", 7)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if g.Phase() != codenames.PhaseChooseHinter {
		t.Fatalf("phase = %q, want %q", g.Phase(), codenames.PhaseChooseHinter)
	}

	// carol isn't on the blue team, so that gets rejected before anything
	// changes.
	in := "carol\nbob\n\n"
	p := console.NewPrompter(strings.NewReader(in), &bytes.Buffer{})
	if err := pickHinters(g, p); err == nil || !strings.Contains(err.Error(), "isn't on") {
		t.Fatalf("pickHinters = %v, want a team error", err)
	}
	if err := pickHinters(g, p); err != nil {
		t.Fatalf("pickHinters: %v", err)
	}

	if r := g.RoleOf("bob"); r != codenames.Hinter {
		t.Errorf("bob is a %v, want a hinter", r)
	}
	if n := len(g.WithRole(codenames.RedTeam, codenames.Hinter)); n != 1 {
		t.Errorf("red has %d hinters, want 1", n)
	}
	if g.Phase() != codenames.PhaseHint || g.CurrentTeam() != codenames.RedTeam {
		t.Errorf("phase = %q, team = %v, want red giving a hint", g.Phase(), g.CurrentTeam())
	}
}
