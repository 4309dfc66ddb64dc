package server

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/bcspragu/codenamesbot/boardgen"
	"github.com/bcspragu/codenamesbot/codenames"
	"github.com/bcspragu/codenamesbot/game"
	"github.com/bcspragu/codenamesbot/memdb"
	"github.com/bcspragu/codenamesbot/words"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

func TestDoCreatesAndSaves(t *testing.T) {
	ctx := context.Background()
	s, db := newServer(t)

	if err := s.View(ctx, "#general", func(*game.Game) error { return nil }); !errors.Is(err, codenames.ErrGameNotFound) {
		t.Fatalf("View before any game = %v, want ErrGameNotFound", err)
	}

	var id codenames.GameID
	err := s.Do(ctx, "#general", func(g *game.Game) error {
		id = g.ID()
		return g.Join("alice")
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}

	saved, err := db.Game(ctx, id)
	if err != nil {
		t.Fatalf("Game: %v", err)
	}
	if saved.Channel != "#general" || saved.Status != codenames.Pending {
		t.Errorf("saved game has channel %q status %q", saved.Channel, saved.Status)
	}
	wantPlayers := []*codenames.PlayerRole{{PlayerID: "alice", Team: codenames.NoTeam}}
	if diff := cmp.Diff(wantPlayers, saved.State.Players); diff != "" {
		t.Errorf("unexpected saved players (-want +got)\n%s", diff)
	}

	if diff := cmp.Diff([]string{"#general"}, s.Channels()); diff != "" {
		t.Errorf("unexpected channels (-want +got)\n%s", diff)
	}

	// Same channel, same game.
	err = s.View(ctx, "#general", func(g *game.Game) error {
		if g.ID() != id {
			t.Errorf("got game %q, want %q", g.ID(), id)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
}

func TestFailedOperationIsNotSaved(t *testing.T) {
	ctx := context.Background()
	s, db := newServer(t)

	var id codenames.GameID
	err := s.Do(ctx, "#general", func(g *game.Game) error {
		id = g.ID()
		_, err := g.Start()
		return err
	})
	if !errors.Is(err, codenames.ErrInsufficientPlayers) {
		t.Fatalf("Start = %v, want InsufficientPlayers", err)
	}

	saved, err := db.Game(ctx, id)
	if err != nil {
		t.Fatalf("Game: %v", err)
	}
	if saved.State.Phase != codenames.PhaseLobby {
		t.Errorf("saved phase = %q, want %q", saved.State.Phase, codenames.PhaseLobby)
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	s, db := newServer(t)

	var first codenames.GameID
	err := s.Do(ctx, "#general", func(g *game.Game) error {
		first = g.ID()
		for _, p := range []codenames.PlayerID{"alice", "bob"} {
			if err := g.Join(p); err != nil {
				return err
			}
		}
		// Two players means two solo teams, so hinters are picked right away.
		_, err := g.Start()
		return err
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}

	out, err := s.Reset(ctx, "#general")
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if out.Previous != first || out.Game == first {
		t.Errorf("reset went from %q to %q, want from %q to something new", out.Previous, out.Game, first)
	}
	n := 0
	for _, ws := range out.Board {
		n += len(ws)
	}
	if n != codenames.Size {
		t.Errorf("reset returned %d words from the old board, want %d", n, codenames.Size)
	}

	err = s.View(ctx, "#general", func(g *game.Game) error {
		if g.ID() != out.Game || g.Phase() != codenames.PhaseLobby || len(g.Players()) != 0 {
			t.Errorf("after reset, got game %q in %q with %d players", g.ID(), g.Phase(), len(g.Players()))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View: %v", err)
	}

	// Resetting a game nobody started doesn't show a board.
	out, err = s.Reset(ctx, "#general")
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if out.Board != nil {
		t.Errorf("reset of a lobby returned a board: %v", out.Board)
	}

	playing, err := s.GamesWithStatus(ctx, codenames.Playing)
	if err != nil {
		t.Fatalf("GamesWithStatus: %v", err)
	}
	if diff := cmp.Diff([]codenames.GameID{first}, playing); diff != "" {
		t.Errorf("unexpected playing games (-want +got)\n%s", diff)
	}
	snap, err := s.Snapshot(ctx, first)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.State.Phase != codenames.PhaseHint {
		t.Errorf("snapshot phase = %q, want %q", snap.State.Phase, codenames.PhaseHint)
	}
	if _, err := db.Game(ctx, out.Game); err != nil {
		t.Errorf("new game wasn't saved: %v", err)
	}
}

func TestChannelsAreIndependent(t *testing.T) {
	ctx := context.Background()
	s, _ := newServer(t)

	var wg sync.WaitGroup
	for _, ch := range []string{"a", "b", "c"} {
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(ch string, i int) {
				defer wg.Done()
				err := s.Do(ctx, ch, func(g *game.Game) error {
					return g.Join(codenames.PlayerID(rune('a' + i)))
				})
				if err != nil {
					t.Errorf("Do(%q): %v", ch, err)
				}
			}(ch, i)
		}
	}
	wg.Wait()

	for _, ch := range s.Channels() {
		err := s.View(ctx, ch, func(g *game.Game) error {
			if n := len(g.Players()); n != 10 {
				t.Errorf("channel %q has %d players, want 10", ch, n)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("View(%q): %v", ch, err)
		}
	}
	if n := len(s.Channels()); n != 3 {
		t.Errorf("%d channels, want 3", n)
	}
}

func TestNewValidatesLayout(t *testing.T) {
	_, err := New(&Config{
		DB:     memdb.New(),
		Words:  words.New([]string{"one", "two", "three"}),
		Rand:   rand.New(rand.NewSource(0)),
		Layout: &boardgen.Layout{TeamAgents: [codenames.NumTeams]int{1, 1}, Bystanders: 1, Assassins: 1},
	})
	if !errors.Is(err, codenames.ErrInsufficientWords) {
		t.Errorf("New = %v, want InsufficientWords", err)
	}
}

func newServer(t *testing.T) (*Server, *memdb.DB) {
	t.Helper()
	db := memdb.New()
	s, err := New(&Config{
		DB:     db,
		Words:  words.Default(),
		Rand:   rand.New(rand.NewSource(0)),
		Logger: zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, db
}
