package sqldb

import (
	"context"
	"errors"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/bcspragu/codenamesbot/codenames"
	"github.com/bcspragu/codenamesbot/words"
	"github.com/google/go-cmp/cmp"
)

func TestGames(t *testing.T) {
	ctx := context.Background()
	db := newDB(t)

	id, err := db.NewGame(ctx, &codenames.Game{Channel: "#general"})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if id == "" {
		t.Fatal("no ID was generated")
	}

	got, err := db.Game(ctx, id)
	if err != nil {
		t.Fatalf("Game: %v", err)
	}
	want := &codenames.Game{ID: id, Channel: "#general", Status: codenames.Pending}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected game (-want +got)\n%s", diff)
	}

	if _, err := db.Game(ctx, "NotAGame"); !errors.Is(err, codenames.ErrGameNotFound) {
		t.Errorf("Game(NotAGame) = %v, want ErrGameNotFound", err)
	}
	if _, err := db.NewGame(ctx, &codenames.Game{ID: id}); err == nil {
		t.Error("expected an error reusing an ID")
	}
}

func TestUpdateState(t *testing.T) {
	ctx := context.Background()
	db := newDB(t)

	id, err := db.NewGame(ctx, &codenames.Game{ID: "FishBowlCake", Channel: "#general"})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	other, err := db.NewGame(ctx, &codenames.Game{ID: "AppleAppleApple", Channel: "#other"})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}

	gs := &codenames.GameState{
		Phase:          codenames.PhaseGuess,
		ActiveTeam:     codenames.RedTeam,
		StartingTeam:   codenames.BlueTeam,
		Clue:           &codenames.Clue{Word: "sun", Count: codenames.Unlimited},
		NumGuessesLeft: codenames.Unlimited,
		Turn:           2,
		Winner:         codenames.NoTeam,
		Board: &codenames.Board{Cards: []codenames.Card{
			{Codename: "sun", Agent: codenames.RedAgent, Revealed: true, RevealedBy: codenames.BlueTeam},
			{Codename: "moon", Agent: codenames.Assassin},
		}},
		Players: []*codenames.PlayerRole{
			{PlayerID: "alice", Team: codenames.BlueTeam, Role: codenames.Hinter},
			{PlayerID: "bob", Team: codenames.RedTeam, Role: codenames.Guesser},
		},
	}
	if err := db.UpdateState(ctx, id, gs); err != nil {
		t.Fatalf("UpdateState: %v", err)
	}
	if err := db.UpdateState(ctx, "NotAGame", gs); !errors.Is(err, codenames.ErrGameNotFound) {
		t.Errorf("UpdateState(NotAGame) = %v, want ErrGameNotFound", err)
	}

	got, err := db.Game(ctx, id)
	if err != nil {
		t.Fatalf("Game: %v", err)
	}
	want := &codenames.Game{ID: id, Channel: "#general", Status: codenames.Playing, State: gs}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected game (-want +got)\n%s", diff)
	}

	playing, err := db.GamesWithStatus(ctx, codenames.Playing)
	if err != nil {
		t.Fatalf("GamesWithStatus: %v", err)
	}
	if diff := cmp.Diff([]codenames.GameID{id}, playing); diff != "" {
		t.Errorf("unexpected playing games (-want +got)\n%s", diff)
	}
	pending, err := db.GamesWithStatus(ctx, codenames.Pending)
	if err != nil {
		t.Fatalf("GamesWithStatus: %v", err)
	}
	if diff := cmp.Diff([]codenames.GameID{other}, pending); diff != "" {
		t.Errorf("unexpected pending games (-want +got)\n%s", diff)
	}
}

func TestCanceledContext(t *testing.T) {
	db := newDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := db.NewGame(ctx, &codenames.Game{}); !errors.Is(err, context.Canceled) {
		t.Errorf("NewGame = %v, want context.Canceled", err)
	}
}

func newDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "codenames.db"), rand.New(rand.NewSource(0)), words.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
