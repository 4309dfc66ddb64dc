// Package memdb is an in-memory implementation of codenames.DB, for tests and
// for servers that don't care about surviving a restart.
package memdb

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bcspragu/codenamesbot/codenames"
)

type idNamespace string

const (
	gameID = idNamespace("game")
)

type DB struct {
	mu    sync.Mutex
	ids   map[idNamespace]int
	games map[codenames.GameID]*codenames.Game
}

func New() *DB {
	return &DB{
		ids:   make(map[idNamespace]int),
		games: make(map[codenames.GameID]*codenames.Game),
	}
}

// NewGame stores the game under a fresh ID. If the game already has an ID, that
// one is used instead, as long as it isn't taken.
func (db *DB) NewGame(_ context.Context, g *codenames.Game) (codenames.GameID, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	gID := g.ID
	if gID == "" {
		gID = codenames.GameID(db.newID(gameID))
	}
	if _, ok := db.games[gID]; ok {
		return "", fmt.Errorf("game %q already exists", gID)
	}

	gc := g.Clone()
	gc.ID = gID
	if gc.Status == codenames.NoStatus {
		gc.Status = codenames.Pending
	}
	db.games[gID] = gc

	return gID, nil
}

func (db *DB) Game(_ context.Context, gID codenames.GameID) (*codenames.Game, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	g, ok := db.games[gID]
	if !ok {
		return nil, codenames.ErrGameNotFound
	}

	return g.Clone(), nil
}

// GamesWithStatus returns the matching game IDs, sorted.
func (db *DB) GamesWithStatus(_ context.Context, status codenames.GameStatus) ([]codenames.GameID, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []codenames.GameID
	for _, g := range db.games {
		if g.Status == status {
			out = append(out, g.ID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// UpdateState replaces the game's state, and moves its status along to match
// the state's phase.
func (db *DB) UpdateState(_ context.Context, gID codenames.GameID, gs *codenames.GameState) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	g, ok := db.games[gID]
	if !ok {
		return codenames.ErrGameNotFound
	}
	g.State = gs.Clone()
	if s := gs.Phase.Status(); s != codenames.NoStatus {
		g.Status = s
	}
	return nil
}

func (db *DB) newID(ns idNamespace) string {
	idx := db.ids[ns]
	id := fmt.Sprintf("%s_%d", ns, idx)
	db.ids[ns]++
	return id
}
