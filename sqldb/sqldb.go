// Package sqldb implements codenames.DB on top of SQLite.
package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"

	"github.com/bcspragu/codenamesbot/codenames"
	"github.com/bcspragu/codenamesbot/words"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id TEXT PRIMARY KEY,
	channel TEXT NOT NULL,
	status TEXT NOT NULL,
	state BLOB
);
CREATE INDEX IF NOT EXISTS games_status ON games (status);
`

// Number of times we'll try to come up with an unused game ID.
const maxIDAttempts = 10

// DB implements the Codenames database API, backed by a SQLite database.
// NOTE: Since the database doesn't support concurrent writers, we don't
// actually hold the *sql.DB in this struct, we force all callers to get a
// handle via channels.
type DB struct {
	dbChan   chan func(*sql.DB)
	doneChan chan struct{}
	exited   chan struct{}

	// Only touched from the run goroutine.
	r   *rand.Rand
	ids *words.Pool
}

// New creates a new *DB that is stored on disk at the given filename. Games
// created without an ID get one made up of words from ids.
func New(fn string, r *rand.Rand, ids *words.Pool) (*DB, error) {
	sdb, err := sql.Open("sqlite3", fn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", fn, err)
	}
	// Everything goes through run anyway, and it keeps :memory: databases to a
	// single connection.
	sdb.SetMaxOpenConns(1)
	if _, err := sdb.Exec(schema); err != nil {
		sdb.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	db := &DB{
		dbChan:   make(chan func(*sql.DB)),
		doneChan: make(chan struct{}),
		exited:   make(chan struct{}),
		r:        r,
		ids:      ids,
	}
	go db.run(sdb)
	return db, nil
}

// run handles all database calls, and ensures that only one thing is happening
// against the database at a time.
func (s *DB) run(sdb *sql.DB) {
	defer close(s.exited)
	for {
		select {
		case dbFn := <-s.dbChan:
			dbFn(sdb)
		case <-s.doneChan:
			sdb.Close()
			return
		}
	}
}

func (s *DB) Close() error {
	close(s.doneChan)
	<-s.exited
	return nil
}

// do runs fn on the database goroutine and waits for it to finish.
func (s *DB) do(ctx context.Context, fn func(*sql.DB) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	errC := make(chan error, 1)
	select {
	case s.dbChan <- func(sdb *sql.DB) { errC <- fn(sdb) }:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.doneChan:
		return errors.New("database is closed")
	}
	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *DB) NewGame(ctx context.Context, g *codenames.Game) (codenames.GameID, error) {
	state, err := marshalState(g.State)
	if err != nil {
		return "", err
	}
	status := g.Status
	if status == codenames.NoStatus {
		status = codenames.Pending
	}

	var gID codenames.GameID
	err = s.do(ctx, func(sdb *sql.DB) error {
		id := g.ID
		if id == "" {
			var err error
			if id, err = s.unusedID(ctx, sdb); err != nil {
				return err
			}
		}
		_, err := sdb.ExecContext(ctx,
			`INSERT INTO games (id, channel, status, state) VALUES (?, ?, ?, ?)`,
			string(id), g.Channel, string(status), state)
		if err != nil {
			return fmt.Errorf("failed to insert game %q: %w", id, err)
		}
		gID = id
		return nil
	})
	if err != nil {
		return "", err
	}
	return gID, nil
}

func (s *DB) unusedID(ctx context.Context, sdb *sql.DB) (codenames.GameID, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.ids.RandomGameID(s.r)
		if id == "" {
			return "", errors.New("no words to make a game ID from")
		}
		var n int
		if err := sdb.QueryRowContext(ctx, `SELECT COUNT(*) FROM games WHERE id = ?`, string(id)).Scan(&n); err != nil {
			return "", fmt.Errorf("failed to check for game %q: %w", id, err)
		}
		if n == 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("couldn't find an unused game ID after %d tries", maxIDAttempts)
}

func (s *DB) Game(ctx context.Context, gID codenames.GameID) (*codenames.Game, error) {
	var (
		g     = &codenames.Game{ID: gID}
		state []byte
	)
	err := s.do(ctx, func(sdb *sql.DB) error {
		var status string
		err := sdb.QueryRowContext(ctx, `SELECT channel, status, state FROM games WHERE id = ?`, string(gID)).
			Scan(&g.Channel, &status, &state)
		if errors.Is(err, sql.ErrNoRows) {
			return codenames.ErrGameNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load game %q: %w", gID, err)
		}
		g.Status = codenames.GameStatus(status)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if g.State, err = unmarshalState(state); err != nil {
		return nil, fmt.Errorf("bad state for game %q: %w", gID, err)
	}
	return g, nil
}

func (s *DB) GamesWithStatus(ctx context.Context, status codenames.GameStatus) ([]codenames.GameID, error) {
	var out []codenames.GameID
	err := s.do(ctx, func(sdb *sql.DB) error {
		rows, err := sdb.QueryContext(ctx, `SELECT id FROM games WHERE status = ? ORDER BY id`, string(status))
		if err != nil {
			return fmt.Errorf("failed to query games: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return fmt.Errorf("failed to scan game ID: %w", err)
			}
			out = append(out, codenames.GameID(id))
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateState replaces the game's state, and moves its status along to match
// the state's phase.
func (s *DB) UpdateState(ctx context.Context, gID codenames.GameID, gs *codenames.GameState) error {
	state, err := marshalState(gs)
	if err != nil {
		return err
	}

	return s.do(ctx, func(sdb *sql.DB) error {
		var (
			res sql.Result
			err error
		)
		if status := gs.Phase.Status(); status != codenames.NoStatus {
			res, err = sdb.ExecContext(ctx, `UPDATE games SET state = ?, status = ? WHERE id = ?`, state, string(status), string(gID))
		} else {
			res, err = sdb.ExecContext(ctx, `UPDATE games SET state = ? WHERE id = ?`, state, string(gID))
		}
		if err != nil {
			return fmt.Errorf("failed to update game %q: %w", gID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get affected rows: %w", err)
		}
		if n == 0 {
			return codenames.ErrGameNotFound
		}
		return nil
	})
}

func marshalState(gs *codenames.GameState) ([]byte, error) {
	if gs == nil {
		return nil, nil
	}
	dat, err := json.Marshal(gs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal game state: %w", err)
	}
	return dat, nil
}

func unmarshalState(dat []byte) (*codenames.GameState, error) {
	if len(dat) == 0 {
		return nil, nil
	}
	var gs codenames.GameState
	if err := json.Unmarshal(dat, &gs); err != nil {
		return nil, err
	}
	return &gs, nil
}
