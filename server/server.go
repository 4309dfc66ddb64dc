// Package server keeps track of the game being played in each channel. It's
// the only thing that touches a *game.Game directly, and it makes sure only
// one operation runs against a given game at a time.
package server

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/bcspragu/codenamesbot/boardgen"
	"github.com/bcspragu/codenamesbot/codenames"
	"github.com/bcspragu/codenamesbot/game"
	"github.com/bcspragu/codenamesbot/words"
	"github.com/rs/zerolog"
)

type Config struct {
	DB    codenames.DB
	Words *words.Pool
	// Rand seeds the source of randomness for each new game.
	Rand *rand.Rand
	// Layout, if set, is used for every game. Otherwise games get the standard
	// layout with a random starting team.
	Layout *boardgen.Layout
	Logger zerolog.Logger
}

type Server struct {
	db     codenames.DB
	words  *words.Pool
	layout *boardgen.Layout
	logger zerolog.Logger

	mu sync.Mutex
	// r is guarded by mu.
	r        *rand.Rand
	channels map[string]*entry
}

// entry is a single channel. Its mutex is held for the duration of every
// operation on the game.
type entry struct {
	mu sync.Mutex
	g  *game.Game
}

func New(cfg *Config) (*Server, error) {
	if cfg.DB == nil {
		return nil, errors.New("no database given")
	}
	if cfg.Words == nil {
		return nil, errors.New("no word pool given")
	}
	if cfg.Rand == nil {
		return nil, errors.New("no source of randomness given")
	}
	if cfg.Layout != nil {
		if err := cfg.Layout.Validate(); err != nil {
			return nil, fmt.Errorf("invalid layout: %w", err)
		}
		if n := cfg.Layout.Size(); cfg.Words.Len() < n {
			return nil, codenames.NewError(codenames.InsufficientWords, "a board needs %d words, the word list only has %d", n, cfg.Words.Len())
		}
	}

	return &Server{
		db:       cfg.DB,
		words:    cfg.Words,
		layout:   cfg.Layout,
		logger:   cfg.Logger,
		r:        cfg.Rand,
		channels: make(map[string]*entry),
	}, nil
}

// Do runs fn against the channel's game, creating one if the channel doesn't
// have a game yet. If fn succeeds, the game's new state is saved.
func (s *Server) Do(ctx context.Context, channel string, fn func(*game.Game) error) error {
	e, err := s.entry(ctx, channel, true)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := fn(e.g); err != nil {
		return err
	}
	s.save(ctx, e.g)
	return nil
}

// View runs fn against the channel's game without saving anything afterwards.
// It returns codenames.ErrGameNotFound if nobody has played in the channel.
func (s *Server) View(ctx context.Context, channel string, fn func(*game.Game) error) error {
	e, err := s.entry(ctx, channel, false)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.g)
}

// ResetOutcome describes the game that was thrown away by a reset.
type ResetOutcome struct {
	Previous codenames.GameID `json:"previous"`
	Game     codenames.GameID `json:"game"`
	// Board is every codename from the previous game by agent, only set if
	// hinters had been picked, since that's when the board matters.
	Board map[codenames.Agent][]string `json:"board,omitempty"`
}

// Reset replaces the channel's game with a brand new one in the lobby.
func (s *Server) Reset(ctx context.Context, channel string) (*ResetOutcome, error) {
	e, err := s.entry(ctx, channel, true)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	seed, starter := s.seed()
	ng, err := s.newGame(ctx, channel, seed, starter)
	if err != nil {
		return nil, err
	}

	old := e.g
	e.g = ng
	s.logger.Info().
		Str("channel", channel).
		Str("previous", string(old.ID())).
		Str("game", string(ng.ID())).
		Msg("game reset")

	out := &ResetOutcome{Previous: old.ID(), Game: ng.ID()}
	if old.AllHintersPicked() {
		out.Board = old.HinterWords(false)
	}
	return out, nil
}

// Channels returns every channel with a game, sorted.
func (s *Server) Channels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.channels))
	for c := range s.channels {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Snapshot loads a saved game, which may have come from a previous run of the
// server.
func (s *Server) Snapshot(ctx context.Context, id codenames.GameID) (*codenames.Game, error) {
	g, err := s.db.Game(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load game %q: %w", id, err)
	}
	return g, nil
}

// GamesWithStatus lists saved games.
func (s *Server) GamesWithStatus(ctx context.Context, status codenames.GameStatus) ([]codenames.GameID, error) {
	ids, err := s.db.GamesWithStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s games: %w", status, err)
	}
	return ids, nil
}

func (s *Server) entry(ctx context.Context, channel string, create bool) (*entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.channels[channel]; ok {
		return e, nil
	}
	if !create {
		return nil, codenames.ErrGameNotFound
	}

	seed, starter := s.seedLocked()
	g, err := s.newGame(ctx, channel, seed, starter)
	if err != nil {
		return nil, err
	}
	e := &entry{g: g}
	s.channels[channel] = e
	s.logger.Info().Str("channel", channel).Str("game", string(g.ID())).Msg("new game")
	return e, nil
}

func (s *Server) seed() (int64, codenames.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seedLocked()
}

// seedLocked picks a seed for a new game's randomness, and which team starts
// if the layout isn't fixed. s.mu must be held.
func (s *Server) seedLocked() (int64, codenames.Team) {
	return s.r.Int63(), codenames.Teams[s.r.Intn(len(codenames.Teams))]
}

// newGame creates and records a new game.
func (s *Server) newGame(ctx context.Context, channel string, seed int64, starter codenames.Team) (*game.Game, error) {
	layout := boardgen.Standard(starter)
	if s.layout != nil {
		layout = *s.layout
	}

	id, err := s.db.NewGame(ctx, &codenames.Game{Channel: channel, Status: codenames.Pending})
	if err != nil {
		return nil, fmt.Errorf("failed to create game for %q: %w", channel, err)
	}

	g, err := game.New(&game.Config{
		ID:      id,
		Channel: channel,
		Layout:  layout,
		Words:   s.words,
		Rand:    rand.New(rand.NewSource(seed)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up game %q: %w", id, err)
	}
	s.save(ctx, g)
	return g, nil
}

func (s *Server) save(ctx context.Context, g *game.Game) {
	if err := s.db.UpdateState(ctx, g.ID(), g.State()); err != nil {
		// The game itself is fine, it just won't be in the history.
		s.logger.Error().Err(err).Str("game", string(g.ID())).Msg("failed to save game state")
	}
}
