// Package web serves the HTTP and WebSocket API for playing Codenames in a
// channel.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"

	"github.com/bcspragu/codenamesbot/codenames"
	"github.com/bcspragu/codenamesbot/game"
	"github.com/bcspragu/codenamesbot/httperr"
	"github.com/bcspragu/codenamesbot/hub"
	"github.com/bcspragu/codenamesbot/server"
	"github.com/gorilla/mux"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const authCookie = "Authorization"

type Srv struct {
	sc     *securecookie.SecureCookie
	h      *hub.Hub
	mux    *mux.Router
	games  *server.Server
	logger zerolog.Logger

	upgrader websocket.Upgrader
}

// New returns an initialized server.
func New(games *server.Server, h *hub.Hub, sc *securecookie.SecureCookie, logger zerolog.Logger) *Srv {
	s := &Srv{
		sc:     sc,
		h:      h,
		games:  games,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	s.mux = s.initMux()

	return s
}

func (s *Srv) initMux() *mux.Router {
	m := mux.NewRouter()
	// New user.
	m.HandleFunc("/api/user", s.handleError(s.serveCreateUser)).Methods("POST")
	// Load user.
	m.HandleFunc("/api/user", s.handleError(s.serveUser)).Methods("GET")
	// Channels with a game.
	m.HandleFunc("/api/channels", s.handleError(s.serveChannels)).Methods("GET")
	// Saved games, optionally by status.
	m.HandleFunc("/api/games", s.handleError(s.serveGames)).Methods("GET")
	// A saved game.
	m.HandleFunc("/api/games/{id}", s.handleError(s.serveSnapshot)).Methods("GET")

	// The game in a channel.
	m.HandleFunc("/api/channel/{channel}", s.handleError(s.serveGame)).Methods("GET")
	// Join the game, optionally with a team preference.
	m.HandleFunc("/api/channel/{channel}/join", s.handleError(s.requireAuth(s.serveJoin))).Methods("POST")
	// Start the game.
	m.HandleFunc("/api/channel/{channel}/start", s.handleError(s.requireAuth(s.serveStart))).Methods("POST")
	// Pick your team's hinter.
	m.HandleFunc("/api/channel/{channel}/hinter", s.handleError(s.requireAuth(s.serveHinter))).Methods("POST")
	// Give a clue.
	m.HandleFunc("/api/channel/{channel}/clue", s.handleError(s.requireAuth(s.serveClue))).Methods("POST")
	// Guess a codename.
	m.HandleFunc("/api/channel/{channel}/guess", s.handleError(s.requireAuth(s.serveGuess))).Methods("POST")
	// End your team's turn.
	m.HandleFunc("/api/channel/{channel}/pass", s.handleError(s.requireAuth(s.servePass))).Methods("POST")
	// Throw the game away and start a new one.
	m.HandleFunc("/api/channel/{channel}/reset", s.handleError(s.requireAuth(s.serveReset))).Methods("POST")
	// The hinters' view of the board.
	m.HandleFunc("/api/channel/{channel}/words", s.handleError(s.requireAuth(s.serveWords))).Methods("GET")

	// WebSocket handler for games.
	m.HandleFunc("/api/channel/{channel}/ws", s.handleError(s.requireAuth(s.serveData))).Methods("GET")

	return m
}

func (s *Srv) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

type authHandlerFunc func(w http.ResponseWriter, r *http.Request, p codenames.PlayerID) error

func (s *Srv) handleError(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		code, userMsg := httperr.Extract(err)
		ev := s.logger.Warn()
		if code >= http.StatusInternalServerError {
			ev = s.logger.Error()
		}
		ev.Err(err).Str("method", r.Method).Str("path", r.URL.Path).Int("code", code).Msg("request failed")

		http.Error(w, userMsg, code)
	}
}

func (s *Srv) requireAuth(h authHandlerFunc) handlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		p, err := s.loadPlayer(r)
		if err != nil {
			return err
		}
		if p == "" {
			return httperr.Unauthorized("no auth cookie").WithMessage("Not logged in")
		}
		return h(w, r, p)
	}
}

func (s *Srv) serveCreateUser(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := decode(r, &req); err != nil {
		return err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return httperr.BadRequest("no name given").WithMessage("No name given")
	}

	id := codenames.PlayerID(name)
	encoded, err := s.sc.Encode("auth", id)
	if err != nil {
		return fmt.Errorf("failed to encode auth cookie: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     authCookie,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
	})

	return jsonResp(w, struct {
		UserID codenames.PlayerID `json:"user_id"`
	}{id})
}

func (s *Srv) serveUser(w http.ResponseWriter, r *http.Request) error {
	p, err := s.loadPlayer(r)
	if err != nil {
		return err
	}
	if p == "" {
		return httperr.Unauthorized("no auth cookie").WithMessage("Not logged in")
	}

	return jsonResp(w, struct {
		UserID codenames.PlayerID `json:"user_id"`
	}{p})
}

func (s *Srv) serveChannels(w http.ResponseWriter, r *http.Request) error {
	return jsonResp(w, s.games.Channels())
}

func (s *Srv) serveGames(w http.ResponseWriter, r *http.Request) error {
	status := codenames.Pending
	if st := r.URL.Query().Get("status"); st != "" {
		status = codenames.GameStatus(strings.ToUpper(st))
	}
	switch status {
	case codenames.Pending, codenames.Playing, codenames.Finished:
	default:
		return httperr.BadRequest("bad status %q", status).WithMessage("Unknown game status")
	}

	ids, err := s.games.GamesWithStatus(r.Context(), status)
	if err != nil {
		return err
	}
	if ids == nil {
		ids = []codenames.GameID{}
	}
	return jsonResp(w, ids)
}

func (s *Srv) serveSnapshot(w http.ResponseWriter, r *http.Request) error {
	id := codenames.GameID(mux.Vars(r)["id"])
	g, err := s.games.Snapshot(r.Context(), id)
	if err != nil {
		return gameErr(err)
	}
	// Don't give away the board for games that are still going.
	if g.State != nil && g.Status != codenames.Finished {
		g.State.Board = codenames.Public(g.State.Board)
	}
	return jsonResp(w, g)
}

func (s *Srv) serveGame(w http.ResponseWriter, r *http.Request) error {
	p, err := s.loadPlayer(r)
	if err != nil {
		return err
	}

	var view *GameView
	err = s.games.View(r.Context(), channel(r), func(g *game.Game) error {
		view = newView(g, p)
		return nil
	})
	if err != nil {
		return gameErr(err)
	}
	return jsonResp(w, view)
}

func (s *Srv) serveJoin(w http.ResponseWriter, r *http.Request, p codenames.PlayerID) error {
	var req struct {
		Team string `json:"team"`
	}
	if err := decode(r, &req); err != nil {
		return err
	}
	team, err := codenames.ParseTeam(req.Team)
	if err != nil {
		return httperr.Wrap(http.StatusBadRequest, err).WithMessage("Team must be a, b or random")
	}

	ch := channel(r)
	err = s.games.Do(r.Context(), ch, func(g *game.Game) error {
		return g.PreferTeam(p, team)
	})
	if err != nil {
		return gameErr(err)
	}

	s.toChannel(r.Context(), ch, &PlayerJoined{Player: p, Team: team})
	return jsonResp(w, success())
}

func (s *Srv) serveStart(w http.ResponseWriter, r *http.Request, p codenames.PlayerID) error {
	ch := channel(r)
	var (
		view    *GameView
		hinters []codenames.PlayerID
		words   map[codenames.Agent][]string
	)
	err := s.games.Do(r.Context(), ch, func(g *game.Game) error {
		if !g.HasPlayer(p) {
			return httperr.Forbidden("%s tried to start a game they aren't in", p).WithMessage("Join the game first")
		}
		if _, err := g.Start(); err != nil {
			return err
		}
		view = newView(g, "")
		if g.AllHintersPicked() {
			hinters, words = allHinters(g), g.HinterWords(true)
		}
		return nil
	})
	if err != nil {
		return gameErr(err)
	}

	s.toChannel(r.Context(), ch, &GameStart{Game: view})
	s.toHinters(r.Context(), ch, hinters, words)
	return jsonResp(w, view)
}

func (s *Srv) serveHinter(w http.ResponseWriter, r *http.Request, p codenames.PlayerID) error {
	var req struct {
		Random bool `json:"random"`
	}
	if err := decode(r, &req); err != nil {
		return err
	}

	ch := channel(r)
	var (
		out     *game.PickOutcome
		hinters []codenames.PlayerID
		words   map[codenames.Agent][]string
	)
	err := s.games.Do(r.Context(), ch, func(g *game.Game) error {
		var err error
		if out, err = g.PickHinter(p, req.Random); err != nil {
			return err
		}
		if out.AllPicked {
			hinters, words = allHinters(g), g.HinterWords(true)
		}
		return nil
	})
	if err != nil {
		return gameErr(err)
	}

	msg := &HinterPicked{Team: out.Team, Hinter: out.Hinter, AllPicked: out.AllPicked}
	s.toChannel(r.Context(), ch, msg)
	s.toHinters(r.Context(), ch, hinters, words)
	return jsonResp(w, msg)
}

func (s *Srv) serveClue(w http.ResponseWriter, r *http.Request, p codenames.PlayerID) error {
	var req struct {
		Word   string `json:"word"`
		Number string `json:"number"`
	}
	if err := decode(r, &req); err != nil {
		return err
	}

	ch := channel(r)
	var msg *ClueGiven
	err := s.games.Do(r.Context(), ch, func(g *game.Game) error {
		c, err := g.GiveClue(p, req.Word, req.Number)
		if err != nil {
			return err
		}
		msg = &ClueGiven{Team: g.CurrentTeam(), Clue: c, GuessesRemaining: g.GuessesRemaining()}
		return nil
	})
	if err != nil {
		return gameErr(err)
	}

	s.toChannel(r.Context(), ch, msg)
	return jsonResp(w, msg)
}

func (s *Srv) serveGuess(w http.ResponseWriter, r *http.Request, p codenames.PlayerID) error {
	var req struct {
		Word string `json:"word"`
	}
	if err := decode(r, &req); err != nil {
		return err
	}

	ch := channel(r)
	var (
		msg *GuessGiven
		end *GameEnd
	)
	err := s.games.Do(r.Context(), ch, func(g *game.Game) error {
		team := g.CurrentTeam()
		out, err := g.Guess(p, req.Word)
		if err != nil {
			return err
		}
		msg = &GuessGiven{
			Player:      p,
			Team:        team,
			Codename:    out.Codename,
			Agent:       out.Agent,
			TurnEnds:    out.TurnEnds,
			GuessesLeft: out.GuessesLeft,
		}
		if out.Winner.Valid() {
			end = &GameEnd{
				Winner:         out.Winner,
				WinningPlayers: g.WinningPlayers(),
				Board:          g.HinterWords(false),
			}
		}
		return nil
	})
	if err != nil {
		return gameErr(err)
	}

	s.toChannel(r.Context(), ch, msg)
	if end != nil {
		s.toChannel(r.Context(), ch, end)
	}
	return jsonResp(w, msg)
}

func (s *Srv) servePass(w http.ResponseWriter, r *http.Request, p codenames.PlayerID) error {
	ch := channel(r)
	var msg *Pass
	err := s.games.Do(r.Context(), ch, func(g *game.Game) error {
		team := g.CurrentTeam()
		if err := g.Pass(p); err != nil {
			return err
		}
		msg = &Pass{Player: p, Team: team}
		return nil
	})
	if err != nil {
		return gameErr(err)
	}

	s.toChannel(r.Context(), ch, msg)
	return jsonResp(w, msg)
}

func (s *Srv) serveReset(w http.ResponseWriter, r *http.Request, p codenames.PlayerID) error {
	ch := channel(r)
	out, err := s.games.Reset(r.Context(), ch)
	if err != nil {
		return gameErr(err)
	}
	s.logger.Info().Str("channel", ch).Str("player", string(p)).Msg("reset requested")

	s.toChannel(r.Context(), ch, &GameReset{ResetOutcome: out})
	return jsonResp(w, out)
}

func (s *Srv) serveWords(w http.ResponseWriter, r *http.Request, p codenames.PlayerID) error {
	var words map[codenames.Agent][]string
	err := s.games.View(r.Context(), channel(r), func(g *game.Game) error {
		if g.Phase() != codenames.PhaseGameOver && g.RoleOf(p) != codenames.Hinter {
			return httperr.Forbidden("%s asked for the board without being a hinter", p).WithMessage("Only hinters can see the board")
		}
		words = g.HinterWords(r.URL.Query().Get("all") == "")
		return nil
	})
	if err != nil {
		return gameErr(err)
	}
	return jsonResp(w, words)
}

func (s *Srv) serveData(w http.ResponseWriter, r *http.Request, p codenames.PlayerID) error {
	ch := channel(r)
	// Make sure there's something to watch before upgrading.
	err := s.games.View(r.Context(), ch, func(*game.Game) error { return nil })
	if err != nil {
		return gameErr(err)
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote an error response.
		s.logger.Warn().Err(err).Str("channel", ch).Msg("failed to upgrade websocket")
		return nil
	}
	s.h.Register(ws, ch, p)
	return nil
}

func newView(g *game.Game, p codenames.PlayerID) *GameView {
	v := &GameView{
		ID:               g.ID(),
		Channel:          g.Channel(),
		Phase:            g.Phase(),
		CurrentTeam:      g.CurrentTeam(),
		Turn:             g.TurnNumber(),
		Clue:             g.Clue(),
		GuessesRemaining: g.GuessesRemaining(),
		GuessedThisTurn:  g.GuessedThisTurn(),
		Winner:           g.Winner(),
		Preferences:      g.TeamPreferences(),
		Teams:            g.Teams(),
	}
	if b := codenames.Public(g.Board()); b != nil {
		v.Board = toRows(b)
	}
	if p != "" && g.HasPlayer(p) {
		v.You = &Player{ID: p, Team: g.TeamOf(p), Role: g.RoleOf(p)}
		if v.You.Role == codenames.Hinter {
			v.HinterWords = g.HinterWords(true)
		}
	}
	if g.Phase() == codenames.PhaseGameOver {
		v.HinterWords = g.HinterWords(false)
	}
	return v
}

func allHinters(g *game.Game) []codenames.PlayerID {
	var out []codenames.PlayerID
	for _, t := range codenames.Teams {
		out = append(out, g.WithRole(t, codenames.Hinter)...)
	}
	return out
}

func (s *Srv) toChannel(ctx context.Context, ch string, msg interface{}) {
	if err := s.h.ToChannel(ctx, ch, msg); err != nil {
		s.logger.Error().Err(err).Str("channel", ch).Msg("failed to broadcast")
	}
}

func (s *Srv) toHinters(ctx context.Context, ch string, hinters []codenames.PlayerID, words map[codenames.Agent][]string) {
	for _, p := range hinters {
		if err := s.h.ToPlayer(ctx, ch, p, &HinterBoard{Words: words}); err != nil {
			s.logger.Error().Err(err).Str("channel", ch).Str("player", string(p)).Msg("failed to send board to hinter")
		}
	}
}

// toRows splits a square board into rows.
func toRows(b *codenames.Board) [][]codenames.Card {
	sz, ok := sqrt(len(b.Cards))
	if !ok {
		return [][]codenames.Card{b.Cards}
	}

	cds := make([][]codenames.Card, sz)
	for i := 0; i < sz; i++ {
		cds[i] = b.Cards[i*sz : (i+1)*sz]
	}
	return cds
}

func sqrt(i int) (int, bool) {
	rt := math.Floor(math.Sqrt(float64(i)))
	if int(rt*rt) != i {
		return 0, false
	}
	return int(rt), true
}

// gameErr turns errors from a game into HTTP errors, with the game's message
// shown to the player.
func gameErr(err error) error {
	var herr *httperr.Error
	if errors.As(err, &herr) {
		return err
	}
	if errors.Is(err, codenames.ErrGameNotFound) {
		return httperr.Wrap(http.StatusNotFound, err).WithMessage("No game found")
	}

	var gerr *codenames.Error
	if !errors.As(err, &gerr) {
		return err
	}

	code := http.StatusInternalServerError
	switch gerr.Kind {
	case codenames.NotOnTeam, codenames.NotYourTurn, codenames.WrongRole:
		code = http.StatusForbidden
	case codenames.WrongPhase, codenames.GameAlreadyStarted, codenames.AlreadyPicked,
		codenames.AlreadyRevealed, codenames.MustGuessOnce, codenames.InsufficientPlayers:
		code = http.StatusConflict
	case codenames.InvalidNumber, codenames.InvalidClue, codenames.UnknownWord, codenames.UnknownTeam:
		code = http.StatusBadRequest
	}
	return httperr.Wrap(code, err).WithMessage(gerr.Message)
}

func channel(r *http.Request) string {
	return mux.Vars(r)["channel"]
}

func success() interface{} {
	return struct {
		Success bool `json:"success"`
	}{true}
}

func decode(r *http.Request, v interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return httperr.BadRequest("failed to decode request: %v", err).WithMessage("Malformed request")
	}
	return nil
}

func jsonResp(w http.ResponseWriter, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

func (s *Srv) loadPlayer(r *http.Request) (codenames.PlayerID, error) {
	c, err := r.Cookie(authCookie)
	if err == http.ErrNoCookie {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	var p codenames.PlayerID
	if err := s.sc.Decode("auth", c.Value, &p); err != nil {
		// If we can't parse it, assume it's an old auth cookie and treat them as
		// not logged in.
		return "", nil
	}
	return p, nil
}
