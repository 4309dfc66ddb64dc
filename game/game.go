// Package game implements the rules of Codenames: building teams, picking
// hinters, giving clues, guessing and passing, and deciding who won.
//
// A *Game does no I/O and has no locking of its own. Callers must not use the
// same *Game from multiple goroutines at once, see the server package for how
// that's done. Every operation either fully applies or returns an error and
// leaves the game exactly as it was.
package game

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/bcspragu/codenamesbot/boardgen"
	"github.com/bcspragu/codenamesbot/codenames"
	"github.com/bcspragu/codenamesbot/words"
)

// MinPlayers is the fewest players a game can start with, one per team.
const MinPlayers = codenames.NumTeams

// Config holds everything needed to set up a game of Codenames.
type Config struct {
	ID codenames.GameID
	// Channel is whatever the caller uses to find the game again, it's opaque to
	// the game.
	Channel string
	Layout  boardgen.Layout
	// Words is where the codenames for the board come from.
	Words *words.Pool
	// Rand is used for drawing words, laying out the board, assigning players
	// to teams and picking random hinters.
	Rand *rand.Rand
}

// Game represents a single game of Codenames, from the lobby until somebody
// wins.
type Game struct {
	cfg *Config

	// joined is in join order, which is used for building teams.
	joined []codenames.PlayerID
	prefs  map[codenames.PlayerID]codenames.Team

	started bool
	board   *codenames.Board
	teams   [codenames.NumTeams]*roster
	turn    turn
	winner  codenames.Team
}

// New validates the config and returns a game in the lobby.
func New(cfg *Config) (*Game, error) {
	if cfg == nil {
		return nil, errors.New("no config given")
	}
	if err := cfg.Layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}
	if cfg.Words == nil {
		return nil, errors.New("no word pool given")
	}
	if cfg.Rand == nil {
		return nil, errors.New("no source of randomness given")
	}
	if n := cfg.Layout.Size(); cfg.Words.Len() < n {
		return nil, codenames.NewError(codenames.InsufficientWords, "a board needs %d words, the word list only has %d", n, cfg.Words.Len())
	}

	return &Game{
		cfg:    cfg,
		prefs:  make(map[codenames.PlayerID]codenames.Team),
		turn:   turn{phase: codenames.PhaseLobby, team: codenames.NoTeam},
		winner: codenames.NoTeam,
	}, nil
}

func (g *Game) ID() codenames.GameID { return g.cfg.ID }
func (g *Game) Channel() string      { return g.cfg.Channel }

// Join adds a player to the lobby with no team preference. Joining twice does
// nothing.
func (g *Game) Join(p codenames.PlayerID) error {
	if g.started {
		return g.alreadyStarted()
	}
	if _, ok := g.prefs[p]; ok {
		return nil
	}
	g.joined = append(g.joined, p)
	g.prefs[p] = codenames.NoTeam
	return nil
}

// PreferTeam records which team the player wants to be on, NoTeam meaning
// they'll take whatever. Players that haven't joined yet are added.
func (g *Game) PreferTeam(p codenames.PlayerID, t codenames.Team) error {
	if g.started {
		return g.alreadyStarted()
	}
	if t != codenames.NoTeam && !t.Valid() {
		return codenames.NewError(codenames.UnknownTeam, "there's no team %d", int(t))
	}
	if err := g.Join(p); err != nil {
		return err
	}
	g.prefs[p] = t
	return nil
}

// TeamPreferences groups the lobby by preference, in join order. Players
// without a preference are under NoTeam.
func (g *Game) TeamPreferences() map[codenames.Team][]codenames.PlayerID {
	out := make(map[codenames.Team][]codenames.PlayerID)
	for _, p := range g.joined {
		t := g.prefs[p]
		out[t] = append(out[t], p)
	}
	return out
}

// Players returns everyone who joined, in join order.
func (g *Game) Players() []codenames.PlayerID {
	out := make([]codenames.PlayerID, len(g.joined))
	copy(out, g.joined)
	return out
}

// StartOutcome is what happened when the game started.
type StartOutcome struct {
	Teams []*TeamInfo
	// Phase is PhaseHint if every team got a hinter automatically, which
	// happens when every team has a single player.
	Phase codenames.Phase
}

// Start draws the board, splits the lobby into teams and moves on to picking
// hinters. Teams with a single player don't get a choice, that player is
// their hinter.
func (g *Game) Start() (*StartOutcome, error) {
	if g.started {
		return nil, g.alreadyStarted()
	}
	if len(g.joined) < MinPlayers {
		return nil, codenames.NewError(codenames.InsufficientPlayers, "need at least %d players to start, have %d", MinPlayers, len(g.joined))
	}

	b, err := boardgen.New(g.cfg.Layout, g.cfg.Words, g.cfg.Rand)
	if err != nil {
		return nil, fmt.Errorf("failed to generate board: %w", err)
	}
	teams := buildRosters(g.joined, g.prefs, g.cfg.Rand)
	for _, ros := range teams {
		if ros.size() == 0 {
			// buildRosters guarantees this with two or more players.
			return nil, codenames.NewError(codenames.InsufficientPlayers, "%s has no players", ros.team)
		}
	}

	g.started = true
	g.board = b
	g.teams = teams
	g.turn.chooseHinters(codenames.Teams[0])

	for _, ros := range g.teams {
		if ros.size() == 1 {
			ros.pickHinter(ros.members[0].id)
		}
	}
	g.maybeBeginHinting()

	return &StartOutcome{
		Teams: g.Teams(),
		Phase: g.turn.phase,
	}, nil
}

func (g *Game) allPicked() bool {
	for _, ros := range g.teams {
		if !ros.rolesPicked {
			return false
		}
	}
	return true
}

func (g *Game) maybeBeginHinting() {
	if g.turn.phase == codenames.PhaseChooseHinter && g.allPicked() {
		g.turn.beginHinting(g.cfg.Layout.StartingTeam())
	}
}

// PickOutcome is the result of picking a hinter.
type PickOutcome struct {
	Team   codenames.Team
	Hinter codenames.PlayerID
	// AllPicked is true if this was the last team to pick, and the game has
	// moved on to giving clues.
	AllPicked bool
}

// PickHinter makes the player, or a random member of their team if random is
// set, their team's hinter. Everyone else on the team becomes a guesser.
func (g *Game) PickHinter(p codenames.PlayerID, random bool) (*PickOutcome, error) {
	if g.turn.phase != codenames.PhaseChooseHinter {
		return nil, g.wrongPhase("pick a hinter")
	}
	ros := g.rosterOf(p)
	if ros == nil {
		return nil, codenames.NewError(codenames.NotOnTeam, "%s isn't on a team", p)
	}
	if ros.rolesPicked {
		return nil, codenames.NewError(codenames.AlreadyPicked, "%s already has a hinter", ros.team)
	}

	hinter := p
	if random {
		hinter = ros.members[g.cfg.Rand.Intn(len(ros.members))].id
	}
	ros.pickHinter(hinter)
	g.maybeBeginHinting()

	return &PickOutcome{
		Team:      ros.team,
		Hinter:    hinter,
		AllPicked: g.turn.phase == codenames.PhaseHint,
	}, nil
}

// GiveClue is the active team's hinter giving a clue. number is either a
// non-negative integer or "unlimited". The clue word isn't checked against
// the board.
func (g *Game) GiveClue(p codenames.PlayerID, word, number string) (*codenames.Clue, error) {
	if g.turn.phase != codenames.PhaseHint {
		return nil, g.wrongPhase("give a clue")
	}
	if err := g.checkTurn(p, codenames.Hinter); err != nil {
		return nil, err
	}

	w := codenames.Normalize(word)
	if w == "" {
		return nil, codenames.NewError(codenames.InvalidClue, "a clue needs a word")
	}
	cnt, err := codenames.ParseCount(number)
	if err != nil {
		return nil, codenames.WrapError(codenames.InvalidNumber, err, "invalid number %q, give a non-negative number or %q", number, codenames.UnlimitedToken)
	}

	c := &codenames.Clue{Word: w, Count: cnt}
	g.turn.giveClue(c)
	cc := *c
	return &cc, nil
}

// GuessOutcome describes what a guess revealed.
type GuessOutcome struct {
	Codename string
	Agent    codenames.Agent
	// Winner is NoTeam unless the guess ended the game.
	Winner codenames.Team
	// TurnEnds is true if the guessing team's turn is over, including when the
	// game is.
	TurnEnds    bool
	GuessesLeft codenames.Count
}

// Guess reveals a word for the active team.
func (g *Game) Guess(p codenames.PlayerID, word string) (*GuessOutcome, error) {
	if g.turn.phase != codenames.PhaseGuess {
		return nil, g.wrongPhase("guess")
	}
	if err := g.checkTurn(p, codenames.Guesser); err != nil {
		return nil, err
	}

	guesser := g.turn.team
	ag, err := g.board.Reveal(word, guesser)
	if err != nil {
		return nil, err
	}
	g.turn.recordGuess()

	out := &GuessOutcome{
		Codename: codenames.Normalize(word),
		Agent:    ag,
		Winner:   codenames.NoTeam,
	}

	switch ag {
	case codenames.Assassin:
		g.endGame(guesser.Other())
	case codenames.Bystander:
		g.turn.end()
	default:
		owner, _ := ag.Team()
		switch {
		case g.board.Remaining(owner) == 0:
			// Finding the last agent wins for whoever owns it, even if the other
			// team found it for them.
			g.endGame(owner)
		case owner != guesser:
			g.turn.end()
		case g.turn.guessesLeft.Zero():
			g.turn.end()
		}
	}

	out.Winner = g.winner
	out.TurnEnds = g.turn.phase != codenames.PhaseGuess
	out.GuessesLeft = g.turn.guessesLeft
	return out, nil
}

// Pass ends the active team's turn. They have to make at least one guess
// first.
func (g *Game) Pass(p codenames.PlayerID) error {
	if g.turn.phase != codenames.PhaseGuess {
		return g.wrongPhase("pass")
	}
	if err := g.checkTurn(p, codenames.Guesser); err != nil {
		return err
	}
	if !g.turn.guessed {
		return codenames.NewError(codenames.MustGuessOnce, "%s must make at least one guess before passing", g.turn.team)
	}
	g.turn.end()
	return nil
}

// alreadyStarted is the error for lobby operations once the game is going.
// Finished games reject everything with WrongPhase.
func (g *Game) alreadyStarted() error {
	if g.turn.phase == codenames.PhaseGameOver {
		return codenames.NewError(codenames.WrongPhase, "game %s is over", g.cfg.ID)
	}
	return codenames.NewError(codenames.GameAlreadyStarted, "game %s has already started", g.cfg.ID)
}

func (g *Game) endGame(winner codenames.Team) {
	g.winner = winner
	g.turn.gameOver()
}

// checkTurn makes sure it's p's team's turn, and that p has the role needed.
func (g *Game) checkTurn(p codenames.PlayerID, role codenames.Role) error {
	ros := g.rosterOf(p)
	if ros == nil {
		return codenames.NewError(codenames.NotOnTeam, "%s isn't on a team", p)
	}
	if ros.team != g.turn.team {
		return codenames.NewError(codenames.NotYourTurn, "it's %s's turn", g.turn.team)
	}

	ok := ros.roleOf(p) == role
	if role == codenames.Guesser {
		ok = ros.canGuess(p)
	}
	if !ok {
		return codenames.NewError(codenames.WrongRole, "only a %s can do that right now", role)
	}
	return nil
}

func (g *Game) wrongPhase(action string) error {
	return codenames.NewError(codenames.WrongPhase, "can't %s during phase %s", action, g.turn.phase)
}

func (g *Game) rosterOf(p codenames.PlayerID) *roster {
	for _, ros := range g.teams {
		if ros != nil && ros.has(p) {
			return ros
		}
	}
	return nil
}
