package game

import "github.com/bcspragu/codenamesbot/codenames"

func (g *Game) Phase() codenames.Phase { return g.turn.phase }

// Started is true once Start has succeeded.
func (g *Game) Started() bool { return g.started }

// CurrentTeam is the team that's up. It's the first team while hinters are
// being chosen, and NoTeam in the lobby.
func (g *Game) CurrentTeam() codenames.Team { return g.turn.team }

// TurnNumber starts at 1 once every team has a hinter, and goes up every time
// the turn passes to the other team.
func (g *Game) TurnNumber() int { return g.turn.number }

// GuessesRemaining is how many more guesses the active team gets for the
// current clue.
func (g *Game) GuessesRemaining() codenames.Count { return g.turn.guessesLeft }

// GuessedThisTurn is true once the active team has made a guess for the
// current clue, at which point they're allowed to pass.
func (g *Game) GuessedThisTurn() bool { return g.turn.guessed }

// Clue returns the clue the active team is guessing for, or nil outside of
// PhaseGuess.
func (g *Game) Clue() *codenames.Clue {
	if g.turn.clue == nil {
		return nil
	}
	c := *g.turn.clue
	return &c
}

// Winner is NoTeam until the game is over.
func (g *Game) Winner() codenames.Team { return g.winner }

// WinningPlayers returns the players on the winning team, or nil if nobody has
// won yet.
func (g *Game) WinningPlayers() []codenames.PlayerID {
	if !g.winner.Valid() {
		return nil
	}
	return g.teams[g.winner].players()
}

// Teams returns a snapshot of every team, in team order. It's empty before the
// game starts.
func (g *Game) Teams() []*TeamInfo {
	if !g.started {
		return nil
	}
	out := make([]*TeamInfo, 0, len(g.teams))
	for _, ros := range g.teams {
		out = append(out, ros.info())
	}
	return out
}

// AllHintersPicked reports whether every team has a hinter.
func (g *Game) AllHintersPicked() bool {
	return g.started && g.allPicked()
}

// HasPlayer is true for anyone who joined the game.
func (g *Game) HasPlayer(p codenames.PlayerID) bool {
	_, ok := g.prefs[p]
	return ok
}

// TeamOf returns the player's team, or NoTeam if they aren't on one.
func (g *Game) TeamOf(p codenames.PlayerID) codenames.Team {
	if ros := g.rosterOf(p); ros != nil {
		return ros.team
	}
	return codenames.NoTeam
}

// RoleOf returns the player's role, or NoRole if their team hasn't picked
// yet or they aren't playing.
func (g *Game) RoleOf(p codenames.PlayerID) codenames.Role {
	if ros := g.rosterOf(p); ros != nil {
		return ros.roleOf(p)
	}
	return codenames.NoRole
}

// WithRole returns the team's players holding the given role, in team order.
func (g *Game) WithRole(t codenames.Team, role codenames.Role) []codenames.PlayerID {
	if !g.started || !t.Valid() {
		return nil
	}
	return g.teams[t].withRole(role)
}

// PublicWords is the board as everybody gets to see it.
type PublicWords struct {
	// Revealed has the guessed codenames, grouped by what they turned out to be.
	Revealed   map[codenames.Agent][]string `json:"revealed"`
	Unrevealed []string                     `json:"unrevealed"`
}

// PublicWords returns what everyone can know about the board. It's empty
// before the game starts.
func (g *Game) PublicWords() *PublicWords {
	if g.board == nil {
		return &PublicWords{Revealed: map[codenames.Agent][]string{}}
	}
	return &PublicWords{
		Revealed:   g.board.Revealed(),
		Unrevealed: g.board.Unrevealed(),
	}
}

// HinterWords groups every codename by agent, which only hinters should see.
// Set excludeRevealed to leave out cards that have already been guessed.
func (g *Game) HinterWords(excludeRevealed bool) map[codenames.Agent][]string {
	if g.board == nil {
		return map[codenames.Agent][]string{}
	}
	return g.board.ByAgent(excludeRevealed)
}

// Board returns a copy of the full board, or nil before the game starts.
func (g *Game) Board() *codenames.Board {
	return codenames.CloneBoard(g.board)
}

// State is a snapshot of the game, suitable for persisting.
func (g *Game) State() *codenames.GameState {
	gs := &codenames.GameState{
		Phase:           g.turn.phase,
		ActiveTeam:      g.turn.team,
		StartingTeam:    g.cfg.Layout.StartingTeam(),
		Clue:            g.Clue(),
		NumGuessesLeft:  g.turn.guessesLeft,
		GuessedThisTurn: g.turn.guessed,
		Turn:            g.turn.number,
		Winner:          g.winner,
		Board:           g.Board(),
	}
	for _, p := range g.joined {
		gs.Players = append(gs.Players, &codenames.PlayerRole{
			PlayerID: p,
			Team:     g.TeamOf(p),
			Role:     g.RoleOf(p),
		})
	}
	return gs
}
