package codenames

import "context"

type GameID string

type GameStatus string

const (
	// NoStatus is an error case.
	NoStatus = GameStatus("")
	// Game hasn't started yet.
	Pending = GameStatus("PENDING")
	// Game is in progress.
	Playing = GameStatus("PLAYING")
	// Game is finished.
	Finished = GameStatus("FINISHED")
)

// Phase is where in the turn structure a game is.
type Phase string

const (
	// PhaseLobby is before the game starts, players can join and pick teams.
	PhaseLobby = Phase("LOBBY")
	// PhaseChooseHinter is after the teams are set, while each team picks its
	// hinter.
	PhaseChooseHinter = Phase("CHOOSE_HINTER")
	// PhaseHint is when the active team's hinter needs to give a clue.
	PhaseHint = Phase("HINT")
	// PhaseGuess is when the active team's guessers are guessing.
	PhaseGuess = Phase("GUESS")
	// PhaseGameOver is terminal.
	PhaseGameOver = Phase("GAME_OVER")
)

// Status returns the lifecycle status corresponding to a phase.
func (p Phase) Status() GameStatus {
	switch p {
	case PhaseLobby:
		return Pending
	case PhaseChooseHinter, PhaseHint, PhaseGuess:
		return Playing
	case PhaseGameOver:
		return Finished
	}
	return NoStatus
}

type Game struct {
	ID GameID `json:"id"`
	// Channel is wherever the game is being played, as far as the caller is
	// concerned.
	Channel string     `json:"channel"`
	Status  GameStatus `json:"status"`
	State   *GameState `json:"state"`
}

// GameState is a snapshot of everything about a game.
type GameState struct {
	Phase        Phase `json:"phase"`
	ActiveTeam   Team  `json:"active_team"`
	StartingTeam Team  `json:"starting_team"`
	// Clue is only set while the active team is guessing.
	Clue            *Clue         `json:"clue,omitempty"`
	NumGuessesLeft  Count         `json:"num_guesses_left"`
	GuessedThisTurn bool          `json:"guessed_this_turn"`
	Turn            int           `json:"turn"`
	Winner          Team          `json:"winner"`
	Board           *Board        `json:"board"`
	Players         []*PlayerRole `json:"players"`
}

// PlayerRole is a player's place in a game.
type PlayerRole struct {
	PlayerID PlayerID `json:"player_id"`
	Team     Team     `json:"team"`
	Role     Role     `json:"role"`
}

// DB persists game snapshots. Implementations must be safe for concurrent use.
type DB interface {
	NewGame(context.Context, *Game) (GameID, error)
	Game(context.Context, GameID) (*Game, error)
	GamesWithStatus(context.Context, GameStatus) ([]GameID, error)
	UpdateState(context.Context, GameID, *GameState) error
}

func (g *Game) Clone() *Game {
	if g == nil {
		return nil
	}
	gc := *g
	gc.State = g.State.Clone()
	return &gc
}

func (gs *GameState) Clone() *GameState {
	if gs == nil {
		return nil
	}
	gsc := *gs
	if gs.Clue != nil {
		c := *gs.Clue
		gsc.Clue = &c
	}
	gsc.Board = CloneBoard(gs.Board)
	gsc.Players = make([]*PlayerRole, len(gs.Players))
	for i, pr := range gs.Players {
		gsc.Players[i] = pr.Clone()
	}
	return &gsc
}

func (pr *PlayerRole) Clone() *PlayerRole {
	prc := *pr
	return &prc
}
