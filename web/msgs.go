package web

import (
	"encoding/json"
	"fmt"

	"github.com/bcspragu/codenamesbot/codenames"
	"github.com/bcspragu/codenamesbot/game"
	"github.com/bcspragu/codenamesbot/server"
)

// Actions for messages sent over the WebSocket. Every message has an "action"
// field set to one of these.
const (
	ActionPlayerJoined = "PLAYER_JOINED"
	ActionGameStart    = "GAME_START"
	ActionHinterPicked = "HINTER_PICKED"
	ActionHinterBoard  = "HINTER_BOARD"
	ActionClueGiven    = "CLUE_GIVEN"
	ActionGuessGiven   = "GUESS_GIVEN"
	ActionPass         = "PASS"
	ActionGameEnd      = "GAME_END"
	ActionGameReset    = "GAME_RESET"
)

// GameView is everything a player is allowed to know about the game in a
// channel.
type GameView struct {
	ID      codenames.GameID `json:"id"`
	Channel string           `json:"channel"`
	Phase   codenames.Phase  `json:"phase"`

	CurrentTeam      codenames.Team  `json:"current_team"`
	Turn             int             `json:"turn"`
	Clue             *codenames.Clue `json:"clue,omitempty"`
	GuessesRemaining codenames.Count `json:"guesses_remaining"`
	GuessedThisTurn  bool            `json:"guessed_this_turn"`
	Winner           codenames.Team  `json:"winner"`

	Preferences map[codenames.Team][]codenames.PlayerID `json:"preferences"`
	Teams       []*game.TeamInfo                         `json:"teams,omitempty"`

	// Board is laid out in rows, with unrevealed cards hidden.
	Board [][]codenames.Card `json:"board,omitempty"`
	// HinterWords is only filled in for hinters, and for everyone once the game
	// is over.
	HinterWords map[codenames.Agent][]string `json:"hinter_words,omitempty"`

	You *Player `json:"you,omitempty"`
}

// Player is the requesting player's place in the game.
type Player struct {
	ID   codenames.PlayerID `json:"id"`
	Team codenames.Team     `json:"team"`
	Role codenames.Role     `json:"role"`
}

type PlayerJoined struct {
	Player codenames.PlayerID `json:"player"`
	// Team is the team they'd like to be on, NoTeam for random.
	Team codenames.Team `json:"team"`
}

func (pj *PlayerJoined) MarshalJSON() ([]byte, error) {
	type alias PlayerJoined
	return withAction(ActionPlayerJoined, (*alias)(pj))
}

type GameStart struct {
	Game *GameView `json:"game"`
}

func (gs *GameStart) MarshalJSON() ([]byte, error) {
	type alias GameStart
	return withAction(ActionGameStart, (*alias)(gs))
}

type HinterPicked struct {
	Team      codenames.Team     `json:"team"`
	Hinter    codenames.PlayerID `json:"hinter"`
	AllPicked bool               `json:"all_picked"`
}

func (hp *HinterPicked) MarshalJSON() ([]byte, error) {
	type alias HinterPicked
	return withAction(ActionHinterPicked, (*alias)(hp))
}

// HinterBoard only goes to hinters.
type HinterBoard struct {
	Words map[codenames.Agent][]string `json:"words"`
}

func (hb *HinterBoard) MarshalJSON() ([]byte, error) {
	type alias HinterBoard
	return withAction(ActionHinterBoard, (*alias)(hb))
}

type ClueGiven struct {
	Team             codenames.Team  `json:"team"`
	Clue             *codenames.Clue `json:"clue"`
	GuessesRemaining codenames.Count `json:"guesses_remaining"`
}

func (cg *ClueGiven) MarshalJSON() ([]byte, error) {
	type alias ClueGiven
	return withAction(ActionClueGiven, (*alias)(cg))
}

type GuessGiven struct {
	Player      codenames.PlayerID `json:"player"`
	Team        codenames.Team     `json:"team"`
	Codename    string             `json:"codename"`
	Agent       codenames.Agent    `json:"agent"`
	TurnEnds    bool               `json:"turn_ends"`
	GuessesLeft codenames.Count    `json:"guesses_left"`
}

func (gg *GuessGiven) MarshalJSON() ([]byte, error) {
	type alias GuessGiven
	return withAction(ActionGuessGiven, (*alias)(gg))
}

type Pass struct {
	Player codenames.PlayerID `json:"player"`
	Team   codenames.Team     `json:"team"`
}

func (p *Pass) MarshalJSON() ([]byte, error) {
	type alias Pass
	return withAction(ActionPass, (*alias)(p))
}

type GameEnd struct {
	Winner         codenames.Team               `json:"winner"`
	WinningPlayers []codenames.PlayerID         `json:"winning_players"`
	Board          map[codenames.Agent][]string `json:"board"`
}

func (ge *GameEnd) MarshalJSON() ([]byte, error) {
	type alias GameEnd
	return withAction(ActionGameEnd, (*alias)(ge))
}

type GameReset struct {
	*server.ResetOutcome
}

func (gr *GameReset) MarshalJSON() ([]byte, error) {
	return withAction(ActionGameReset, gr.ResetOutcome)
}

// withAction marshals msg, which must encode to a JSON object, and adds the
// action to it.
func withAction(action string, msg interface{}) ([]byte, error) {
	dat, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(dat, &obj); err != nil {
		return nil, fmt.Errorf("message for %q isn't an object: %w", action, err)
	}
	if obj == nil {
		obj = make(map[string]json.RawMessage)
	}
	if obj["action"], err = json.Marshal(action); err != nil {
		return nil, err
	}

	return json.Marshal(obj)
}
