package codenames

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NumTeams is the number of teams competing in a game of Codenames.
const NumTeams = 2

// PlayerID identifies a player. The engine only ever compares them.
type PlayerID string

// Team is the affiliation of a player.
type Team int

const (
	// NoTeam is an error case, and the "random" team preference.
	NoTeam Team = -1
	// BlueTeam is team A, and is index zero in anything indexed by team.
	BlueTeam Team = 0
	// RedTeam is team B.
	RedTeam Team = 1
)

// Teams lists every team, in iteration order.
var Teams = []Team{BlueTeam, RedTeam}

func (t Team) String() string {
	switch t {
	case BlueTeam:
		return "Blue Team"
	case RedTeam:
		return "Red Team"
	}
	return ""
}

// Valid reports whether t is an actual team, and not NoTeam or garbage.
func (t Team) Valid() bool {
	return t >= 0 && int(t) < NumTeams
}

// Other returns the opposing team.
func (t Team) Other() Team {
	switch t {
	case BlueTeam:
		return RedTeam
	case RedTeam:
		return BlueTeam
	}
	return NoTeam
}

// ParseTeam parses a team preference. "a" and "b" (or the color names) pick a
// team, "r", "x", "random" or nothing at all returns NoTeam.
func ParseTeam(s string) (Team, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a", "blue":
		return BlueTeam, nil
	case "b", "red":
		return RedTeam, nil
	case "", "r", "x", "random":
		return NoTeam, nil
	}
	return NoTeam, fmt.Errorf("unknown team %q", s)
}

// Agent is the affiliation of a codename.
type Agent int

const (
	// UnknownAgent means we don't know who the codename belongs to.
	UnknownAgent Agent = iota
	// BlueAgent means the codename belongs to an agent on the blue team.
	BlueAgent
	// RedAgent means the codename belongs to an agent on the red team.
	RedAgent
	// Bystander means the codename doesn't belong to an agent.
	Bystander
	// Assassin means the codename belongs to the assassin.
	Assassin
)

// Agents lists every known agent type, in display order.
var Agents = []Agent{BlueAgent, RedAgent, Bystander, Assassin}

func (a Agent) String() string {
	switch a {
	case UnknownAgent:
		return "Agent Status Unknown"
	case BlueAgent:
		return "Blue Agent"
	case RedAgent:
		return "Red Agent"
	case Bystander:
		return "Bystander"
	case Assassin:
		return "Assassin"
	}
	return ""
}

// AgentFor returns the agent type belonging to the given team.
func AgentFor(t Team) Agent {
	switch t {
	case BlueTeam:
		return BlueAgent
	case RedTeam:
		return RedAgent
	}
	return UnknownAgent
}

// Team returns which team the agent works for, if any.
func (a Agent) Team() (Team, bool) {
	switch a {
	case BlueAgent:
		return BlueTeam, true
	case RedAgent:
		return RedTeam, true
	}
	return NoTeam, false
}

// Role is what type of player in the game you are.
type Role int

const (
	// NoRole means roles haven't been picked for the player's team yet.
	NoRole Role = iota
	// Hinter is the person giving the clues.
	Hinter
	// Guesser is anyone who guesses the codenames on the board.
	Guesser
)

func (r Role) String() string {
	switch r {
	case Hinter:
		return "Hinter"
	case Guesser:
		return "Guesser"
	}
	return ""
}

// Normalize is how every word is compared on a board, lowercase with the
// surrounding whitespace removed.
func Normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// Count is either a finite, non-negative number or unlimited. The zero value
// is Finite(0).
type Count struct {
	n         int
	unlimited bool
}

// UnlimitedToken is what a hinter says instead of a number for an unlimited
// clue.
const UnlimitedToken = "unlimited"

// MaxCount is the biggest number a clue can have.
const MaxCount = 1000

// Unlimited is a count that never runs out.
var Unlimited = Count{unlimited: true}

// Finite returns a count of n. Negative values are clamped to zero.
func Finite(n int) Count {
	if n < 0 {
		n = 0
	}
	return Count{n: n}
}

// ParseCount parses a clue number, either a non-negative integer or the
// unlimited token.
func ParseCount(tok string) (Count, error) {
	tok = strings.ToLower(strings.TrimSpace(tok))
	if tok == UnlimitedToken {
		return Unlimited, nil
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return Count{}, fmt.Errorf("%q is not a number: %w", tok, err)
	}
	if n < 0 {
		return Count{}, fmt.Errorf("%d is negative", n)
	}
	if n > MaxCount {
		return Count{}, fmt.Errorf("%d is more than %d", n, MaxCount)
	}
	return Finite(n), nil
}

// IsUnlimited reports whether the count never runs out.
func (c Count) IsUnlimited() bool { return c.unlimited }

// N returns the finite value of the count, and -1 when it's unlimited.
func (c Count) N() int {
	if c.unlimited {
		return -1
	}
	return c.n
}

// Equal reports whether two counts are the same.
func (c Count) Equal(o Count) bool {
	return c == o
}

// Zero reports whether a finite count has run out.
func (c Count) Zero() bool {
	return !c.unlimited && c.n == 0
}

// Inc returns c+1, unlimited stays unlimited and the biggest int stays put.
func (c Count) Inc() Count {
	if c.unlimited || c.n == math.MaxInt {
		return c
	}
	return Count{n: c.n + 1}
}

// Dec returns c-1, unlimited stays unlimited and zero stays zero.
func (c Count) Dec() Count {
	if c.unlimited || c.n == 0 {
		return c
	}
	return Count{n: c.n - 1}
}

func (c Count) String() string {
	if c.unlimited {
		return UnlimitedToken
	}
	return strconv.Itoa(c.n)
}

// MarshalJSON writes a finite count as a number and unlimited as a string.
func (c Count) MarshalJSON() ([]byte, error) {
	if c.unlimited {
		return json.Marshal(UnlimitedToken)
	}
	return json.Marshal(c.n)
}

func (c *Count) UnmarshalJSON(dat []byte) error {
	var n int
	if err := json.Unmarshal(dat, &n); err == nil {
		*c = Finite(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(dat, &s); err != nil {
		return fmt.Errorf("count must be a number or %q: %w", UnlimitedToken, err)
	}
	pc, err := ParseCount(s)
	if err != nil {
		return err
	}
	*c = pc
	return nil
}

// Clue is a word and a count from the hinter.
type Clue struct {
	Word  string `json:"word"`
	Count Count  `json:"count"`
}

func (c *Clue) String() string {
	return c.Word + " " + c.Count.String()
}

// ParseClue parses a clue in the form "<word> <count>".
func ParseClue(s string) (*Clue, error) {
	ps := strings.Fields(s)
	if len(ps) != 2 {
		return nil, NewError(InvalidNumber, "clue %q must be a word and a number", s)
	}
	cnt, err := ParseCount(ps[1])
	if err != nil {
		return nil, WrapError(InvalidNumber, err, "invalid number in clue %q", s)
	}
	return &Clue{Word: Normalize(ps[0]), Count: cnt}, nil
}
