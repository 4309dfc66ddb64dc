// Package boardgen lays out codenames boards.
package boardgen

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/bcspragu/codenamesbot/codenames"
	"github.com/bcspragu/codenamesbot/words"
)

// Layout is how many cards of each type go on a board.
type Layout struct {
	// TeamAgents is indexed by team.
	TeamAgents [codenames.NumTeams]int `json:"team_agents"`
	Bystanders int                     `json:"bystanders"`
	Assassins  int                     `json:"assassins"`
}

// Standard is the 9/8/7/1 layout from the box, where the starter gets the
// extra agent.
func Standard(starter codenames.Team) Layout {
	l := Layout{
		TeamAgents: [codenames.NumTeams]int{9, 8},
		Bystanders: 7,
		Assassins:  1,
	}
	if starter == codenames.RedTeam {
		l.TeamAgents[0], l.TeamAgents[1] = 8, 9
	}
	return l
}

// Size is the total number of cards on the board.
func (l Layout) Size() int {
	n := l.Bystanders + l.Assassins
	for _, c := range l.TeamAgents {
		n += c
	}
	return n
}

// Validate checks that the layout can actually be played.
func (l Layout) Validate() error {
	for i, c := range l.TeamAgents {
		if c < 1 {
			return fmt.Errorf("%s needs at least one agent, got %d", codenames.Team(i), c)
		}
	}
	if l.Bystanders < 0 {
		return fmt.Errorf("bystander count can't be negative, got %d", l.Bystanders)
	}
	if l.Assassins < 0 {
		return errors.New("assassin count can't be negative")
	}
	return nil
}

// StartingTeam is the team with the most agents, they have more to find so
// they go first. Ties go to the first team.
func (l Layout) StartingTeam() codenames.Team {
	best := codenames.Teams[0]
	for _, t := range codenames.Teams[1:] {
		if l.TeamAgents[t] > l.TeamAgents[best] {
			best = t
		}
	}
	return best
}

func (l Layout) agents() []codenames.Agent {
	agents := make([]codenames.Agent, 0, l.Size())
	for _, t := range codenames.Teams {
		for i := 0; i < l.TeamAgents[t]; i++ {
			agents = append(agents, codenames.AgentFor(t))
		}
	}
	for i := 0; i < l.Bystanders; i++ {
		agents = append(agents, codenames.Bystander)
	}
	for i := 0; i < l.Assassins; i++ {
		agents = append(agents, codenames.Assassin)
	}
	return agents
}

// Generate shuffles the words and deals them out: the first ones go to the
// first team's agents, then the second team's, then bystanders, then
// assassins. The words must be distinct and there must be exactly
// l.Size() of them, anything else is a programming error.
func Generate(words []string, l Layout, r *rand.Rand) *codenames.Board {
	if len(words) != l.Size() {
		panic(fmt.Sprintf("boardgen: got %d words for a board of %d", len(words), l.Size()))
	}

	agents := l.agents()
	cards := make([]codenames.Card, len(words))
	for i, idx := range r.Perm(len(words)) {
		cards[i] = codenames.Card{
			Codename:   words[idx],
			Agent:      agents[i],
			RevealedBy: codenames.NoTeam,
		}
	}

	// Deal order determines agents, so shuffle again for where the cards sit.
	r.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})

	return &codenames.Board{Cards: cards}
}

// New draws a fresh set of words from the pool and generates a board from
// them.
func New(l Layout, pool *words.Pool, r *rand.Rand) (*codenames.Board, error) {
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}
	ws, err := pool.Sample(l.Size(), r)
	if err != nil {
		return nil, err
	}
	return Generate(ws, l, r), nil
}
