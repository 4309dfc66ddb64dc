package game

import (
	"math/rand"

	"github.com/bcspragu/codenamesbot/codenames"
)

type member struct {
	id   codenames.PlayerID
	role codenames.Role
}

// roster is the players on one team. A player's role lives on their member
// entry, so nobody can be both a hinter and a guesser.
type roster struct {
	team        codenames.Team
	members     []*member
	rolesPicked bool
}

func newRoster(t codenames.Team) *roster {
	return &roster{team: t}
}

func (r *roster) find(p codenames.PlayerID) *member {
	for _, m := range r.members {
		if m.id == p {
			return m
		}
	}
	return nil
}

func (r *roster) has(p codenames.PlayerID) bool {
	return r.find(p) != nil
}

// add is a no-op for players who are already on the team.
func (r *roster) add(p codenames.PlayerID) {
	if r.has(p) {
		return
	}
	r.members = append(r.members, &member{id: p})
}

func (r *roster) size() int {
	return len(r.members)
}

func (r *roster) players() []codenames.PlayerID {
	out := make([]codenames.PlayerID, len(r.members))
	for i, m := range r.members {
		out[i] = m.id
	}
	return out
}

func (r *roster) roleOf(p codenames.PlayerID) codenames.Role {
	if m := r.find(p); m != nil {
		return m.role
	}
	return codenames.NoRole
}

func (r *roster) withRole(role codenames.Role) []codenames.PlayerID {
	var out []codenames.PlayerID
	for _, m := range r.members {
		if m.role == role {
			out = append(out, m.id)
		}
	}
	return out
}

// pickHinter makes p the team's hinter and everybody else a guesser. The
// caller has already checked that p is on the team.
func (r *roster) pickHinter(p codenames.PlayerID) {
	for _, m := range r.members {
		if m.id == p {
			m.role = codenames.Hinter
		} else {
			m.role = codenames.Guesser
		}
	}
	r.rolesPicked = true
}

// canGuess is true for guessers, and for the hinter of a team that has nobody
// else to guess.
func (r *roster) canGuess(p codenames.PlayerID) bool {
	switch r.roleOf(p) {
	case codenames.Guesser:
		return true
	case codenames.Hinter:
		return len(r.withRole(codenames.Guesser)) == 0
	}
	return false
}

func (r *roster) info() *TeamInfo {
	return &TeamInfo{
		Team:        r.team,
		Players:     r.players(),
		Hinters:     r.withRole(codenames.Hinter),
		Guessers:    r.withRole(codenames.Guesser),
		RolesPicked: r.rolesPicked,
	}
}

// TeamInfo is a read-only view of a team.
type TeamInfo struct {
	Team        codenames.Team       `json:"team"`
	Players     []codenames.PlayerID `json:"players"`
	Hinters     []codenames.PlayerID `json:"hinters"`
	Guessers    []codenames.PlayerID `json:"guessers"`
	RolesPicked bool                 `json:"roles_picked"`
}

// buildRosters splits players into teams. Players who asked for a team get it,
// in join order. Everyone else is shuffled and dealt one at a time to
// whichever team is smallest, ties going to the lower team. If that still
// leaves a team empty (everyone asked for the same team), the most recent
// joiner of the biggest team gets moved.
func buildRosters(order []codenames.PlayerID, prefs map[codenames.PlayerID]codenames.Team, r *rand.Rand) [codenames.NumTeams]*roster {
	var rs [codenames.NumTeams]*roster
	for _, t := range codenames.Teams {
		rs[t] = newRoster(t)
	}

	var random []codenames.PlayerID
	for _, p := range order {
		if t, ok := prefs[p]; ok && t.Valid() {
			rs[t].add(p)
			continue
		}
		random = append(random, p)
	}

	r.Shuffle(len(random), func(i, j int) {
		random[i], random[j] = random[j], random[i]
	})
	for _, p := range random {
		smallest(rs).add(p)
	}

	for {
		small, big := smallest(rs), biggest(rs)
		if small.size() > 0 || big.size() < 2 {
			break
		}
		last := big.members[len(big.members)-1]
		big.members = big.members[:len(big.members)-1]
		small.add(last.id)
	}

	return rs
}

func smallest(rs [codenames.NumTeams]*roster) *roster {
	best := rs[0]
	for _, r := range rs[1:] {
		if r.size() < best.size() {
			best = r
		}
	}
	return best
}

func biggest(rs [codenames.NumTeams]*roster) *roster {
	best := rs[0]
	for _, r := range rs[1:] {
		if r.size() > best.size() {
			best = r
		}
	}
	return best
}
