package codenames

import "fmt"

var (
	teamNames = map[Team]string{
		NoTeam:   "",
		BlueTeam: "BLUE",
		RedTeam:  "RED",
	}
	agentNames = map[Agent]string{
		UnknownAgent: "UNKNOWN",
		BlueAgent:    "BLUE",
		RedAgent:     "RED",
		Bystander:    "BYSTANDER",
		Assassin:     "ASSASSIN",
	}
	roleNames = map[Role]string{
		NoRole:  "",
		Hinter:  "HINTER",
		Guesser: "GUESSER",
	}
)

func (t Team) MarshalText() ([]byte, error) {
	s, ok := teamNames[t]
	if !ok {
		return nil, fmt.Errorf("unknown team %d", int(t))
	}
	return []byte(s), nil
}

func (t *Team) UnmarshalText(dat []byte) error {
	for team, name := range teamNames {
		if name == string(dat) {
			*t = team
			return nil
		}
	}
	return fmt.Errorf("unknown team %q", dat)
}

func (a Agent) MarshalText() ([]byte, error) {
	s, ok := agentNames[a]
	if !ok {
		return nil, fmt.Errorf("unknown agent %d", int(a))
	}
	return []byte(s), nil
}

func (a *Agent) UnmarshalText(dat []byte) error {
	for agent, name := range agentNames {
		if name == string(dat) {
			*a = agent
			return nil
		}
	}
	return fmt.Errorf("unknown agent %q", dat)
}

func (r Role) MarshalText() ([]byte, error) {
	s, ok := roleNames[r]
	if !ok {
		return nil, fmt.Errorf("unknown role %d", int(r))
	}
	return []byte(s), nil
}

func (r *Role) UnmarshalText(dat []byte) error {
	for role, name := range roleNames {
		if name == string(dat) {
			*r = role
			return nil
		}
	}
	return fmt.Errorf("unknown role %q", dat)
}
