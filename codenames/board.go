package codenames

const (
	// Rows is the number of rows of cards on a standard board.
	Rows = 5
	// Columns is the number of columns of cards on a standard board.
	Columns = 5
	// Size is the total number of cards on a standard board.
	Size = Rows * Columns
)

// Board contains all of the information about a game of Codenames.
type Board struct {
	// Cards is a list of the words on the board. For a standard board, the
	// zeroth card corresponds to the top-left, the fourth to the top-right, and
	// the twenty-fourth to the bottom-right.
	Cards []Card `json:"cards"`
}

// Card is a single codename, and its corresponding affiliation.
type Card struct {
	Codename string `json:"codename"`
	Agent    Agent  `json:"agent"`
	Revealed bool   `json:"revealed"`
	// RevealedBy is the team that was guessing when the card was revealed, and
	// NoTeam before then.
	RevealedBy Team `json:"revealed_by"`
}

// Reveal flips over the card for the given word, returning what kind of agent
// it was. The board is unchanged if the word isn't on the board or was already
// revealed.
func (b *Board) Reveal(word string, by Team) (Agent, error) {
	i, err := b.find(word)
	if err != nil {
		return UnknownAgent, err
	}

	card := &b.Cards[i]
	if card.Revealed {
		return UnknownAgent, NewError(AlreadyRevealed, "%q has already been guessed", card.Codename)
	}
	card.Revealed = true
	card.RevealedBy = by
	return card.Agent, nil
}

// Check returns the same errors Reveal would, without revealing anything.
func (b *Board) Check(word string) error {
	i, err := b.find(word)
	if err != nil {
		return err
	}
	if b.Cards[i].Revealed {
		return NewError(AlreadyRevealed, "%q has already been guessed", b.Cards[i].Codename)
	}
	return nil
}

func (b *Board) find(word string) (int, error) {
	w := Normalize(word)
	for i, card := range b.Cards {
		if Normalize(card.Codename) == w {
			return i, nil
		}
	}
	return -1, NewError(UnknownWord, "%q is not on the board", word)
}

// Remaining returns how many of the team's agents haven't been found yet.
func (b *Board) Remaining(t Team) int {
	return b.count(AgentFor(t), false)
}

// Total returns how many cards of the given agent type are on the board.
func (b *Board) Total(a Agent) int {
	n := 0
	for _, card := range b.Cards {
		if card.Agent == a {
			n++
		}
	}
	return n
}

func (b *Board) count(a Agent, revealed bool) int {
	n := 0
	for _, card := range b.Cards {
		if card.Agent == a && card.Revealed == revealed {
			n++
		}
	}
	return n
}

// Unrevealed returns the codenames that haven't been guessed yet, in board
// order.
func (b *Board) Unrevealed() []string {
	var out []string
	for _, card := range b.Cards {
		if !card.Revealed {
			out = append(out, card.Codename)
		}
	}
	return out
}

// Revealed returns the codenames that have been guessed, grouped by agent.
func (b *Board) Revealed() map[Agent][]string {
	return b.byAgent(func(c Card) bool { return c.Revealed })
}

// ByAgent groups every codename by its agent. If excludeRevealed is set, cards
// that have been guessed are left out.
func (b *Board) ByAgent(excludeRevealed bool) map[Agent][]string {
	return b.byAgent(func(c Card) bool { return !excludeRevealed || !c.Revealed })
}

func (b *Board) byAgent(include func(Card) bool) map[Agent][]string {
	out := make(map[Agent][]string)
	for _, card := range b.Cards {
		if include(card) {
			out[card.Agent] = append(out[card.Agent], card.Codename)
		}
	}
	return out
}

// CloneBoard returns a deep copy of the board.
func CloneBoard(b *Board) *Board {
	if b == nil {
		return nil
	}
	cards := make([]Card, len(b.Cards))
	copy(cards, b.Cards)
	return &Board{Cards: cards}
}

// Public returns a copy of the board where only the revealed cards have
// their agent filled in, which is what guessers get to see.
func Public(b *Board) *Board {
	if b == nil {
		return nil
	}
	out := CloneBoard(b)
	for i, card := range out.Cards {
		if !card.Revealed {
			out.Cards[i].Agent = UnknownAgent
			out.Cards[i].RevealedBy = NoTeam
		}
	}
	return out
}
