package game

import "github.com/bcspragu/codenamesbot/codenames"

// turn is the phase state machine. It doesn't know anything about the board or
// the players, Game decides when to move it along.
type turn struct {
	phase codenames.Phase
	team  codenames.Team
	// clue is only set during PhaseGuess.
	clue        *codenames.Clue
	guessesLeft codenames.Count
	guessed     bool
	number      int
}

func (t *turn) chooseHinters(first codenames.Team) {
	t.phase = codenames.PhaseChooseHinter
	t.team = first
}

func (t *turn) beginHinting(starter codenames.Team) {
	t.phase = codenames.PhaseHint
	t.team = starter
	t.number = 1
}

// giveClue allows one more guess than the clue's number, the usual bonus
// guess for a clue the team missed earlier.
func (t *turn) giveClue(c *codenames.Clue) {
	t.clue = c
	t.guessesLeft = c.Count.Inc()
	t.guessed = false
	t.phase = codenames.PhaseGuess
}

func (t *turn) recordGuess() {
	t.guessesLeft = t.guessesLeft.Dec()
	t.guessed = true
}

// end hands the turn to the other team.
func (t *turn) end() {
	t.phase = codenames.PhaseHint
	t.team = t.team.Other()
	t.number++
	t.clue = nil
	t.guessesLeft = codenames.Finite(0)
	t.guessed = false
}

func (t *turn) gameOver() {
	t.phase = codenames.PhaseGameOver
	t.clue = nil
	t.guessesLeft = codenames.Finite(0)
}
