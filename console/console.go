// Package console draws games of Codenames on a terminal and reads clues and
// guesses from the person sitting at it.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/bcspragu/codenamesbot/codenames"
	"github.com/bcspragu/codenamesbot/game"
	"github.com/olekukonko/tablewriter"
)

// ErrPass is returned by Prompter.Guess when the player passes instead.
var ErrPass = errors.New("player passed")

// PassToken is what a guesser types to end their turn.
const PassToken = "pass"

// PrintBoard draws the board as a grid. If hinter is set, every card is
// colored by its agent, otherwise only revealed cards are. Revealed cards are
// underlined either way.
func PrintBoard(w io.Writer, b *codenames.Board, hinter bool) {
	if b == nil {
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetRowLine(true)

	for i := 0; i < len(b.Cards); i += codenames.Columns {
		end := i + codenames.Columns
		if end > len(b.Cards) {
			end = len(b.Cards)
		}
		var row []string
		var colors []tablewriter.Colors
		for _, card := range b.Cards[i:end] {
			var c tablewriter.Colors
			if hinter || card.Revealed {
				c = agentColors(card.Agent)
			}
			if card.Revealed {
				c = append(c, tablewriter.UnderlineSingle)
			}
			colors = append(colors, c)
			row = append(row, card.Codename)
		}
		table.Rich(row, colors)
	}

	table.Render()
}

func agentColors(a codenames.Agent) tablewriter.Colors {
	switch a {
	case codenames.BlueAgent:
		return tablewriter.Colors{tablewriter.FgBlueColor}
	case codenames.RedAgent:
		return tablewriter.Colors{tablewriter.FgHiRedColor}
	case codenames.Bystander:
		return tablewriter.Colors{tablewriter.FgHiBlackColor}
	case codenames.Assassin:
		return tablewriter.Colors{tablewriter.BgHiRedColor}
	}
	return nil
}

// PrintStatus writes a one-line summary of where the game is at.
func PrintStatus(w io.Writer, g *game.Game) {
	switch g.Phase() {
	case codenames.PhaseLobby:
		fmt.Fprintf(w, "Waiting for players, %d joined\n", len(g.Players()))
	case codenames.PhaseChooseHinter:
		fmt.Fprintln(w, "Waiting for teams to pick their hinters")
	case codenames.PhaseHint:
		fmt.Fprintf(w, "Turn %d: %s's hinter is thinking of a clue\n", g.TurnNumber(), g.CurrentTeam())
	case codenames.PhaseGuess:
		fmt.Fprintf(w, "Turn %d: %s is guessing for '%s', %s guesses left\n", g.TurnNumber(), g.CurrentTeam(), g.Clue(), g.GuessesRemaining())
	case codenames.PhaseGameOver:
		fmt.Fprintf(w, "Game over, %s wins!\n", g.Winner())
	}
}

// PrintTeams lists each team's players, with the hinter marked.
func PrintTeams(w io.Writer, teams []*game.TeamInfo) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Team", "Hinter", "Guessers"})
	for _, ti := range teams {
		table.Append([]string{ti.Team.String(), joinIDs(ti.Hinters), joinIDs(ti.Guessers)})
	}
	table.Render()
}

// PrintWords lists codenames grouped by agent, like the final board at the end
// of a game.
func PrintWords(w io.Writer, words map[codenames.Agent][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Agent", "Codenames"})
	for _, a := range codenames.Agents {
		ws := append([]string(nil), words[a]...)
		if len(ws) == 0 {
			continue
		}
		sort.Strings(ws)
		table.Rich([]string{a.String(), strings.Join(ws, ", ")}, []tablewriter.Colors{agentColors(a), nil})
	}
	table.Render()
}

func joinIDs(ids []codenames.PlayerID) string {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = string(id)
	}
	return strings.Join(strs, ", ")
}

// Prompter asks the user on the terminal for clues and guesses.
type Prompter struct {
	sc *bufio.Scanner
	// Out is where the prompts should be written out to.
	Out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{sc: bufio.NewScanner(in), Out: out}
}

// Clue asks the team's hinter for a clue, like "Muffins 3" or "Muffins
// unlimited". It assumes they can already see the board.
func (p *Prompter) Clue(t codenames.Team) (*codenames.Clue, error) {
	fmt.Fprintf(p.Out, "%s Hinter, enter a clue [ex. 'Muffins 3']: ", t)
	line, err := p.line()
	if err != nil {
		return nil, err
	}
	return codenames.ParseClue(line)
}

// Guess asks the team for a guess, returning ErrPass if they'd rather end
// their turn.
func (p *Prompter) Guess(t codenames.Team, c *codenames.Clue) (string, error) {
	fmt.Fprintf(p.Out, "%s, enter a guess for hint '%s' (or '%s'): ", t, c, PassToken)
	line, err := p.line()
	if err != nil {
		return "", err
	}
	if codenames.Normalize(line) == PassToken {
		return "", ErrPass
	}
	return line, nil
}

// Ask writes the prompt and returns the next line.
func (p *Prompter) Ask(prompt string) (string, error) {
	fmt.Fprint(p.Out, prompt)
	return p.line()
}

func (p *Prompter) line() (string, error) {
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return "", fmt.Errorf("scanner error: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.sc.Text()), nil
}
