// Command codenames-local plays a game of Codenames on a single terminal, with
// everyone taking turns at the keyboard.
package main

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"

	"github.com/bcspragu/codenamesbot/boardgen"
	"github.com/bcspragu/codenamesbot/codenames"
	"github.com/bcspragu/codenamesbot/console"
	"github.com/bcspragu/codenamesbot/cryptorand"
	"github.com/bcspragu/codenamesbot/game"
	"github.com/bcspragu/codenamesbot/words"
	"github.com/joho/godotenv"
	"github.com/namsral/flag"
	"github.com/rs/zerolog"
)

func main() {
	_ = godotenv.Load()

	var (
		players   = flag.String("players", "blue,red", "Comma-separated list of players, optionally suffixed with ':a' or ':b' to pick a team")
		wordsFile = flag.String("words_file", "", "Newline-separated list of codenames, the built-in list is used if empty")
		starter   = flag.String("starter", "random", "Which team goes first, 'a', 'b' or 'random'")
		seed      = flag.Int64("seed", 0, "Seed for the game, zero picks one at random")
		logLevel  = flag.String("log_level", "warn", "Minimum level to log at")
	)
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if lvl, err := zerolog.ParseLevel(*logLevel); err == nil {
		logger = logger.Level(lvl)
	}

	g, err := setup(*players, *wordsFile, *starter, *seed)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to set up game")
	}
	logger.Debug().Str("game_id", string(g.ID())).Strs("players", strings.Split(*players, ",")).Msg("starting game")

	if err := play(g, console.NewPrompter(os.Stdin, os.Stdout), logger); err != nil {
		if errors.Is(err, io.EOF) {
			return
		}
		logger.Fatal().Err(err).Msg("game ended unexpectedly")
	}
}

func setup(players, wordsFile, starter string, seed int64) (*game.Game, error) {
	pool := words.Default()
	if wordsFile != "" {
		var err error
		if pool, err = words.FromFile(wordsFile); err != nil {
			return nil, err
		}
	}

	if seed == 0 {
		seed = cryptorand.New().Int63()
	}
	r := rand.New(rand.NewSource(seed))

	st, err := codenames.ParseTeam(starter)
	if err != nil {
		return nil, err
	}
	if !st.Valid() {
		st = codenames.Teams[r.Intn(len(codenames.Teams))]
	}

	g, err := game.New(&game.Config{
		ID:     codenames.GameID(fmt.Sprintf("local-%d", seed)),
		Layout: boardgen.Standard(st),
		Words:  pool,
		Rand:   r,
	})
	if err != nil {
		return nil, err
	}

	for _, p := range strings.Split(players, ",") {
		name, team, _ := strings.Cut(strings.TrimSpace(p), ":")
		if name == "" {
			continue
		}
		t, err := codenames.ParseTeam(team)
		if err != nil {
			return nil, fmt.Errorf("bad team for %q: %w", name, err)
		}
		if err := g.Join(codenames.PlayerID(name)); err != nil {
			return nil, err
		}
		if err := g.PreferTeam(codenames.PlayerID(name), t); err != nil {
			return nil, err
		}
	}

	if _, err := g.Start(); err != nil {
		return nil, err
	}
	return g, nil
}

// play runs the game to completion. Rejected clues and guesses are shown to
// the player, who gets to try again.
func play(g *game.Game, p *console.Prompter, logger zerolog.Logger) error {
	out := p.Out
	console.PrintTeams(out, g.Teams())

	for g.Phase() != codenames.PhaseGameOver {
		var err error
		switch g.Phase() {
		case codenames.PhaseChooseHinter:
			err = pickHinters(g, p)
		case codenames.PhaseHint:
			err = giveClue(g, p)
		case codenames.PhaseGuess:
			err = guess(g, p)
		default:
			return fmt.Errorf("game is in unexpected phase %q", g.Phase())
		}

		var cerr *codenames.Error
		switch {
		case errors.As(err, &cerr):
			logger.Debug().Str("kind", string(cerr.Kind)).Msg("rejected")
			fmt.Fprintf(out, "Try again: %s\n", cerr.Message)
		case err != nil:
			return err
		}
	}

	console.PrintStatus(out, g)
	console.PrintWords(out, g.HinterWords(false))
	return nil
}

func pickHinters(g *game.Game, p *console.Prompter) error {
	for _, ti := range g.Teams() {
		if ti.RolesPicked {
			continue
		}
		line, err := p.Ask(fmt.Sprintf("Who is %s's hinter? [%s, or blank for random]: ", ti.Team, joinIDs(ti.Players)))
		if err != nil {
			return err
		}
		pick, random := codenames.PlayerID(line), line == ""
		if random {
			pick = ti.Players[0]
		}
		if g.TeamOf(pick) != ti.Team {
			return codenames.NewError(codenames.NotOnTeam, "%s isn't on %s", pick, ti.Team)
		}
		po, err := g.PickHinter(pick, random)
		if err != nil {
			return err
		}
		fmt.Fprintf(p.Out, "%s is %s's hinter\n", po.Hinter, po.Team)
	}
	return nil
}

func giveClue(g *game.Game, p *console.Prompter) error {
	team := g.CurrentTeam()
	hinter := g.WithRole(team, codenames.Hinter)[0]

	console.PrintStatus(p.Out, g)
	fmt.Fprintf(p.Out, "Only %s should be looking!\n", hinter)
	console.PrintBoard(p.Out, g.Board(), true)

	c, err := p.Clue(team)
	if err != nil {
		return err
	}
	_, err = g.GiveClue(hinter, c.Word, c.Count.String())
	return err
}

func guess(g *game.Game, p *console.Prompter) error {
	team := g.CurrentTeam()
	// A one person team's hinter does their own guessing.
	guesser := g.WithRole(team, codenames.Hinter)[0]
	if gs := g.WithRole(team, codenames.Guesser); len(gs) > 0 {
		guesser = gs[0]
	}

	console.PrintStatus(p.Out, g)
	console.PrintBoard(p.Out, codenames.Public(g.Board()), false)

	word, err := p.Guess(team, g.Clue())
	if errors.Is(err, console.ErrPass) {
		return g.Pass(guesser)
	}
	if err != nil {
		return err
	}

	res, err := g.Guess(guesser, word)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.Out, "%q was a %s\n", res.Codename, res.Agent)
	return nil
}

func joinIDs(ids []codenames.PlayerID) string {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = string(id)
	}
	return strings.Join(strs, ", ")
}
