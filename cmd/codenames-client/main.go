// Command codenames-client plays in a channel on a remote Codenames server
// from the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/bcspragu/codenamesbot/client"
	"github.com/bcspragu/codenamesbot/codenames"
	"github.com/bcspragu/codenamesbot/console"
	"github.com/bcspragu/codenamesbot/web"
	"github.com/joho/godotenv"
	"github.com/namsral/flag"
	"github.com/rs/zerolog"
)

func main() {
	_ = godotenv.Load()

	var (
		serverScheme = flag.String("server_scheme", "http", "The scheme of the server to connect to to play the game.")
		serverAddr   = flag.String("server_addr", "localhost:8080", "The address of the server to connect to to play the game.")
		channel      = flag.String("channel", "general", "The channel whose game to play in")
		team         = flag.String("team", "random", "The team to ask for, 'a', 'b' or 'random'")
		logLevel     = flag.String("log_level", "warn", "Minimum level to log at")
	)
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if lvl, err := zerolog.ParseLevel(*logLevel); err == nil {
		logger = logger.Level(lvl)
	}

	if flag.NArg() < 1 {
		logger.Fatal().Msg("need to specify a username")
	}
	name := flag.Arg(0)

	c, err := client.New(*serverScheme, *serverAddr, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create client")
	}
	if _, err := c.CreateUser(name); err != nil {
		logger.Fatal().Err(err).Msg("failed to log in")
	}
	if err := c.Join(*channel, *team); err != nil {
		logger.Fatal().Err(err).Msg("failed to join game")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := &player{
		c:       c,
		channel: *channel,
		out:     &syncWriter{w: os.Stdout},
	}
	go func() {
		if err := c.ListenForUpdates(ctx, *channel, p.hooks()); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("lost connection to server")
			stop()
		}
	}()

	fmt.Fprintf(p.out, "Joined %q as %s, type 'help' for commands\n", *channel, name)
	if err := p.repl(ctx, console.NewPrompter(os.Stdin, p.out)); err != nil && !errors.Is(err, io.EOF) {
		logger.Fatal().Err(err).Msg("client exited")
	}
}

// syncWriter lets the WebSocket hooks and the prompt share stdout.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

type player struct {
	c       *client.Client
	channel string
	out     io.Writer
}

func (p *player) hooks() client.WSHooks {
	return client.WSHooks{
		OnPlayerJoined: func(pj *web.PlayerJoined) {
			fmt.Fprintf(p.out, "\n%s joined\n", pj.Player)
		},
		OnStart: func(gs *web.GameStart) {
			fmt.Fprintln(p.out, "\nThe game has started!")
			console.PrintTeams(p.out, gs.Game.Teams)
		},
		OnHinterPicked: func(hp *web.HinterPicked) {
			fmt.Fprintf(p.out, "\n%s is %s's hinter\n", hp.Hinter, hp.Team)
		},
		OnHinterBoard: func(hb *web.HinterBoard) {
			fmt.Fprintln(p.out, "\nYou're a hinter, here's the board:")
			console.PrintWords(p.out, hb.Words)
		},
		OnClueGiven: func(cg *web.ClueGiven) {
			fmt.Fprintf(p.out, "\n%s's clue is '%s', %s guesses\n", cg.Team, cg.Clue, cg.GuessesRemaining)
		},
		OnGuessGiven: func(gg *web.GuessGiven) {
			fmt.Fprintf(p.out, "\n%s guessed %q, it was a %s\n", gg.Player, gg.Codename, gg.Agent)
			if gg.TurnEnds {
				fmt.Fprintf(p.out, "%s's turn is over\n", gg.Team)
			}
		},
		OnPass: func(ps *web.Pass) {
			fmt.Fprintf(p.out, "\n%s passed for %s\n", ps.Player, ps.Team)
		},
		OnEnd: func(ge *web.GameEnd) {
			fmt.Fprintf(p.out, "\nGame over, %s wins!\n", ge.Winner)
			console.PrintWords(p.out, ge.Board)
		},
		OnReset: func(*web.GameReset) {
			fmt.Fprintln(p.out, "\nThe game was reset")
		},
	}
}

const help = `Commands:
  start            start the game
  hinter [random]  become your team's hinter, or pick somebody random
  clue WORD N      give a clue, N can be 'unlimited'
  guess WORD       guess a codename
  pass             end your team's turn
  board            show the board
  reset            throw away the game and start over
  quit             leave
`

func (p *player) repl(ctx context.Context, pr *console.Prompter) error {
	for ctx.Err() == nil {
		line, err := pr.Ask("> ")
		if err != nil {
			return err
		}
		if line == "quit" {
			return nil
		}
		if err := p.run(line); err != nil {
			var herr *client.HTTPError
			if errors.As(err, &herr) {
				fmt.Fprintln(p.out, herr.Body)
				continue
			}
			fmt.Fprintln(p.out, err)
		}
	}
	return nil
}

func (p *player) run(line string) error {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "":
		return nil
	case "help":
		fmt.Fprint(p.out, help)
		return nil
	case "start":
		_, err := p.c.Start(p.channel)
		return err
	case "hinter":
		_, err := p.c.PickHinter(p.channel, rest == "random")
		return err
	case "clue":
		c, err := codenames.ParseClue(rest)
		if err != nil {
			return err
		}
		_, err = p.c.GiveClue(p.channel, c)
		return err
	case "guess":
		if rest == "" {
			return errors.New("guess what?")
		}
		_, err := p.c.Guess(p.channel, rest)
		return err
	case "pass":
		return p.c.Pass(p.channel)
	case "board":
		return p.board()
	case "reset":
		_, err := p.c.Reset(p.channel)
		return err
	}
	return fmt.Errorf("unknown command %q, type 'help' for commands", cmd)
}

func (p *player) board() error {
	view, err := p.c.Game(p.channel)
	if err != nil {
		return err
	}
	console.PrintBoard(p.out, toBoard(view), view.You != nil && view.You.Role == codenames.Hinter)
	return nil
}

func toBoard(view *web.GameView) *codenames.Board {
	b := &codenames.Board{}
	for _, row := range view.Board {
		b.Cards = append(b.Cards, row...)
	}
	return b
}
