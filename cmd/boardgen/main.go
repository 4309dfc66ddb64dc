// Command boardgen prints a random board, either as a colored grid for a
// hinter or as a comma-separated list of codename:agent pairs.
package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"

	"github.com/bcspragu/codenamesbot/boardgen"
	"github.com/bcspragu/codenamesbot/codenames"
	"github.com/bcspragu/codenamesbot/console"
	"github.com/bcspragu/codenamesbot/cryptorand"
	"github.com/bcspragu/codenamesbot/words"
	"github.com/namsral/flag"
	"github.com/rs/zerolog"
)

func main() {
	var (
		starter   = flag.String("starter", "random", "Which team goes first, 'a', 'b' or 'random'")
		wordsFile = flag.String("words_file", "", "Newline-separated list of codenames, the built-in list is used if empty")
		seed      = flag.Int64("seed", 0, "Seed for the board, zero picks one at random")
		format    = flag.String("format", "table", "Output format, 'table' or 'list'")
	)
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})

	pool := words.Default()
	if *wordsFile != "" {
		var err error
		if pool, err = words.FromFile(*wordsFile); err != nil {
			logger.Fatal().Err(err).Msg("failed to load words")
		}
	}

	b, err := board(*starter, pool, *seed)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to generate board")
	}
	if err := write(os.Stdout, b, *format); err != nil {
		logger.Fatal().Err(err).Msg("failed to write board")
	}
}

func board(starter string, pool *words.Pool, seed int64) (*codenames.Board, error) {
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
	return boardgen.New(boardgen.Standard(st), pool, r)
}

func write(w io.Writer, b *codenames.Board, format string) error {
	switch format {
	case "table":
		console.PrintBoard(w, b, true)
		return nil
	case "list":
		pairs := make([]string, len(b.Cards))
		for i, card := range b.Cards {
			agent, err := card.Agent.MarshalText()
			if err != nil {
				return err
			}
			pairs[i] = card.Codename + ":" + strings.ToLower(string(agent))
		}
		_, err := fmt.Fprintln(w, strings.Join(pairs, ","))
		return err
	}
	return fmt.Errorf("unknown format %q", format)
}
