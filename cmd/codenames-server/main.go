// Command codenames-server runs the Codenames web server, which hosts one game
// per channel.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bcspragu/codenamesbot/codenames"
	"github.com/bcspragu/codenamesbot/cryptorand"
	"github.com/bcspragu/codenamesbot/hub"
	"github.com/bcspragu/codenamesbot/memdb"
	"github.com/bcspragu/codenamesbot/server"
	"github.com/bcspragu/codenamesbot/sqldb"
	"github.com/bcspragu/codenamesbot/web"
	"github.com/bcspragu/codenamesbot/words"
	"github.com/gorilla/securecookie"
	"github.com/joho/godotenv"
	"github.com/namsral/flag"
	"github.com/rs/zerolog"
)

func main() {
	// A missing .env is fine, flags and the environment still work.
	_ = godotenv.Load()

	var (
		addr         = flag.String("addr", ":8080", "HTTP service address")
		dbPath       = flag.String("db_path", "codenames.db", "Path to the SQLite DB file, or empty to keep games in memory")
		wordsFile    = flag.String("words_file", "", "Newline-separated list of codenames, the built-in list is used if empty")
		logLevel     = flag.String("log_level", "info", "Minimum level to log at")
		hashKeyFile  = flag.String("hash_key_file", "hashKey", "File holding the cookie hash key, generated if missing")
		blockKeyFile = flag.String("block_key_file", "blockKey", "File holding the cookie block key, generated if missing")
	)
	flag.Parse()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if err := run(logger, *addr, *dbPath, *wordsFile, *logLevel, *hashKeyFile, *blockKeyFile); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}

type closeDB interface {
	codenames.DB
	Close() error
}

func run(logger zerolog.Logger, addr, dbPath, wordsFile, logLevel, hashKeyFile, blockKeyFile string) error {
	lvl, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("bad log level %q: %w", logLevel, err)
	}
	logger = logger.Level(lvl)

	pool := words.Default()
	if wordsFile != "" {
		if pool, err = words.FromFile(wordsFile); err != nil {
			return err
		}
	}

	r := cryptorand.New()

	var db closeDB
	if dbPath == "" {
		logger.Warn().Msg("no DB path given, games won't survive a restart")
		db = nopCloser{memdb.New()}
	} else {
		// The DB gets its own rand, it's used from the DB's goroutine.
		sdb, err := sqldb.New(dbPath, cryptorand.New(), pool)
		if err != nil {
			return fmt.Errorf("failed to initialize datastore: %w", err)
		}
		db = sdb
	}
	defer db.Close()

	games, err := server.New(&server.Config{
		DB:     db,
		Words:  pool,
		Rand:   r,
		Logger: logger.With().Str("component", "server").Logger(),
	})
	if err != nil {
		return fmt.Errorf("failed to create game server: %w", err)
	}

	sc, err := loadKeys(hashKeyFile, blockKeyFile)
	if err != nil {
		return fmt.Errorf("failed to load cookie keys: %w", err)
	}

	h := hub.New(logger.With().Str("component", "hub").Logger())
	srv := &http.Server{
		Addr:    addr,
		Handler: web.New(games, h, sc, logger.With().Str("component", "web").Logger()),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errC := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Int("words", pool.Len()).Msg("server is running")
		errC <- srv.ListenAndServe()
	}()

	select {
	case err := <-errC:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("ListenAndServe: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type nopCloser struct {
	*memdb.DB
}

func (nopCloser) Close() error { return nil }

func loadKeys(hashKeyFile, blockKeyFile string) (*securecookie.SecureCookie, error) {
	hashKey, err := loadOrGenKey(hashKeyFile)
	if err != nil {
		return nil, err
	}

	blockKey, err := loadOrGenKey(blockKeyFile)
	if err != nil {
		return nil, err
	}

	return securecookie.New(hashKey, blockKey), nil
}

func loadOrGenKey(name string) ([]byte, error) {
	f, err := os.ReadFile(name)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read key %q: %w", name, err)
	}

	dat := securecookie.GenerateRandomKey(32)
	if dat == nil {
		return nil, errors.New("failed to generate key")
	}

	if err := os.WriteFile(name, dat, 0600); err != nil {
		return nil, fmt.Errorf("failed to write key %q: %w", name, err)
	}
	return dat, nil
}
