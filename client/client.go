// Package client talks to a Codenames web server, for bots and terminal
// players.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/bcspragu/codenamesbot/codenames"
	"github.com/bcspragu/codenamesbot/web"
	"github.com/rs/zerolog"
)

type Client struct {
	scheme string
	addr   string
	http   *http.Client
	logger zerolog.Logger
}

func New(scheme, addr string, logger zerolog.Logger) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		scheme: scheme,
		addr:   addr,
		http:   &http.Client{Jar: jar},
		logger: logger,
	}, nil
}

// CreateUser logs in as the given name, which is also the player's ID.
func (c *Client) CreateUser(name string) (codenames.PlayerID, error) {
	body := struct {
		Name string `json:"name"`
	}{name}

	var resp struct {
		UserID codenames.PlayerID `json:"user_id"`
	}
	if err := c.post("/api/user", body, &resp); err != nil {
		return "", fmt.Errorf("failed to create user: %w", err)
	}
	return resp.UserID, nil
}

// Game returns the game in a channel, as the logged in player sees it.
func (c *Client) Game(channel string) (*web.GameView, error) {
	var resp web.GameView
	if err := c.get(channelPath(channel, ""), &resp); err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}
	return &resp, nil
}

// Join joins the game in a channel. team is "a", "b" or "random".
func (c *Client) Join(channel, team string) error {
	body := struct {
		Team string `json:"team"`
	}{team}

	if err := c.post(channelPath(channel, "join"), body, nil); err != nil {
		return fmt.Errorf("failed to join game: %w", err)
	}
	return nil
}

func (c *Client) Start(channel string) (*web.GameView, error) {
	var resp web.GameView
	if err := c.post(channelPath(channel, "start"), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}
	return &resp, nil
}

// PickHinter makes the logged in player their team's hinter, or somebody
// random from the team.
func (c *Client) PickHinter(channel string, random bool) (*web.HinterPicked, error) {
	body := struct {
		Random bool `json:"random"`
	}{random}

	var resp web.HinterPicked
	if err := c.post(channelPath(channel, "hinter"), body, &resp); err != nil {
		return nil, fmt.Errorf("failed to pick hinter: %w", err)
	}
	return &resp, nil
}

func (c *Client) GiveClue(channel string, clue *codenames.Clue) (*web.ClueGiven, error) {
	body := struct {
		Word   string `json:"word"`
		Number string `json:"number"`
	}{clue.Word, clue.Count.String()}

	var resp web.ClueGiven
	if err := c.post(channelPath(channel, "clue"), body, &resp); err != nil {
		return nil, fmt.Errorf("failed to give clue to game: %w", err)
	}
	return &resp, nil
}

func (c *Client) Guess(channel, word string) (*web.GuessGiven, error) {
	body := struct {
		Word string `json:"word"`
	}{word}

	var resp web.GuessGiven
	if err := c.post(channelPath(channel, "guess"), body, &resp); err != nil {
		return nil, fmt.Errorf("failed to guess: %w", err)
	}
	return &resp, nil
}

func (c *Client) Pass(channel string) error {
	if err := c.post(channelPath(channel, "pass"), nil, nil); err != nil {
		return fmt.Errorf("failed to pass: %w", err)
	}
	return nil
}

// Reset throws away the channel's game, returning the old board if there was
// one worth showing.
func (c *Client) Reset(channel string) (map[codenames.Agent][]string, error) {
	var resp struct {
		Board map[codenames.Agent][]string `json:"board"`
	}
	if err := c.post(channelPath(channel, "reset"), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to reset game: %w", err)
	}
	return resp.Board, nil
}

// HinterWords returns the board by agent, which only works for hinters or
// once the game is over.
func (c *Client) HinterWords(channel string, includeRevealed bool) (map[codenames.Agent][]string, error) {
	path := channelPath(channel, "words")
	if includeRevealed {
		path += "?all=1"
	}
	var resp map[codenames.Agent][]string
	if err := c.get(path, &resp); err != nil {
		return nil, fmt.Errorf("failed to load words: %w", err)
	}
	return resp, nil
}

func channelPath(channel, action string) string {
	p := "/api/channel/" + url.PathEscape(channel)
	if action != "" {
		p += "/" + action
	}
	return p
}

func (c *Client) get(path string, resp interface{}) error {
	req, err := http.NewRequest(http.MethodGet, c.scheme+"://"+c.addr+path, nil)
	if err != nil {
		return fmt.Errorf("failed to form request: %w", err)
	}
	return c.do(req, resp)
}

func (c *Client) post(path string, body, resp interface{}) error {
	var rdr io.Reader
	if body != nil {
		rdr = toBody(body)
	}
	req, err := http.NewRequest(http.MethodPost, c.scheme+"://"+c.addr+path, rdr)
	if err != nil {
		return fmt.Errorf("failed to form request: %w", err)
	}
	return c.do(req, resp)
}

func (c *Client) do(req *http.Request, resp interface{}) error {
	httpResp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return handleError(httpResp)
	}

	if resp != nil {
		if err := json.NewDecoder(httpResp.Body).Decode(resp); err != nil {
			return fmt.Errorf("failed to decode response body: %w", err)
		}
	}

	return nil
}

// HTTPError is a non-200 response from the server.
type HTTPError struct {
	StatusCode int
	// Body is the message from the server, which is meant to be shown to the
	// player.
	Body string
	err  error
}

func (h *HTTPError) Error() string {
	if h.err != nil {
		return fmt.Sprintf("[%d] failed to handle error: %v", h.StatusCode, h.err)
	}
	return fmt.Sprintf("[%d] error from server: %s", h.StatusCode, h.Body)
}

func handleError(resp *http.Response) error {
	dat, err := io.ReadAll(resp.Body)
	if err != nil {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			err:        fmt.Errorf("failed to read error response body: %w", err),
		}
	}

	return &HTTPError{
		StatusCode: resp.StatusCode,
		Body:       string(bytes.TrimSpace(dat)),
	}
}

func toBody(req interface{}) io.Reader {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(req); err != nil {
		return &errReader{err: err}
	}
	return &buf
}

type errReader struct {
	err error
}

func (e *errReader) Read(_ []byte) (int, error) {
	return 0, e.err
}
