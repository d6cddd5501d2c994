// Package client talks to the leaderboard backend. *Client satisfies
// session.Recorder.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-leaderboard/internal/mines"
)

var (
	ErrUnauthorized = errors.New("not logged in")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
)

// APIError is a non-2xx reply.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusConflict:
		return ErrConflict
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	enc     *schema.Encoder
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

func WithToken(token string) Option {
	return func(cl *Client) { cl.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		enc:     schema.NewEncoder(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Token() string { return c.token }

func (c *Client) do(ctx context.Context, method, path string, form any, out any) error {
	var body io.Reader
	if form != nil {
		values := url.Values{}
		if err := c.enc.Encode(form, values); err != nil {
			return fmt.Errorf("unable to encode request: %w", err)
		}
		body = strings.NewReader(values.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &APIError{StatusCode: res.StatusCode, Message: errorMessage(res)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("unable to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// errorMessage extracts the reason from an error reply, falling back to the
// raw body and then to the status text.
func errorMessage(res *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return http.StatusText(res.StatusCode)
}

type credentials struct {
	Username string `schema:"username"`
	Password string `schema:"password"`
}

type User struct {
	Id       int64  `json:"id"`
	Username string `json:"username"`
}

func (c *Client) Register(ctx context.Context, username, password string) (int64, error) {
	var res struct {
		UserId int64 `json:"user_id"`
	}
	err := c.do(ctx, http.MethodPost, "/api/users/register", credentials{username, password}, &res)
	return res.UserId, err
}

// Login stores the returned token for subsequent calls.
func (c *Client) Login(ctx context.Context, username, password string) (*User, error) {
	var res struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/users/login", credentials{username, password}, &res); err != nil {
		return nil, err
	}
	c.token = res.Token
	return &res.User, nil
}

type Game struct {
	Id         string           `json:"id"`
	Difficulty mines.Difficulty `json:"difficulty"`
	Status     mines.Status     `json:"status"`
	TimeTaken  *int             `json:"time_taken"`
	CreatedAt  time.Time        `json:"created_at"`
}

type newGame struct {
	Difficulty string `schema:"difficulty"`
}

type outcome struct {
	Status    string `schema:"status"`
	TimeTaken int    `schema:"time_taken"`
}

func (c *Client) StartGame(ctx context.Context, d mines.Difficulty) (string, error) {
	if c.token == "" {
		return "", ErrUnauthorized
	}
	var res struct {
		Game Game `json:"game"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/games", newGame{string(d)}, &res); err != nil {
		return "", err
	}
	return res.Game.Id, nil
}

func (c *Client) ReportOutcome(ctx context.Context, gameId string, status mines.Status, elapsed int) error {
	if c.token == "" {
		return ErrUnauthorized
	}
	return c.do(ctx, http.MethodPut, "/api/games/"+url.PathEscape(gameId), outcome{string(status), elapsed}, nil)
}

type LeaderboardEntry struct {
	Id         int64            `json:"id"`
	Difficulty mines.Difficulty `json:"difficulty"`
	BestTime   int              `json:"best_time"`
	User       struct {
		Username string `json:"username"`
	} `json:"user"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Client) Leaderboard(ctx context.Context, d mines.Difficulty) ([]LeaderboardEntry, error) {
	var res struct {
		Leaderboard []LeaderboardEntry `json:"leaderboard"`
	}
	err := c.do(ctx, http.MethodGet, "/api/leaderboard/"+url.PathEscape(string(d)), nil, &res)
	return res.Leaderboard, err
}
