package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/dashboard"
	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
)

var _ dashboard.API = (*Client)(nil)

const defaultTimeout = 10 * time.Second

// Client talks to the kanso API server. A 401 answer maps to
// dashboard.ErrUnauthenticated and any other non-2xx answer to a
// *dashboard.StatusError; transport failures are returned unchanged.
type Client struct {
	baseURL string
	token   string
	http    *http.Client

	// anonymous requests report 401 as a StatusError.
	anonymous bool
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && !c.anonymous {
		return dashboard.ErrUnauthenticated
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &payload); err != nil || payload.Error == "" {
		payload.Error = strings.TrimSpace(string(data))
	}
	return &dashboard.StatusError{Code: resp.StatusCode, Message: payload.Error}
}

func monthPath(prefix string, year int, month time.Month) string {
	return fmt.Sprintf("/api/%s/%d/%d", prefix, year, int(month))
}

func (c *Client) Month(ctx context.Context, year int, month time.Month) (*domain.MonthData, error) {
	var data domain.MonthData
	if err := c.do(ctx, http.MethodGet, monthPath("month", year, month), nil, &data); err != nil {
		return nil, err
	}
	if data.Completions == nil {
		data.Completions = domain.CompletionIndex{}
	}
	return &data, nil
}

func (c *Client) Stats(ctx context.Context, year int, month time.Month) (*domain.StatsSnapshot, error) {
	var stats domain.StatsSnapshot
	if err := c.do(ctx, http.MethodGet, monthPath("stats", year, month), nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) Notifications(ctx context.Context) ([]*domain.Notification, error) {
	var list []*domain.Notification
	if err := c.do(ctx, http.MethodGet, "/api/notifications", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) Predictions(ctx context.Context) ([]*domain.Prediction, error) {
	var list []*domain.Prediction
	if err := c.do(ctx, http.MethodGet, "/api/predict/nextday", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

type nameBody struct {
	Name string `json:"name"`
}

func (c *Client) CreateHabit(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPost, "/api/habits", nameBody{Name: name}, nil)
}

func (c *Client) RenameHabit(ctx context.Context, id, name string) error {
	return c.do(ctx, http.MethodPut, "/api/habits/"+url.PathEscape(id), nameBody{Name: name}, nil)
}

func (c *Client) DeleteHabit(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/habits/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ToggleCompletion(ctx context.Context, habitID, dateKey string) error {
	body := struct {
		HabitID string `json:"habit_id"`
		Date    string `json:"date"`
	}{habitID, dateKey}
	return c.do(ctx, http.MethodPost, "/api/completions/toggle", body, nil)
}

func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, "/api/notifications/"+strconv.FormatInt(id, 10)+"/read", nil, nil)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token. Rejected credentials come back as
// a *dashboard.StatusError with code 401.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	anon := &Client{baseURL: c.baseURL, http: c.http, anonymous: true}
	if err := anon.do(ctx, http.MethodPost, "/api/auth/login", credentials{email, password}, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// Register creates an account and returns its id.
func (c *Client) Register(ctx context.Context, email, password string) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	anon := &Client{baseURL: c.baseURL, http: c.http, anonymous: true}
	if err := anon.do(ctx, http.MethodPost, "/api/auth/register", credentials{email, password}, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}
