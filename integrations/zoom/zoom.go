// Package zoom is a typed client for the Zoom meetings API using
// server-to-server OAuth. Access tokens are short-lived and refreshed
// through the shared expiring-token source.
package zoom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wudi/docsmith/integrations"
)

const (
	service = "zoom"

	// DefaultBaseURL is the production API root.
	DefaultBaseURL = "https://api.zoom.us/v2"

	// DefaultAuthURL is the production token endpoint.
	DefaultAuthURL = "https://zoom.us/oauth/token"
)

// Meeting type constants from the Zoom API.
const (
	TypeInstant   = 1
	TypeScheduled = 2
)

// Config carries the server-to-server OAuth app credentials. The URL
// and client fields exist for tests and default to production.
type Config struct {
	AccountID    string
	ClientID     string
	ClientSecret string

	AuthURL    string
	BaseURL    string
	HTTPClient *http.Client
}

// Meeting is one scheduled meeting.
type Meeting struct {
	ID        int64  `json:"id"`
	Topic     string `json:"topic"`
	Type      int    `json:"type"`
	StartTime string `json:"start_time,omitempty"`
	Duration  int    `json:"duration,omitempty"`
	Timezone  string `json:"timezone,omitempty"`
	Agenda    string `json:"agenda,omitempty"`
	JoinURL   string `json:"join_url,omitempty"`
	StartURL  string `json:"start_url,omitempty"`
	Password  string `json:"password,omitempty"`
}

// CreateMeetingRequest describes the meeting to schedule.
type CreateMeetingRequest struct {
	Topic    string    `json:"topic"`
	Start    time.Time `json:"-"`
	Duration int       `json:"duration,omitempty"`
	Timezone string    `json:"timezone,omitempty"`
	Agenda   string    `json:"agenda,omitempty"`
}

// Client calls the Zoom API for one account.
type Client struct {
	api    *integrations.Client
	tokens *integrations.ExpiringTokenSource
}

// New builds a client and its token lifecycle.
func New(cfg Config) *Client {
	if cfg.AuthURL == "" {
		cfg.AuthURL = DefaultAuthURL
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	httpc := cfg.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}

	tokens := integrations.NewExpiringTokenSource(fetchToken(cfg, httpc), 0)
	api := integrations.NewClient(service, cfg.BaseURL,
		integrations.WithHTTPClient(httpc),
		integrations.WithAuth(integrations.SourceAuth(tokens)))
	return &Client{api: api, tokens: tokens}
}

// fetchToken performs the account_credentials grant.
func fetchToken(cfg Config, httpc *http.Client) integrations.FetchFunc {
	return func(ctx context.Context) (integrations.Token, error) {
		form := url.Values{}
		form.Set("grant_type", "account_credentials")
		form.Set("account_id", cfg.AccountID)

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.AuthURL, strings.NewReader(form.Encode()))
		if err != nil {
			return integrations.Token{}, integrations.Errorf(service, integrations.KindValidation, "build token request: %v", err)
		}
		req.SetBasicAuth(cfg.ClientID, cfg.ClientSecret)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := httpc.Do(req)
		if err != nil {
			return integrations.Token{}, integrations.WrapTransport(service, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return integrations.Token{}, integrations.WrapTransport(service, err)
		}
		if resp.StatusCode != http.StatusOK {
			return integrations.Token{}, &integrations.APIError{
				Service: service,
				Kind:    integrations.KindAuth,
				Status:  resp.StatusCode,
				Message: fmt.Sprintf("token exchange failed: %s", strings.TrimSpace(string(body))),
			}
		}

		var tok struct {
			AccessToken string `json:"access_token"`
			ExpiresIn   int    `json:"expires_in"`
		}
		if err := json.Unmarshal(body, &tok); err != nil {
			return integrations.Token{}, integrations.Errorf(service, integrations.KindServerError, "decode token response: %v", err)
		}
		if tok.AccessToken == "" {
			return integrations.Token{}, integrations.Errorf(service, integrations.KindAuth, "token response carried no access_token")
		}
		out := integrations.Token{AccessToken: tok.AccessToken}
		if tok.ExpiresIn > 0 {
			out.Expiry = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
		}
		return out, nil
	}
}

type createMeetingBody struct {
	Topic     string `json:"topic"`
	Type      int    `json:"type"`
	StartTime string `json:"start_time,omitempty"`
	Duration  int    `json:"duration,omitempty"`
	Timezone  string `json:"timezone,omitempty"`
	Agenda    string `json:"agenda,omitempty"`
}

// CreateMeeting schedules a meeting for the authenticated user. A
// zero Start makes an instant meeting.
func (c *Client) CreateMeeting(ctx context.Context, req CreateMeetingRequest) (*Meeting, error) {
	if req.Topic == "" {
		return nil, integrations.Errorf(service, integrations.KindValidation, "topic is required")
	}
	body := createMeetingBody{
		Topic:    req.Topic,
		Type:     TypeInstant,
		Duration: req.Duration,
		Timezone: req.Timezone,
		Agenda:   req.Agenda,
	}
	if !req.Start.IsZero() {
		body.Type = TypeScheduled
		body.StartTime = req.Start.UTC().Format("2006-01-02T15:04:05Z")
	}

	var meeting Meeting
	if err := c.api.Post(ctx, "/users/me/meetings", body, &meeting); err != nil {
		return nil, err
	}
	return &meeting, nil
}

// GetMeeting fetches one meeting by id.
func (c *Client) GetMeeting(ctx context.Context, id int64) (*Meeting, error) {
	if id <= 0 {
		return nil, integrations.Errorf(service, integrations.KindValidation, "meeting id is required")
	}
	var meeting Meeting
	if err := c.api.Get(ctx, "/meetings/"+strconv.FormatInt(id, 10), nil, &meeting); err != nil {
		return nil, err
	}
	return &meeting, nil
}
