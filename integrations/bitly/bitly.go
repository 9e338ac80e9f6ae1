// Package bitly is a typed client for the Bitly v4 link API: shorten,
// expand, and list a group's links with cursor pagination.
package bitly

import (
	"context"
	"net/url"
	"strconv"

	"github.com/wudi/docsmith/integrations"
)

const (
	service = "bitly"

	// DefaultBaseURL is the production API root.
	DefaultBaseURL = "https://api-ssl.bitly.com/v4"

	defaultPageSize = 50
)

// Link is one shortened link.
type Link struct {
	ID        string   `json:"id"`
	Link      string   `json:"link"`
	LongURL   string   `json:"long_url"`
	Title     string   `json:"title,omitempty"`
	CreatedAt string   `json:"created_at,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// LinkPage is one page of a group's links plus the cursor for the
// next page; an empty NextCursor means the listing is exhausted.
type LinkPage struct {
	Links      []Link `json:"links"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// Client calls the Bitly API with one access token.
type Client struct {
	api *integrations.Client
}

// New builds a client. An empty baseURL takes the production API.
func New(token, baseURL string, opts ...integrations.Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	opts = append([]integrations.Option{
		integrations.WithAuth(integrations.BearerAuth(token)),
	}, opts...)
	return &Client{api: integrations.NewClient(service, baseURL, opts...)}
}

type shortenRequest struct {
	LongURL   string `json:"long_url"`
	GroupGUID string `json:"group_guid,omitempty"`
	Domain    string `json:"domain,omitempty"`
}

// Shorten creates a bitlink for longURL. groupGUID may be empty, in
// which case the token's default group applies.
func (c *Client) Shorten(ctx context.Context, longURL, groupGUID string) (*Link, error) {
	if longURL == "" {
		return nil, integrations.Errorf(service, integrations.KindValidation, "long_url is required")
	}
	var link Link
	err := c.api.Post(ctx, "/shorten", shortenRequest{LongURL: longURL, GroupGUID: groupGUID}, &link)
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// Expand resolves a bitlink id (like "bit.ly/abc123") back to its
// long URL.
func (c *Client) Expand(ctx context.Context, bitlinkID string) (*Link, error) {
	if bitlinkID == "" {
		return nil, integrations.Errorf(service, integrations.KindValidation, "bitlink id is required")
	}
	var link Link
	err := c.api.Post(ctx, "/expand", map[string]string{"bitlink_id": bitlinkID}, &link)
	if err != nil {
		return nil, err
	}
	return &link, nil
}

type listResponse struct {
	Links      []Link `json:"links"`
	Pagination struct {
		Page  int `json:"page"`
		Total int `json:"total"`
		Size  int `json:"size"`
	} `json:"pagination"`
}

// ListByGroup returns one page of the group's bitlinks. cursor is ""
// for the first page or the NextCursor of a previous page.
func (c *Client) ListByGroup(ctx context.Context, groupGUID, cursor string) (*LinkPage, error) {
	if groupGUID == "" {
		return nil, integrations.Errorf(service, integrations.KindValidation, "group guid is required")
	}
	cur, err := integrations.DecodeCursor(cursor)
	if err != nil {
		return nil, integrations.Errorf(service, integrations.KindValidation, "bad cursor: %v", err)
	}
	page := cur.Page
	if page < 1 {
		page = 1
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(defaultPageSize))

	var resp listResponse
	if err := c.api.Get(ctx, "/groups/"+groupGUID+"/bitlinks", q, &resp); err != nil {
		return nil, err
	}

	out := &LinkPage{Links: resp.Links}
	seen := (page-1)*defaultPageSize + len(resp.Links)
	if len(resp.Links) > 0 && seen < resp.Pagination.Total {
		next := integrations.Cursor{Service: service, Page: page + 1}
		out.NextCursor = next.Encode()
	}
	return out, nil
}
