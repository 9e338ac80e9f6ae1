// Package serpapi is a typed client for SerpAPI web and image search.
// Both searches are one GET against /search with the engine parameter
// selecting the result shape; paging is offset-based.
package serpapi

import (
	"context"
	"net/url"
	"strconv"

	"github.com/wudi/docsmith/integrations"
)

const (
	service = "serpapi"

	// DefaultBaseURL is the production API root.
	DefaultBaseURL = "https://serpapi.com"

	defaultPageSize = 10
)

// WebResult is one organic search hit.
type WebResult struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet,omitempty"`
	Source   string `json:"source,omitempty"`
}

// ImageResult is one image search hit.
type ImageResult struct {
	Position  int    `json:"position"`
	Title     string `json:"title,omitempty"`
	Original  string `json:"original"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Source    string `json:"source,omitempty"`
	Width     int    `json:"original_width,omitempty"`
	Height    int    `json:"original_height,omitempty"`
}

// WebPage is one page of organic results.
type WebPage struct {
	Results    []WebResult `json:"results"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

// ImagePage is one page of image results.
type ImagePage struct {
	Results    []ImageResult `json:"results"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// Client calls SerpAPI with one API key.
type Client struct {
	api *integrations.Client
}

// New builds a client. An empty baseURL takes the production API.
func New(apiKey, baseURL string, opts ...integrations.Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	opts = append([]integrations.Option{
		integrations.WithAuth(integrations.QueryAuth("api_key", apiKey)),
	}, opts...)
	return &Client{api: integrations.NewClient(service, baseURL, opts...)}
}

type webResponse struct {
	OrganicResults []WebResult `json:"organic_results"`
}

type imageResponse struct {
	ImagesResults []ImageResult `json:"images_results"`
}

// SearchWeb runs a Google web search. cursor is "" for the first page
// or the NextCursor of a previous page.
func (c *Client) SearchWeb(ctx context.Context, query, cursor string) (*WebPage, error) {
	offset, err := cursorOffset(query, cursor)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("engine", "google")
	q.Set("q", query)
	q.Set("num", strconv.Itoa(defaultPageSize))
	if offset > 0 {
		q.Set("start", strconv.Itoa(offset))
	}

	var resp webResponse
	if err := c.api.Get(ctx, "/search", q, &resp); err != nil {
		return nil, err
	}
	return &WebPage{
		Results:    resp.OrganicResults,
		NextCursor: nextCursor(offset, len(resp.OrganicResults)),
	}, nil
}

// SearchImages runs a Google image search.
func (c *Client) SearchImages(ctx context.Context, query, cursor string) (*ImagePage, error) {
	offset, err := cursorOffset(query, cursor)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("engine", "google_images")
	q.Set("q", query)
	if offset > 0 {
		q.Set("ijn", strconv.Itoa(offset/defaultPageSize))
	}

	var resp imageResponse
	if err := c.api.Get(ctx, "/search", q, &resp); err != nil {
		return nil, err
	}
	return &ImagePage{
		Results:    resp.ImagesResults,
		NextCursor: nextCursor(offset, len(resp.ImagesResults)),
	}, nil
}

func cursorOffset(query, cursor string) (int, error) {
	if query == "" {
		return 0, integrations.Errorf(service, integrations.KindValidation, "query is required")
	}
	cur, err := integrations.DecodeCursor(cursor)
	if err != nil {
		return 0, integrations.Errorf(service, integrations.KindValidation, "bad cursor: %v", err)
	}
	return cur.Offset, nil
}

// nextCursor advances the offset past the returned results. A short
// page means the provider ran out.
func nextCursor(offset, returned int) string {
	if returned < defaultPageSize {
		return ""
	}
	next := integrations.Cursor{Service: service, Offset: offset + returned}
	return next.Encode()
}
