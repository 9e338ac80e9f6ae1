package integrations

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestKindFromStatus(t *testing.T) {
	cases := map[int]ErrorKind{
		400: KindValidation,
		401: KindAuth,
		403: KindAuth,
		404: KindNotFound,
		410: KindNotFound,
		422: KindValidation,
		429: KindRateLimited,
		500: KindServerError,
		503: KindServerError,
	}
	for status, want := range cases {
		if got := KindFromStatus(status); got != want {
			t.Errorf("KindFromStatus(%d) = %s, want %s", status, got, want)
		}
	}
}

func TestKindHelpers(t *testing.T) {
	err := fmt.Errorf("calling out: %w", &APIError{Service: "test", Kind: KindNotFound, Status: 404})
	if !IsNotFound(err) {
		t.Fatal("IsNotFound missed a wrapped not_found APIError")
	}
	if IsAuth(err) || IsRateLimited(err) || IsValidation(err) {
		t.Fatal("kind helpers matched the wrong kind")
	}
	if KindOf(err) != KindNotFound {
		t.Fatalf("KindOf = %s, want not_found", KindOf(err))
	}
	if KindOf(errors.New("boom")) != KindServerError {
		t.Fatalf("unclassified error should default to server_error")
	}
}

func TestClientClassifiesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"message":"slow down"}`)
	}))
	defer srv.Close()

	c := NewClient("test", srv.URL)
	err := c.Get(context.Background(), "/things", nil, nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Kind != KindRateLimited || apiErr.Status != 429 {
		t.Fatalf("got kind=%s status=%d", apiErr.Kind, apiErr.Status)
	}
	if apiErr.Message != "slow down" {
		t.Fatalf("body message not extracted: %q", apiErr.Message)
	}
	if apiErr.RetryAfter != 3*time.Second {
		t.Fatalf("RetryAfter = %v, want 3s", apiErr.RetryAfter)
	}
}

func TestClientDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sekrit" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.URL.Query().Get("q"); got != "golang" {
			t.Errorf("query q = %q", got)
		}
		fmt.Fprint(w, `{"name":"docsmith","count":2}`)
	}))
	defer srv.Close()

	c := NewClient("test", srv.URL, WithAuth(BearerAuth("sekrit")))
	var out struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	q := map[string][]string{"q": {"golang"}}
	if err := c.Get(context.Background(), "/search", q, &out); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if out.Name != "docsmith" || out.Count != 2 {
		t.Fatalf("decoded %+v", out)
	}
}

func TestClientNetworkErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient("test", srv.URL)
	err := c.Get(context.Background(), "/", nil, nil)
	if KindOf(err) != KindNetwork {
		t.Fatalf("dial failure classified as %s, want network", KindOf(err))
	}
}

func TestExpiringTokenSource(t *testing.T) {
	clock := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	fetches := 0
	src := NewExpiringTokenSource(func(ctx context.Context) (Token, error) {
		fetches++
		return Token{
			AccessToken: fmt.Sprintf("tok-%d", fetches),
			Expiry:      clock.Add(10 * time.Minute),
		}, nil
	}, time.Minute)
	src.now = func() time.Time { return clock }

	tok, err := src.Token(context.Background())
	if err != nil || tok != "tok-1" {
		t.Fatalf("first Token = %q, %v", tok, err)
	}

	// Still fresh: same token, no refetch.
	clock = clock.Add(5 * time.Minute)
	if tok, _ = src.Token(context.Background()); tok != "tok-1" || fetches != 1 {
		t.Fatalf("fresh token refetched: %q fetches=%d", tok, fetches)
	}

	// Inside the skew window: refreshed.
	clock = clock.Add(4*time.Minute + 30*time.Second)
	if tok, _ = src.Token(context.Background()); tok != "tok-2" || fetches != 2 {
		t.Fatalf("stale token kept: %q fetches=%d", tok, fetches)
	}

	src.Invalidate()
	if tok, _ = src.Token(context.Background()); tok != "tok-3" {
		t.Fatalf("Invalidate did not force a refresh: %q", tok)
	}
}

func TestExpiringTokenSourceFetchError(t *testing.T) {
	want := errors.New("exchange refused")
	src := NewExpiringTokenSource(func(ctx context.Context) (Token, error) {
		return Token{}, want
	}, 0)
	if _, err := src.Token(context.Background()); !errors.Is(err, want) {
		t.Fatalf("fetch error not propagated: %v", err)
	}
}

func TestStaticToken(t *testing.T) {
	src := StaticToken("pat-123")
	for i := 0; i < 3; i++ {
		tok, err := src.Token(context.Background())
		if err != nil || tok != "pat-123" {
			t.Fatalf("StaticToken returned %q, %v", tok, err)
		}
	}
}

func TestLimiterHonorsRetryAfter(t *testing.T) {
	l := NewLimiter(1000, 10)
	clock := time.Now()
	l.now = func() time.Time { return clock }
	var slept time.Duration
	l.sleep = func(ctx context.Context, d time.Duration) error {
		slept = d
		return nil
	}

	l.Observe(429, 2*time.Second)
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if slept != 2*time.Second {
		t.Fatalf("slept %v, want 2s hold after 429", slept)
	}

	// A success clears the hold.
	slept = 0
	l.Observe(200, 0)
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if slept != 0 {
		t.Fatalf("hold not cleared, slept %v", slept)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	c := &Cursor{Service: "bitly", Token: "aWxvdmU", Page: 3}
	enc := c.Encode()
	if enc == "" {
		t.Fatal("Encode returned empty string for a populated cursor")
	}

	dec, err := DecodeCursor(enc)
	if err != nil {
		t.Fatalf("DecodeCursor: %v", err)
	}
	if dec.Service != "bitly" || dec.Token != "aWxvdmU" || dec.Page != 3 {
		t.Fatalf("round trip lost fields: %+v", dec)
	}

	if fresh, err := DecodeCursor(""); err != nil || fresh.Page != 0 || fresh.Token != "" {
		t.Fatalf("empty cursor should decode fresh: %+v, %v", fresh, err)
	}

	if _, err := DecodeCursor("!!! not base64 !!!"); !errors.Is(err, ErrInvalidCursor) {
		t.Fatalf("garbage cursor error = %v", err)
	}
}
