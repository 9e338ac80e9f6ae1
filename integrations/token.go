package integrations

import (
	"context"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// DefaultExpirySkew is how long before the recorded expiry a cached
// token is treated as stale. Refreshing early absorbs clock drift and
// the flight time of the request that will carry the token.
const DefaultExpirySkew = 60 * time.Second

// Token is one short-lived bearer credential.
type Token struct {
	AccessToken string
	Expiry      time.Time
}

// valid reports whether the token is usable at now, honoring skew.
func (t Token) valid(now time.Time, skew time.Duration) bool {
	if t.AccessToken == "" {
		return false
	}
	if t.Expiry.IsZero() {
		return true
	}
	return now.Add(skew).Before(t.Expiry)
}

// FetchFunc obtains a fresh token from the provider, e.g. a
// client-credentials exchange.
type FetchFunc func(ctx context.Context) (Token, error)

// ExpiringTokenSource caches a short-lived bearer token and refreshes
// it through a FetchFunc when the expiry (minus skew) passes. Safe for
// concurrent use; only one refresh runs at a time.
type ExpiringTokenSource struct {
	mu    sync.Mutex
	fetch FetchFunc
	tok   Token
	skew  time.Duration
	now   func() time.Time
}

// NewExpiringTokenSource builds a source around fetch. A zero skew
// takes the default.
func NewExpiringTokenSource(fetch FetchFunc, skew time.Duration) *ExpiringTokenSource {
	if skew <= 0 {
		skew = DefaultExpirySkew
	}
	return &ExpiringTokenSource{fetch: fetch, skew: skew, now: time.Now}
}

// Token returns a valid access token, refreshing if the cached one is
// missing or within skew of its expiry.
func (s *ExpiringTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tok.valid(s.now(), s.skew) {
		return s.tok.AccessToken, nil
	}
	tok, err := s.fetch(ctx)
	if err != nil {
		return "", err
	}
	s.tok = tok
	return tok.AccessToken, nil
}

// Invalidate drops the cached token so the next Token call refreshes,
// as after a 401 on a token the provider revoked early.
func (s *ExpiringTokenSource) Invalidate() {
	s.mu.Lock()
	s.tok = Token{}
	s.mu.Unlock()
}

// OAuth2 adapts the source to oauth2.TokenSource for SDKs that take
// one (the Google API client does).
func (s *ExpiringTokenSource) OAuth2(ctx context.Context) oauth2.TokenSource {
	return oauthAdapter{ctx: ctx, src: s}
}

type oauthAdapter struct {
	ctx context.Context
	src *ExpiringTokenSource
}

func (a oauthAdapter) Token() (*oauth2.Token, error) {
	tok, err := a.src.Token(a.ctx)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: tok, TokenType: "Bearer"}, nil
}

// StaticToken is a source for long-lived credentials that never
// refresh, like personal access tokens.
func StaticToken(token string) *ExpiringTokenSource {
	return NewExpiringTokenSource(func(context.Context) (Token, error) {
		return Token{AccessToken: token}, nil
	}, 0)
}
