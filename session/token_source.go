package session

import (
	"github.com/jrsteele09/go-warehouse-client/api"
	"github.com/jrsteele09/go-warehouse-client/token"
	"golang.org/x/oauth2"
)

type tokenSource struct {
	store *Store
}

var _ oauth2.TokenSource = tokenSource{}

// TokenSource exposes the session token to an *api.Client. While signed out the
// source returns api.ErrNoSessionToken and requests go out without a Bearer header.
func (s *Store) TokenSource() oauth2.TokenSource {
	return tokenSource{store: s}
}

func (ts tokenSource) Token() (*oauth2.Token, error) {
	raw := ts.store.Token()
	if raw == "" {
		return nil, api.ErrNoSessionToken
	}
	t := &oauth2.Token{AccessToken: raw, TokenType: "Bearer"}
	if exp, ok := token.Expiration(raw); ok {
		t.Expiry = exp
	}
	return t, nil
}
