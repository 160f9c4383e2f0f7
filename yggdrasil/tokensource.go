package yggdrasil

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/oauth2"
)

// TokenSource returns an oauth2.TokenSource backed by s. Each Token call
// validates the session and refreshes it once if the server reports the
// access token as invalid. Calls through one source are serialized, but s
// must not be used directly by other goroutines at the same time.
func (c *Client) TokenSource(ctx context.Context, s *Session) oauth2.TokenSource {
	return &sessionTokenSource{ctx: ctx, client: c, session: s}
}

type sessionTokenSource struct {
	ctx     context.Context
	client  *Client
	mu      sync.Mutex
	session *Session
}

func (ts *sessionTokenSource) Token() (*oauth2.Token, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	_, err := ts.client.Validate(ts.ctx, ts.session)
	if err == nil {
		return ts.session.Token(), nil
	}
	if !errors.Is(err, ErrInvalidSession) {
		return nil, err
	}

	slog.Debug("yggdrasil.token.refresh", "alias", ts.session.Alias)
	if err := ts.client.Refresh(ts.ctx, ts.session); err != nil {
		return nil, err
	}
	return ts.session.Token(), nil
}
