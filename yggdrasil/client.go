// Package yggdrasil is a client for the Yggdrasil authentication service
// used by Minecraft: login, validation, refresh, sign-out and invalidation
// of sessions.
//
// The service reports failures through a single JSON error shape that can
// arrive with any HTTP status, so every response body is inspected for that
// shape before it is decoded as a success payload. Server errors come back as
// *Error values whose Kind is one of the package sentinels:
//
//	if errors.Is(err, yggdrasil.ErrInvalidSession) {
//		// log in again
//	}
package yggdrasil

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Client talks to the Yggdrasil service. It holds no state besides its
// client token and transport and may be shared between goroutines.
type Client struct {
	clientToken string
	transport   Transport
}

// New creates a client that sends clientToken with every request. An empty
// clientToken means DefaultClientToken; a nil transport means an
// HTTPTransport against DefaultBaseURL using the client token as User-Agent.
func New(clientToken string, transport Transport) *Client {
	if clientToken == "" {
		clientToken = DefaultClientToken
	}
	if transport == nil {
		transport = NewHTTPTransport(DefaultBaseURL, clientToken, DefaultTimeout)
	}
	return &Client{clientToken: clientToken, transport: transport}
}

// ClientToken returns the token sent with every request.
func (c *Client) ClientToken() string {
	return c.clientToken
}

// Login authenticates for Minecraft and returns a new session.
func (c *Client) Login(ctx context.Context, creds AccountCredentials) (*Session, error) {
	return c.LoginAs(ctx, creds, AgentMinecraft)
}

// LoginAs authenticates for the given agent and returns a new session built
// from the selected profile.
func (c *Client) LoginAs(ctx context.Context, creds AccountCredentials, agent Agent) (*Session, error) {
	resp, err := c.Authenticate(ctx, creds, agent, true)
	if err != nil {
		return nil, err
	}
	s := &Session{
		AccessToken: resp.AccessToken,
		ClientToken: resp.ClientToken,
	}
	applyProfile(s, resp.SelectedProfile)
	return s, nil
}

// Authenticate performs the raw /authenticate exchange and returns the full
// response, including available profiles and, with requestUser, the user
// properties.
func (c *Client) Authenticate(ctx context.Context, creds AccountCredentials, agent Agent, requestUser bool) (*AuthenticateResponse, error) {
	if !creds.valid() {
		return nil, fmt.Errorf("%w: username and password may not be empty", ErrInvalidArgument)
	}

	req := LoginRequest{
		Agent:       AgentPayload{Name: agent.Name(), Version: agent.Version()},
		Username:    creds.Username,
		Password:    creds.Password,
		ClientToken: c.clientToken,
		RequestUser: requestUser,
	}
	var resp AuthenticateResponse
	if err := c.exchange(ctx, endpointAuthenticate, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Validate reports whether the session's access token is still usable. It
// never returns false with a nil error; an unusable token is reported as an
// error, normally ErrInvalidSession.
func (c *Client) Validate(ctx context.Context, s *Session) (bool, error) {
	if err := checkSession(s); err != nil {
		return false, err
	}
	req := ValidationRequest{AccessToken: s.AccessToken, ClientToken: s.ClientToken}
	if err := c.exchange(ctx, endpointValidate, req, nil); err != nil {
		return false, err
	}
	return true, nil
}

// Refresh exchanges the session's access token for a new one and updates s
// in place. The old access token is invalid afterwards.
func (c *Client) Refresh(ctx context.Context, s *Session) error {
	if err := checkSession(s); err != nil {
		return err
	}
	req := RefreshRequest{AccessToken: s.AccessToken, ClientToken: s.ClientToken, RequestUser: true}
	var resp AuthenticateResponse
	if err := c.exchange(ctx, endpointRefresh, req, &resp); err != nil {
		return err
	}

	s.AccessToken = resp.AccessToken
	s.ClientToken = resp.ClientToken
	applyProfile(s, resp.SelectedProfile)
	return nil
}

// SignOut invalidates every session of the account, not only those created
// by this client.
func (c *Client) SignOut(ctx context.Context, creds AccountCredentials) error {
	if !creds.valid() {
		return fmt.Errorf("%w: username and password may not be empty", ErrInvalidArgument)
	}
	req := SignOutRequest{Username: creds.Username, Password: creds.Password}
	return c.exchange(ctx, endpointSignOut, req, nil)
}

// Invalidate invalidates the session's access token.
func (c *Client) Invalidate(ctx context.Context, s *Session) error {
	if err := checkSession(s); err != nil {
		return err
	}
	req := ValidationRequest{AccessToken: s.AccessToken, ClientToken: s.ClientToken}
	return c.exchange(ctx, endpointInvalidate, req, nil)
}

// exchange posts req to endpoint, classifies the raw response and, when out
// is non-nil, decodes the success payload into it.
func (c *Client) exchange(ctx context.Context, endpoint string, req, out any) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("yggdrasil: encode %s request: %w", endpoint, err)
	}

	raw, err := c.transport.Post(ctx, endpoint, body)
	if err != nil {
		return err
	}

	if err := classify(raw); err != nil {
		slog.Debug("yggdrasil.error", "endpoint", endpoint, "error", err)
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("yggdrasil: decode %s response: %w", endpoint, err)
	}
	return nil
}

func checkSession(s *Session) error {
	if s == nil || s.AccessToken == "" {
		return fmt.Errorf("%w: access token may not be empty", ErrInvalidArgument)
	}
	return nil
}

// applyProfile copies the selected profile into s. Accounts without a game
// profile have no selected profile; s is left untouched for them.
func applyProfile(s *Session, p *Profile) {
	if p == nil {
		return
	}
	s.ID = p.ID
	s.Alias = p.Name
}
