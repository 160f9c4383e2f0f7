package yggdrasil

import (
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// DefaultClientToken is used when a Client is built with an empty token.
const DefaultClientToken = "Nidhogg"

// AccountCredentials holds the username (or email for migrated accounts)
// and password of a Yggdrasil account.
type AccountCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c AccountCredentials) valid() bool {
	return c.Username != "" && c.Password != ""
}

// Session is an authenticated Yggdrasil session. Refresh mutates it in place,
// so a single Session must not be refreshed and validated concurrently.
type Session struct {
	ID          string `json:"id,omitempty"`
	Alias       string `json:"alias"`
	AccessToken string `json:"accessToken"`
	ClientToken string `json:"clientToken"`
}

// Token returns the session's access token as a bearer oauth2.Token. A nil
// session yields nil.
func (s *Session) Token() *oauth2.Token {
	if s == nil {
		return nil
	}
	return &oauth2.Token{
		AccessToken: s.AccessToken,
		TokenType:   "Bearer",
	}
}

// Agent identifies the game being authenticated for. The set of agents is
// fixed; use AgentMinecraft.
type Agent struct {
	name    string
	version int
}

// AgentMinecraft is the only agent the service currently accepts.
var AgentMinecraft = Agent{name: "Minecraft", version: 1}

func (a Agent) Name() string { return a.orDefault().name }

func (a Agent) Version() int { return a.orDefault().version }

func (a Agent) orDefault() Agent {
	if a.name == "" {
		return AgentMinecraft
	}
	return a
}

// NewClientToken returns a random client token. Callers that persist
// sessions should persist the token alongside them; refresh only succeeds
// with the token the session was created with.
func NewClientToken() string {
	return uuid.NewString()
}

// UUID parses the profile id, which the service sends without dashes.
func (p Profile) UUID() (uuid.UUID, error) {
	return uuid.Parse(p.ID)
}
