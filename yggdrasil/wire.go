package yggdrasil

const (
	DefaultBaseURL = "https://authserver.mojang.com"

	endpointAuthenticate = "/authenticate"
	endpointRefresh      = "/refresh"
	endpointValidate     = "/validate"
	endpointSignOut      = "/signout"
	endpointInvalidate   = "/invalidate"
)

// AgentPayload is the agent member of a login request.
type AgentPayload struct {
	Name    string `json:"name"`
	Version int    `json:"version"`
}

// LoginRequest is the body of /authenticate.
type LoginRequest struct {
	Agent       AgentPayload `json:"agent"`
	Username    string       `json:"username"`
	Password    string       `json:"password"`
	ClientToken string       `json:"clientToken"`
	RequestUser bool         `json:"requestUser"`
}

// RefreshRequest is the body of /refresh.
type RefreshRequest struct {
	AccessToken string `json:"accessToken"`
	ClientToken string `json:"clientToken"`
	RequestUser bool   `json:"requestUser"`
}

// ValidationRequest is the body of /validate and /invalidate.
type ValidationRequest struct {
	AccessToken string `json:"accessToken"`
	ClientToken string `json:"clientToken"`
}

// SignOutRequest is the body of /signout.
type SignOutRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthenticateResponse is returned by /authenticate and /refresh. Refresh
// responses carry no AvailableProfiles.
type AuthenticateResponse struct {
	AccessToken       string    `json:"accessToken"`
	ClientToken       string    `json:"clientToken"`
	AvailableProfiles []Profile `json:"availableProfiles,omitempty"`
	SelectedProfile   *Profile  `json:"selectedProfile,omitempty"`
	User              *User     `json:"user,omitempty"`
}

// Profile is a game profile owned by the account.
type Profile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Legacy bool   `json:"legacy,omitempty"`
}

// User is the account information returned when requestUser is set.
type User struct {
	ID         string         `json:"id"`
	Properties []UserProperty `json:"properties,omitempty"`
}

type UserProperty struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ErrorResponse is the single error shape shared by all endpoints.
type ErrorResponse struct {
	Error        string `json:"error"`
	ErrorMessage string `json:"errorMessage"`
	Cause        string `json:"cause,omitempty"`
}
