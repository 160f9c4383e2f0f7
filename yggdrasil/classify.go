package yggdrasil

import "github.com/tidwall/gjson"

const (
	causeUserMigrated     = "UserMigratedException"
	msgInvalidCredentials = "Invalid credentials. Invalid username or password."
	msgServiceBan         = "Invalid credentials."
	msgInvalidToken       = "Invalid token"
)

// isErrorBody reports whether raw looks like an ErrorResponse. The server
// sometimes answers with a success status and an error body, so this check
// runs on every response regardless of status.
func isErrorBody(raw []byte) bool {
	if !gjson.ValidBytes(raw) {
		return false
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return false
	}
	return doc.Get("error").Type == gjson.String && doc.Get("errorMessage").Type == gjson.String
}

// classify returns nil when raw is not an error body. Otherwise it returns an
// *Error whose Kind is picked by the first matching rule. "Invalid
// credentials." is a prefix of the bad-password message and means a ban, so
// the longer message must be checked first.
func classify(raw []byte) error {
	if !isErrorBody(raw) {
		return nil
	}

	// cause is not always a string; a non-string value is kept as raw JSON.
	doc := gjson.ParseBytes(raw)
	resp := ErrorResponse{
		Error:        doc.Get("error").String(),
		ErrorMessage: doc.Get("errorMessage").String(),
		Cause:        doc.Get("cause").String(),
	}

	e := &Error{Code: resp.Error, Message: resp.ErrorMessage, Cause: resp.Cause}
	switch {
	case resp.Cause == causeUserMigrated:
		e.Kind = ErrUserMigrated
	case resp.ErrorMessage == msgInvalidCredentials:
		e.Kind = ErrInvalidCredentials
	case resp.ErrorMessage == msgServiceBan:
		e.Kind = ErrServiceBan
	case resp.ErrorMessage == msgInvalidToken:
		e.Kind = ErrInvalidSession
	default:
		e.Kind = ErrUnclassified
	}
	return e
}
