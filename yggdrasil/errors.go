package yggdrasil

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument    = errors.New("yggdrasil: invalid argument")
	ErrUserMigrated       = errors.New("yggdrasil: account migrated; log in with email address")
	ErrInvalidCredentials = errors.New("yggdrasil: invalid username or password")
	ErrServiceBan         = errors.New("yggdrasil: client temporarily banned after too many failed logins")
	ErrInvalidSession     = errors.New("yggdrasil: invalid access token")
	ErrUnclassified       = errors.New("yggdrasil: unexpected server error")
)

// Error is a structured error returned by the authentication server.
// Kind is one of the package sentinels and is what errors.Is matches on.
type Error struct {
	Kind    error
	Code    string
	Message string
	Cause   string
}

func (e *Error) Error() string {
	code := e.Code
	if code == "" {
		code = "unknown error"
	}
	msg := e.Message
	if msg == "" {
		msg = "no description"
	}
	if e.Cause == "" {
		return fmt.Sprintf("%v (%s: %s)", e.Kind, code, msg)
	}
	return fmt.Sprintf("%v (%s: %s; cause: %s)", e.Kind, code, msg, e.Cause)
}

func (e *Error) Unwrap() error { return e.Kind }
