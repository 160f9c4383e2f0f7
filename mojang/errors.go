package mojang

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/n0madic/go-yggdrasil/yggdrasil"
)

var (
	ErrNotFound         = errors.New("mojang: no such profile")
	ErrTooManyRequests  = errors.New("mojang: rate limited")
	ErrUnexpectedStatus = errors.New("mojang: unexpected response status")
	ErrNoTextures       = errors.New("mojang: profile has no textures")
)

// remoteError turns a failed response into an error. JSON error bodies become
// a *yggdrasil.Error so callers match both packages' errors the same way.
func remoteError(path string, status int, body []byte) error {
	doc := gjson.ParseBytes(body)
	if !gjson.ValidBytes(body) || !doc.IsObject() || doc.Get("error").Type != gjson.String {
		return fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, path, status)
	}
	e := &yggdrasil.Error{
		Code:    doc.Get("error").String(),
		Message: doc.Get("errorMessage").String(),
		Cause:   doc.Get("cause").String(),
		Kind:    yggdrasil.ErrUnclassified,
	}
	switch {
	case e.Code == "TooManyRequestsException" || status == 429:
		e.Kind = ErrTooManyRequests
	case e.Code == "IllegalArgumentException":
		e.Kind = yggdrasil.ErrInvalidArgument
	}
	return e
}
