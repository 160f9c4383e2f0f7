package yggdrasil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// DefaultTimeout bounds a single round-trip of the default transport.
const DefaultTimeout = 30 * time.Second

// Transport posts a JSON body to an endpoint path and returns the raw
// response body. Implementations return the body for every HTTP status;
// only network and read failures are errors.
type Transport interface {
	Post(ctx context.Context, endpoint string, body []byte) ([]byte, error)
}

// HTTPTransport is the default Transport.
type HTTPTransport struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
	Verbose    bool
}

// NewHTTPTransport creates a transport against baseURL that identifies itself
// with userAgent. An empty baseURL means DefaultBaseURL.
func NewHTTPTransport(baseURL, userAgent string, timeout time.Duration) *HTTPTransport {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPTransport{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		UserAgent:  userAgent,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Post implements Transport.
func (t *HTTPTransport) Post(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	url := t.BaseURL + endpoint

	if t.Verbose {
		slog.Info("yggdrasil.request", "url", url, "body", string(redactBody(body)))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("yggdrasil: post %s: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", t.UserAgent)

	client := t.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yggdrasil: post %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yggdrasil: read %s response: %w", endpoint, err)
	}

	if t.Verbose {
		slog.Info("yggdrasil.response",
			"url", url,
			"status", resp.StatusCode,
			"bytes", len(respBody),
			"body", string(redactBody(respBody)),
		)
	}
	return respBody, nil
}

var redactedPaths = []string{"password", "accessToken"}

// redactBody masks secrets in a JSON body for logging. Non-JSON bodies are
// returned unchanged.
func redactBody(body []byte) []byte {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return body
	}
	out := body
	for _, path := range redactedPaths {
		if !gjson.GetBytes(out, path).Exists() {
			continue
		}
		next, err := sjson.SetBytes(out, path, "<redacted>")
		if err != nil {
			continue
		}
		out = next
	}
	return pretty.Ugly(out)
}
