// Package mojang looks up public Minecraft account data: service status,
// name to UUID mappings, name history, profiles and the blocked server list.
// None of these calls need a session.
package mojang

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/n0madic/go-yggdrasil/yggdrasil"
)

const (
	DefaultAPIURL     = "https://api.mojang.com"
	DefaultSessionURL = "https://sessionserver.mojang.com"
	DefaultStatusURL  = "https://status.mojang.com"
)

const (
	endpointStatus       = "/check"
	endpointUUIDByName   = "/users/profiles/minecraft/"
	endpointUUIDsByNames = "/profiles/minecraft"
	endpointNameHistory  = "/user/profiles/%s/names"
	endpointProfile      = "/session/minecraft/profile/"
	endpointBlocked      = "/blockedservers"
	endpointStatistics   = "/orders/statistics"
)

// Client queries the public Mojang APIs. The zero value is not usable; create
// one with New.
type Client struct {
	APIURL     string
	SessionURL string
	StatusURL  string
	UserAgent  string
	HTTPClient *http.Client
	Verbose    bool
}

// New creates a client against the production hosts. A non-positive timeout
// means yggdrasil.DefaultTimeout.
func New(userAgent string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = yggdrasil.DefaultTimeout
	}
	return &Client{
		APIURL:     DefaultAPIURL,
		SessionURL: DefaultSessionURL,
		StatusURL:  DefaultStatusURL,
		UserAgent:  userAgent,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Status reports the health of every Mojang service, keyed by host name.
func (c *Client) Status(ctx context.Context) (map[string]ServiceStatus, error) {
	status, body, err := c.do(ctx, http.MethodGet, c.StatusURL, endpointStatus, nil, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, remoteError(endpointStatus, status, body)
	}
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsArray() {
		return nil, fmt.Errorf("mojang: decode %s response: expected a json array", endpointStatus)
	}

	// The service answers with a list of single-entry objects.
	out := make(map[string]ServiceStatus)
	gjson.ParseBytes(body).ForEach(func(_, entry gjson.Result) bool {
		if !entry.IsObject() {
			return true
		}
		entry.ForEach(func(host, colour gjson.Result) bool {
			out[host.String()] = ServiceStatus(colour.String())
			return true
		})
		return true
	})
	return out, nil
}

// UUIDByName returns the profile that held name at the given time. A zero at
// means now; time.Unix(0, 0) asks for the account's original name. Unknown
// names return ErrNotFound.
func (c *Client) UUIDByName(ctx context.Context, name string, at time.Time) (*UUIDEntry, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name may not be empty", yggdrasil.ErrInvalidArgument)
	}
	var query url.Values
	if !at.IsZero() {
		query = url.Values{"at": {strconv.FormatInt(at.Unix(), 10)}}
	}

	var entry UUIDEntry
	if err := c.getJSON(ctx, c.APIURL, endpointUUIDByName+url.PathEscape(name), query, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// UUIDsByNames resolves up to MaxBatchNames names in one request. Names that
// do not exist are missing from the result.
func (c *Client) UUIDsByNames(ctx context.Context, names []string) ([]UUIDEntry, error) {
	if len(names) > MaxBatchNames {
		return nil, fmt.Errorf("%w: at most %d names per request", yggdrasil.ErrInvalidArgument, MaxBatchNames)
	}
	for _, n := range names {
		if n == "" {
			return nil, fmt.Errorf("%w: name may not be empty", yggdrasil.ErrInvalidArgument)
		}
	}
	if len(names) == 0 {
		return nil, nil
	}

	var entries []UUIDEntry
	if err := c.postJSON(ctx, c.APIURL, endpointUUIDsByNames, names, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// NameHistory lists every name the profile has had, oldest first.
func (c *Client) NameHistory(ctx context.Context, id uuid.UUID) ([]NameEntry, error) {
	var entries []NameEntry
	path := fmt.Sprintf(endpointNameHistory, undashed(id))
	if err := c.getJSON(ctx, c.APIURL, path, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Profile fetches a profile with its properties from the session server.
// Set unsigned to false to have the server sign the properties.
func (c *Client) Profile(ctx context.Context, id uuid.UUID, unsigned bool) (*ProfileResponse, error) {
	var query url.Values
	if !unsigned {
		query = url.Values{"unsigned": {"false"}}
	}
	var p ProfileResponse
	if err := c.getJSON(ctx, c.SessionURL, endpointProfile+undashed(id), query, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// BlockedServers returns the SHA-1 hashes of the server address patterns the
// game refuses to join.
func (c *Client) BlockedServers(ctx context.Context) ([]string, error) {
	status, body, err := c.do(ctx, http.MethodGet, c.SessionURL, endpointBlocked, nil, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, remoteError(endpointBlocked, status, body)
	}
	var hashes []string
	for _, line := range strings.Split(string(body), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			hashes = append(hashes, line)
		}
	}
	return hashes, nil
}

// SaleStatistics sums the given sales counters.
func (c *Client) SaleStatistics(ctx context.Context, keys ...MetricKey) (*SaleMetrics, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: at least one metric key is required", yggdrasil.ErrInvalidArgument)
	}
	var m SaleMetrics
	if err := c.postJSON(ctx, c.APIURL, endpointStatistics, statisticsRequest{MetricKeys: keys}, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) getJSON(ctx context.Context, base, path string, query url.Values, out any) error {
	status, body, err := c.do(ctx, http.MethodGet, base, path, query, nil)
	if err != nil {
		return err
	}
	return decode(path, status, body, out)
}

func (c *Client) postJSON(ctx context.Context, base, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("mojang: encode %s request: %w", path, err)
	}
	status, body, err := c.do(ctx, http.MethodPost, base, path, nil, payload)
	if err != nil {
		return err
	}
	return decode(path, status, body, out)
}

// decode maps a response onto out. Both 204 and 404 mean the profile does not
// exist; older hosts answer 204 with no body, newer ones 404 with a message.
func decode(path string, status int, body []byte, out any) error {
	switch {
	case status == http.StatusNoContent || status == http.StatusNotFound:
		return ErrNotFound
	case status != http.StatusOK:
		return remoteError(path, status, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("mojang: decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, base, path string, query url.Values, body []byte) (int, []byte, error) {
	u := strings.TrimRight(base, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	if c.Verbose {
		slog.Info("mojang.request", "method", method, "url", u)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("mojang: %s %s: %w", strings.ToLower(method), path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("mojang: %s %s: %w", strings.ToLower(method), path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("mojang: read %s response: %w", path, err)
	}

	if c.Verbose {
		slog.Info("mojang.response", "url", u, "status", resp.StatusCode, "bytes", len(respBody))
	}
	return resp.StatusCode, respBody, nil
}
