package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/n0madic/go-yggdrasil/mojang"
	"github.com/n0madic/go-yggdrasil/yggdrasil"
)

const (
	EnvClientToken = "YGGDRASIL_CLIENT_TOKEN"
	EnvAuthURL     = "YGGDRASIL_AUTH_URL"
	EnvTimeout     = "YGGDRASIL_TIMEOUT"
	EnvVerbose     = "YGGDRASIL_VERBOSE"
	EnvAPIURL      = "YGGDRASIL_API_URL"
	EnvSessionURL  = "YGGDRASIL_SESSION_URL"
)

// ClientConfig holds the settings of the command-line client.
type ClientConfig struct {
	ClientToken string
	AuthURL     string
	APIURL      string
	SessionURL  string
	Timeout     time.Duration
	Verbose     bool
}

// DefaultFromEnv creates a ClientConfig with defaults overridden by
// environment variables.
func DefaultFromEnv() *ClientConfig {
	return &ClientConfig{
		ClientToken: envOrDefault(EnvClientToken, yggdrasil.DefaultClientToken),
		AuthURL:     strings.TrimRight(envOrDefault(EnvAuthURL, yggdrasil.DefaultBaseURL), "/"),
		APIURL:      strings.TrimRight(envOrDefault(EnvAPIURL, mojang.DefaultAPIURL), "/"),
		SessionURL:  strings.TrimRight(envOrDefault(EnvSessionURL, mojang.DefaultSessionURL), "/"),
		Timeout:     envDuration(EnvTimeout, yggdrasil.DefaultTimeout),
		Verbose:     envBool(EnvVerbose),
	}
}

// NewClient builds a yggdrasil client from the configuration.
func (c *ClientConfig) NewClient() *yggdrasil.Client {
	tr := yggdrasil.NewHTTPTransport(c.AuthURL, c.ClientToken, c.Timeout)
	tr.Verbose = c.Verbose
	return yggdrasil.New(c.ClientToken, tr)
}

// NewLookupClient builds a client for the public profile lookups. It sends
// the client token as User-Agent, like the authentication client.
func (c *ClientConfig) NewLookupClient() *mojang.Client {
	mc := mojang.New(c.ClientToken, c.Timeout)
	mc.APIURL = c.APIURL
	mc.SessionURL = c.SessionURL
	mc.Verbose = c.Verbose
	return mc
}

func envOrDefault(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("ignoring invalid duration", "env", key, "value", v)
		return defaultVal
	}
	return d
}

func envBool(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}
