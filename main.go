package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/pretty"

	"github.com/n0madic/go-yggdrasil/internal/config"
	"github.com/n0madic/go-yggdrasil/mojang"
	"github.com/n0madic/go-yggdrasil/yggdrasil"
)

const commands = "Commands: login, validate, refresh, invalidate, signout, token, status, uuid, names, profile, blocked, sales"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: go-yggdrasil <command> [flags]")
		fmt.Fprintln(os.Stderr, commands)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	var code int
	switch os.Args[1] {
	case "login":
		code = cmdLogin(ctx)
	case "validate":
		code = cmdValidate(ctx)
	case "refresh":
		code = cmdRefresh(ctx)
	case "invalidate":
		code = cmdInvalidate(ctx)
	case "signout":
		code = cmdSignOut(ctx)
	case "token":
		code = cmdToken(ctx)
	case "status":
		code = cmdStatus(ctx)
	case "uuid":
		code = cmdUUID(ctx)
	case "names":
		code = cmdNames(ctx)
	case "profile":
		code = cmdProfile(ctx)
	case "blocked":
		code = cmdBlocked(ctx)
	case "sales":
		code = cmdSales(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		fmt.Fprintln(os.Stderr, commands)
		code = 1
	}
	stop()
	os.Exit(code)
}

// newFlagSet registers the flags shared by every command.
func newFlagSet(name string) (*flag.FlagSet, *config.ClientConfig) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	cfg := config.DefaultFromEnv()
	fs.StringVar(&cfg.ClientToken, "client-token", cfg.ClientToken, "Client token sent with every request")
	fs.StringVar(&cfg.AuthURL, "auth-url", cfg.AuthURL, "Authentication server base URL")
	fs.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "Mojang API base URL")
	fs.StringVar(&cfg.SessionURL, "session-url", cfg.SessionURL, "Session server base URL")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Request timeout")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Enable verbose logging")
	return fs, cfg
}

func credentialFlags(fs *flag.FlagSet) *yggdrasil.AccountCredentials {
	creds := &yggdrasil.AccountCredentials{}
	fs.StringVar(&creds.Username, "username", "", "Account email or legacy username")
	fs.StringVar(&creds.Password, "password", os.Getenv("YGGDRASIL_PASSWORD"), "Account password (or YGGDRASIL_PASSWORD)")
	return creds
}

// sessionFlags reads a session from flags. The session's client token
// defaults to the client's own token.
func sessionFlags(fs *flag.FlagSet) *yggdrasil.Session {
	s := &yggdrasil.Session{}
	fs.StringVar(&s.AccessToken, "access-token", "", "Session access token")
	fs.StringVar(&s.Alias, "alias", "", "Session profile name")
	return s
}

func setup(cfg *config.ClientConfig) *yggdrasil.Client {
	if cfg.Verbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	return cfg.NewClient()
}

func cmdLogin(ctx context.Context) int {
	fs, cfg := newFlagSet("login")
	creds := credentialFlags(fs)
	jsonOut := fs.Bool("json", false, "Print the session as JSON")
	fs.Parse(os.Args[2:])

	client := setup(cfg)
	session, err := client.Login(ctx, *creds)
	if err != nil {
		return fail("login failed", err)
	}
	printSession(session, *jsonOut)
	return 0
}

func cmdValidate(ctx context.Context) int {
	fs, cfg := newFlagSet("validate")
	session := sessionFlags(fs)
	fs.Parse(os.Args[2:])
	session.ClientToken = cfg.ClientToken

	client := setup(cfg)
	if _, err := client.Validate(ctx, session); err != nil {
		return fail("session is not valid", err)
	}
	fmt.Println("Session is valid")
	return 0
}

func cmdRefresh(ctx context.Context) int {
	fs, cfg := newFlagSet("refresh")
	session := sessionFlags(fs)
	jsonOut := fs.Bool("json", false, "Print the session as JSON")
	fs.Parse(os.Args[2:])
	session.ClientToken = cfg.ClientToken

	client := setup(cfg)
	if err := client.Refresh(ctx, session); err != nil {
		return fail("refresh failed", err)
	}
	printSession(session, *jsonOut)
	return 0
}

func cmdInvalidate(ctx context.Context) int {
	fs, cfg := newFlagSet("invalidate")
	session := sessionFlags(fs)
	fs.Parse(os.Args[2:])
	session.ClientToken = cfg.ClientToken

	client := setup(cfg)
	if err := client.Invalidate(ctx, session); err != nil {
		return fail("invalidate failed", err)
	}
	fmt.Println("Session invalidated")
	return 0
}

func cmdSignOut(ctx context.Context) int {
	fs, cfg := newFlagSet("signout")
	creds := credentialFlags(fs)
	fs.Parse(os.Args[2:])

	client := setup(cfg)
	if err := client.SignOut(ctx, *creds); err != nil {
		return fail("sign out failed", err)
	}
	fmt.Println("Signed out of all sessions")
	return 0
}

func cmdToken(ctx context.Context) int {
	fs, cfg := newFlagSet("token")
	session := sessionFlags(fs)
	fs.Parse(os.Args[2:])
	session.ClientToken = cfg.ClientToken

	client := setup(cfg)
	tok, err := client.TokenSource(ctx, session).Token()
	if err != nil {
		return fail("unable to obtain token", err)
	}
	fmt.Printf("%s %s\n", tok.Type(), tok.AccessToken)
	return 0
}

func setupLookup(cfg *config.ClientConfig) *mojang.Client {
	setup(cfg)
	return cfg.NewLookupClient()
}

func cmdStatus(ctx context.Context) int {
	fs, cfg := newFlagSet("status")
	fs.Parse(os.Args[2:])

	st, err := setupLookup(cfg).Status(ctx)
	if err != nil {
		return fail("status check failed", err)
	}
	for host, colour := range st {
		fmt.Printf("%-28s %s\n", host, colour)
	}
	return 0
}

// cmdUUID resolves one name, optionally at a point in time, or a batch of
// names in a single request.
func cmdUUID(ctx context.Context) int {
	fs, cfg := newFlagSet("uuid")
	at := fs.Int64("at", -1, "Unix time to resolve the name at (0 = original name)")
	fs.Parse(os.Args[2:])

	names := fs.Args()
	if len(names) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: go-yggdrasil uuid [-at unix] <name> [name...]")
		return 1
	}

	client := setupLookup(cfg)
	var entries []mojang.UUIDEntry
	if len(names) == 1 {
		var when time.Time
		if *at >= 0 {
			when = time.Unix(*at, 0)
		}
		entry, err := client.UUIDByName(ctx, names[0], when)
		if err != nil {
			return fail("lookup failed", err)
		}
		entries = append(entries, *entry)
	} else {
		var err error
		if entries, err = client.UUIDsByNames(ctx, names); err != nil {
			return fail("lookup failed", err)
		}
	}
	for _, e := range entries {
		id, err := e.UUID()
		if err != nil {
			return fail("bad profile id", err)
		}
		fmt.Printf("%s %s\n", id, e.Name)
	}
	return 0
}

func cmdNames(ctx context.Context) int {
	fs, cfg := newFlagSet("names")
	id := uuidFlag(fs)
	fs.Parse(os.Args[2:])

	parsed, err := uuid.Parse(*id)
	if err != nil {
		return fail("invalid -uuid", fmt.Errorf("%w: %v", yggdrasil.ErrInvalidArgument, err))
	}
	history, err := setupLookup(cfg).NameHistory(ctx, parsed)
	if err != nil {
		return fail("name history lookup failed", err)
	}
	for _, h := range history {
		if h.ChangedToAt == 0 {
			fmt.Println(h.Name)
			continue
		}
		fmt.Printf("%s (since %s)\n", h.Name, time.UnixMilli(h.ChangedToAt).UTC().Format(time.RFC3339))
	}
	return 0
}

func cmdProfile(ctx context.Context) int {
	fs, cfg := newFlagSet("profile")
	id := uuidFlag(fs)
	signed := fs.Bool("signed", false, "Ask the server to sign the properties")
	fs.Parse(os.Args[2:])

	parsed, err := uuid.Parse(*id)
	if err != nil {
		return fail("invalid -uuid", fmt.Errorf("%w: %v", yggdrasil.ErrInvalidArgument, err))
	}
	p, err := setupLookup(cfg).Profile(ctx, parsed, !*signed)
	if err != nil {
		return fail("profile lookup failed", err)
	}
	fmt.Printf("\U0001F464 %s (%s)\n", p.Name, parsed)
	if td, err := p.Textures(); err == nil {
		for kind, tex := range td.Textures {
			fmt.Printf("  • %s: %s\n", kind, tex.URL)
		}
	}
	return 0
}

func cmdBlocked(ctx context.Context) int {
	fs, cfg := newFlagSet("blocked")
	fs.Parse(os.Args[2:])

	hashes, err := setupLookup(cfg).BlockedServers(ctx)
	if err != nil {
		return fail("blocked server lookup failed", err)
	}
	for _, h := range hashes {
		fmt.Println(h)
	}
	return 0
}

func cmdSales(ctx context.Context) int {
	fs, cfg := newFlagSet("sales")
	fs.Parse(os.Args[2:])

	var keys []mojang.MetricKey
	for _, k := range fs.Args() {
		keys = append(keys, mojang.MetricKey(k))
	}
	if len(keys) == 0 {
		keys = []mojang.MetricKey{mojang.MetricMinecraftSold, mojang.MetricMinecraftPrepaidCard}
	}
	m, err := setupLookup(cfg).SaleStatistics(ctx, keys...)
	if err != nil {
		return fail("sale statistics lookup failed", err)
	}
	fmt.Printf("Total: %d\nLast 24h: %d\nPer second: %.4f\n", m.Total, m.Last24h, m.SaleVelocityPerSeconds)
	return 0
}

func uuidFlag(fs *flag.FlagSet) *string {
	return fs.String("uuid", "", "Profile UUID, dashed or undashed")
}

func printSession(s *yggdrasil.Session, asJSON bool) {
	if asJSON {
		data, _ := json.Marshal(s)
		os.Stdout.Write(pretty.Pretty(data))
		return
	}
	fmt.Println("\U0001F464 Session")
	fmt.Printf("  • Profile: %s\n", s.Alias)
	if s.ID != "" {
		fmt.Printf("  • Profile ID: %s\n", s.ID)
	}
	fmt.Printf("  • Access token: %s\n", s.AccessToken)
	fmt.Printf("  • Client token: %s\n", s.ClientToken)
}

// fail logs err with a hint for the caller and returns the exit code.
func fail(msg string, err error) int {
	hint := ""
	switch {
	case errors.Is(err, yggdrasil.ErrInvalidArgument):
		hint = "check the command flags"
	case errors.Is(err, yggdrasil.ErrUserMigrated):
		hint = "log in with the account email address"
	case errors.Is(err, yggdrasil.ErrInvalidCredentials):
		hint = "check username and password"
	case errors.Is(err, yggdrasil.ErrServiceBan):
		hint = "too many failed attempts; wait a few minutes"
	case errors.Is(err, yggdrasil.ErrInvalidSession):
		hint = "run login again"
	case errors.Is(err, mojang.ErrNotFound):
		hint = "no profile has that name or id"
	case errors.Is(err, mojang.ErrTooManyRequests):
		hint = "rate limited; wait a minute"
	}
	if hint != "" {
		slog.Error(msg, "error", err, "hint", hint)
	} else {
		slog.Error(msg, "error", err)
	}
	return 1
}
