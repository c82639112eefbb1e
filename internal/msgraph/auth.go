package msgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

var requiredScopes = []string{
	"https://graph.microsoft.com/Calendars.Read",
	"offline_access",
}

func msEndpoint(tenantID, path string) string {
	return "https://login.microsoftonline.com/" + tenantID + "/oauth2/v2.0/" + path
}

// TokenPath returns where the Graph token is cached below the data directory.
func TokenPath(dataDir string) string {
	return filepath.Join(dataDir, "auth", "msgraph_tokens.json")
}

// Auth signs in to Microsoft Graph with the device code flow and caches the
// resulting token on disk.
type Auth struct {
	TenantID  string
	ClientID  string
	TokenPath string
	// Out receives the sign-in instructions.
	Out io.Writer
	Log *zap.Logger
}

func (a *Auth) config() *oauth2.Config {
	return &oauth2.Config{
		ClientID: a.ClientID,
		Scopes:   requiredScopes,
		Endpoint: oauth2.Endpoint{
			DeviceAuthURL: msEndpoint(a.TenantID, "devicecode"),
			TokenURL:      msEndpoint(a.TenantID, "token"),
			AuthStyle:     oauth2.AuthStyleInParams,
		},
	}
}

func (a *Auth) logger() *zap.Logger {
	if a.Log == nil {
		return zap.NewNop()
	}
	return a.Log
}

// loadToken loads a previously saved token. It returns (nil, nil) if none exists.
func (a *Auth) loadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(a.TokenPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("corrupt token file (delete %s to re-authenticate): %w", a.TokenPath, err)
	}
	return &tok, nil
}

func (a *Auth) saveToken(tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(a.TokenPath), 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling token: %w", err)
	}
	tmpPath := a.TokenPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := os.Rename(tmpPath, a.TokenPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving token file: %w", err)
	}
	return nil
}

// Token returns a usable token: the cached one, a refreshed one, or a new
// one obtained through the device code flow.
func (a *Auth) Token(ctx context.Context) (*oauth2.Token, error) {
	cfg := a.config()
	log := a.logger()

	tok, err := a.loadToken()
	if err != nil {
		log.Warn("ignoring cached token", zap.Error(err))
		tok = nil
	}
	if tok != nil && tok.Valid() {
		return tok, nil
	}

	if tok != nil && tok.RefreshToken != "" {
		refreshed, err := cfg.TokenSource(ctx, tok).Token()
		if err == nil {
			if err := a.saveToken(refreshed); err != nil {
				log.Warn("could not save refreshed token", zap.Error(err))
			}
			return refreshed, nil
		}
		log.Warn("token refresh failed, re-authenticating", zap.Error(err))
	}

	resp, err := cfg.DeviceAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("device auth request failed: %w", err)
	}
	out := a.Out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "To sign in, use a web browser to open the page:")
	fmt.Fprintf(out, "  %s\n", resp.VerificationURI)
	fmt.Fprintf(out, "Enter the code: %s\n", resp.UserCode)
	fmt.Fprintln(out)

	newTok, err := cfg.DeviceAccessToken(ctx, resp)
	if err != nil {
		return nil, fmt.Errorf("device authentication failed: %w", err)
	}
	if err := a.saveToken(newTok); err != nil {
		log.Warn("could not save token", zap.Error(err))
	}
	return newTok, nil
}

// Client signs in if needed and returns a Graph client whose refreshed
// tokens are written back to the cache.
func (a *Auth) Client(ctx context.Context) (*Client, error) {
	tok, err := a.Token(ctx)
	if err != nil {
		return nil, err
	}
	ts := &savingTokenSource{ts: a.config().TokenSource(ctx, tok), save: a.saveToken}
	return NewClient(oauth2.NewClient(ctx, ts), ""), nil
}

// savingTokenSource wraps a TokenSource and persists refreshed tokens.
type savingTokenSource struct {
	ts   oauth2.TokenSource
	save func(*oauth2.Token) error
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.ts.Token()
	if err != nil {
		return nil, err
	}
	// Best-effort save; ignore errors.
	_ = s.save(tok)
	return tok, nil
}
