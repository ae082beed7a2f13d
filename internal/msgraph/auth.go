package msgraph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"

	"github.com/Tiliavir/timeprojec/internal/credential"
)

var requiredScopes = []string{
	"https://graph.microsoft.com/Calendars.Read",
	"offline_access",
}

// tokenKey names the cached token in the keyring.
const tokenKey = "msgraph-token"

func msEndpoint(tenantID, path string) string {
	return "https://login.microsoftonline.com/" + tenantID + "/oauth2/v2.0/" + path
}

// OAuth2Config returns the oauth2.Config for Microsoft Graph using the
// provided tenant and client IDs.
func OAuth2Config(tenantID, clientID string) *oauth2.Config {
	return &oauth2.Config{
		ClientID: clientID,
		Scopes:   requiredScopes,
		Endpoint: oauth2.Endpoint{
			DeviceAuthURL: msEndpoint(tenantID, "devicecode"),
			TokenURL:      msEndpoint(tenantID, "token"),
			AuthStyle:     oauth2.AuthStyleInParams,
		},
	}
}

// TokenStore caches the OAuth token between runs. Load returns nil, nil
// when nothing is cached.
type TokenStore interface {
	Load() (*oauth2.Token, error)
	Save(tok *oauth2.Token) error
}

// FileTokenStore keeps the token as JSON in a 0600 file.
type FileTokenStore struct {
	Path string
}

// DefaultTokenPath returns ~/.timeprojec/auth/msgraph_tokens.json.
func DefaultTokenPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".timeprojec", "auth", "msgraph_tokens.json"), nil
}

// Load implements TokenStore.
func (s FileTokenStore) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("corrupt token file (delete %s to re-authenticate): %w", s.Path, err)
	}
	return &tok, nil
}

// Save implements TokenStore with an atomic rename.
func (s FileTokenStore) Save(tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling token: %w", err)
	}
	tmpPath := s.Path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving token file: %w", err)
	}
	return nil
}

// KeyringTokenStore keeps the token in the system keyring.
type KeyringTokenStore struct {
	Ring *credential.Ring
}

// Load implements TokenStore.
func (s KeyringTokenStore) Load() (*oauth2.Token, error) {
	raw, err := s.Ring.Get(tokenKey)
	if errors.Is(err, credential.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal([]byte(raw), &tok); err != nil {
		return nil, fmt.Errorf("corrupt keyring token: %w", err)
	}
	return &tok, nil
}

// Save implements TokenStore.
func (s KeyringTokenStore) Save(tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("marshalling token: %w", err)
	}
	return s.Ring.Set(tokenKey, string(data))
}

// OpenTokenStore returns the store named by kind ("keyring" or "file").
// When the keyring cannot be opened the file store is used instead.
func OpenTokenStore(kind string, warn io.Writer) (TokenStore, error) {
	path, err := DefaultTokenPath()
	if err != nil {
		return nil, err
	}
	if kind == "file" {
		return FileTokenStore{Path: path}, nil
	}
	ring, err := credential.Open()
	if err != nil {
		fmt.Fprintf(warn, "Warning: %v, caching token in %s\n", err, path)
		return FileTokenStore{Path: path}, nil
	}
	return KeyringTokenStore{Ring: ring}, nil
}

// Authenticate returns a usable token. It reuses the cached token, refreshes
// it if needed, or runs the device code flow, printing the sign-in
// instructions to out.
func Authenticate(ctx context.Context, cfg *oauth2.Config, store TokenStore, out io.Writer) (*oauth2.Token, error) {
	tok, err := store.Load()
	if err != nil {
		// Corrupt token: warn and re-auth.
		fmt.Fprintf(out, "Warning: %v\n", err)
		tok = nil
	}

	if tok != nil && tok.Valid() {
		return tok, nil
	}

	if tok != nil && tok.RefreshToken != "" {
		refreshed, err := cfg.TokenSource(ctx, tok).Token()
		if err == nil {
			if err := store.Save(refreshed); err != nil {
				fmt.Fprintf(out, "Warning: could not save refreshed token: %v\n", err)
			}
			return refreshed, nil
		}
		fmt.Fprintf(out, "Token refresh failed (%v), re-authenticating...\n", err)
	}

	resp, err := cfg.DeviceAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("device auth request failed: %w", err)
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
	if err := store.Save(newTok); err != nil {
		fmt.Fprintf(out, "Warning: could not save token: %v\n", err)
	}
	return newTok, nil
}
