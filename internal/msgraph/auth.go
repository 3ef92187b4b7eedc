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

	"github.com/Tiliavir/shiftbase/internal/keyring"
	"github.com/Tiliavir/shiftbase/internal/logger"
)

const loginBase = "https://login.microsoftonline.com/%s/oauth2/v2.0/"

// oauth2Config describes the public-client device code flow for tenantID.
func oauth2Config(tenantID, clientID string) *oauth2.Config {
	base := fmt.Sprintf(loginBase, tenantID)
	return &oauth2.Config{
		ClientID: clientID,
		Scopes:   []string{"https://graph.microsoft.com/Calendars.Read", "offline_access"},
		Endpoint: oauth2.Endpoint{
			DeviceAuthURL: base + "devicecode",
			TokenURL:      base + "token",
			AuthStyle:     oauth2.AuthStyleInParams,
		},
	}
}

// TokenStore persists the OAuth token between runs. Load returns nil, nil
// when no token has been saved yet.
type TokenStore interface {
	Load() (*oauth2.Token, error)
	Save(tok *oauth2.Token) error
}

// TokenPath returns the token file location under dataDir.
func TokenPath(dataDir string) string {
	return filepath.Join(dataDir, "auth", "msgraph_tokens.json")
}

// FileTokenStore keeps the token in a JSON file.
type FileTokenStore struct {
	Path string
}

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

// KeyringTokenStore keeps the token in the OS keyring.
type KeyringTokenStore struct{}

func (KeyringTokenStore) Load() (*oauth2.Token, error) {
	raw, err := keyring.Get(keyring.OutlookTokenAccount)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal([]byte(raw), &tok); err != nil {
		return nil, fmt.Errorf("corrupt token in keyring: %w", err)
	}
	return &tok, nil
}

func (KeyringTokenStore) Save(tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("marshalling token: %w", err)
	}
	return keyring.Set(keyring.OutlookTokenAccount, string(data))
}

// DefaultTokenStore prefers the OS keyring and falls back to a file under
// dataDir.
func DefaultTokenStore(dataDir string) TokenStore {
	if keyring.IsAvailable() {
		return KeyringTokenStore{}
	}
	return FileTokenStore{Path: TokenPath(dataDir)}
}

// Authenticate returns a token for Microsoft Graph. A saved token is used
// or refreshed when possible; otherwise the device code flow runs and its
// sign-in instructions are written to prompt.
func Authenticate(ctx context.Context, tenantID, clientID string, store TokenStore, prompt io.Writer) (*oauth2.Token, *oauth2.Config, error) {
	cfg := oauth2Config(tenantID, clientID)

	if tok := savedToken(ctx, cfg, store); tok != nil {
		return tok, cfg, nil
	}
	tok, err := deviceLogin(ctx, cfg, prompt)
	if err != nil {
		return nil, nil, err
	}
	if err := store.Save(tok); err != nil {
		logger.Warn("could not save token", "err", err)
	}
	return tok, cfg, nil
}

func savedToken(ctx context.Context, cfg *oauth2.Config, store TokenStore) *oauth2.Token {
	tok, err := store.Load()
	switch {
	case err != nil:
		logger.Warn("ignoring saved token", "err", err)
		return nil
	case tok == nil:
		return nil
	case tok.Valid():
		return tok
	case tok.RefreshToken == "":
		return nil
	}

	fresh, err := cfg.TokenSource(ctx, tok).Token()
	if err != nil {
		logger.Info("refresh failed, signing in again", "err", err)
		return nil
	}
	if err := store.Save(fresh); err != nil {
		logger.Warn("could not save refreshed token", "err", err)
	}
	return fresh
}

func deviceLogin(ctx context.Context, cfg *oauth2.Config, prompt io.Writer) (*oauth2.Token, error) {
	da, err := cfg.DeviceAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("requesting device code: %w", err)
	}
	fmt.Fprintf(prompt, "\nOpen %s in a browser and enter the code %s\n\n", da.VerificationURI, da.UserCode)

	tok, err := cfg.DeviceAccessToken(ctx, da)
	if err != nil {
		return nil, fmt.Errorf("waiting for sign-in: %w", err)
	}
	return tok, nil
}
