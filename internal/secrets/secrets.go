// Package secrets stores the session cookie used to authenticate against
// the remote service.
package secrets

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/techs-sus/fumo/internal/output"
)

// FileName is the name of the secrets file inside the config directory.
const FileName = "secrets.json"

var (
	// ErrNotLoggedIn is returned when no session has been stored yet.
	ErrNotLoggedIn = errors.New("invalid secrets; authentication required (run \"fumo login\")")

	// ErrExpired is returned when the stored session has expired.
	ErrExpired = errors.New("secrets expired")
)

// Secrets is the content of secrets.json.
type Secrets struct {
	Session string `json:"session"`
}

// DefaultPath returns the per-user location of secrets.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed finding config directory: %w", err)
	}

	return filepath.Join(dir, "fumosync", FileName), nil
}

// Resolve returns override when set and DefaultPath otherwise.
func Resolve(override string) (string, error) {
	if override != "" {
		return override, nil
	}

	return DefaultPath()
}

// Load reads the secrets at path. A missing file or an empty session yields
// ErrNotLoggedIn.
func Load(path string) (*Secrets, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotLoggedIn
	}

	if err != nil {
		return nil, fmt.Errorf("reading secrets %s: %w", path, err)
	}

	var s Secrets
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing secrets %s: %w", path, err)
	}

	if strings.TrimSpace(s.Session) == "" {
		return nil, ErrNotLoggedIn
	}

	return &s, nil
}

// Save writes s to path with owner-only permissions, creating the parent
// directory when needed.
func Save(path string, s *Secrets) error {
	data, err := json.MarshalIndent(s, "", "\t")
	if err != nil {
		return fmt.Errorf("marshaling secrets: %w", err)
	}

	w := output.NewFileWriter(path, output.WithPermissions(0o600), output.WithDirPermissions(0o700))
	if err := w.Write(data); err != nil {
		return fmt.Errorf("saving secrets: %w", err)
	}

	return nil
}

// Remove deletes the secrets at path. A missing file is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing secrets %s: %w", path, err)
	}

	return nil
}

// ExpiresAt returns the expiry encoded in the session when the session is a
// JWT carrying an exp claim. The signature is not checked: only the service
// can do that, this is an early local warning.
func (s *Secrets) ExpiresAt() (time.Time, bool) {
	claims := jwt.RegisteredClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(s.Session, &claims); err != nil {
		return time.Time{}, false
	}

	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}

	return claims.ExpiresAt.Time, true
}

// Check returns an error wrapping ErrExpired when the session is known to
// have expired before now.
func (s *Secrets) Check(now time.Time) error {
	if exp, ok := s.ExpiresAt(); ok && !now.Before(exp) {
		return fmt.Errorf("%w at %s", ErrExpired, exp.UTC().Format(time.RFC3339))
	}

	return nil
}
