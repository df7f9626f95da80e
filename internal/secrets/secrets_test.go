package secrets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signedSession returns an HS256 token whose exp claim is exp.
func signedSession(t *testing.T, exp time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	})

	s, err := token.SignedString([]byte("test-key"))
	require.NoError(t, err)

	return s
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	require.NoError(t, Save(path, &Secrets{Session: "abc"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", got.Session)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestLoad_EmptySession(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"session":"  "}`), 0o600))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing secrets")
}

func TestRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, &Secrets{Session: "abc"}))

	require.NoError(t, Remove(path))
	require.NoError(t, Remove(path), "removing twice is fine")

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestResolve(t *testing.T) {
	got, err := Resolve("/tmp/custom.json")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.json", got)
}

// ---------------------------------------------------------------------------
// Expiry
// ---------------------------------------------------------------------------

func TestExpiresAt_OpaqueSession(t *testing.T) {
	_, ok := (&Secrets{Session: "opaque-cookie-value"}).ExpiresAt()
	assert.False(t, ok)
	assert.NoError(t, (&Secrets{Session: "opaque-cookie-value"}).Check(time.Now()))
}

func TestCheck_Expired(t *testing.T) {
	now := time.Now()
	s := &Secrets{Session: signedSession(t, now.Add(-time.Hour))}

	exp, ok := s.ExpiresAt()
	require.True(t, ok)
	assert.WithinDuration(t, now.Add(-time.Hour), exp, time.Second)
	assert.ErrorIs(t, s.Check(now), ErrExpired)
}

func TestCheck_Valid(t *testing.T) {
	now := time.Now()
	s := &Secrets{Session: signedSession(t, now.Add(time.Hour))}

	assert.NoError(t, s.Check(now))
}
