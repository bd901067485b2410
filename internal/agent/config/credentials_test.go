package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-stocks-api/internal/agent/config"
)

func TestLoad_MissingFile(t *testing.T) {
	c, err := config.Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	require.Empty(t, c.Token)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "credentials.json")
	exp := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)

	require.NoError(t, config.Save(path, &config.Credentials{Email: "a@b.com", Token: "tok", ExpiresAt: exp}))

	st, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), st.Mode().Perm())

	c, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "tok", c.Token)
	require.True(t, exp.Equal(c.ExpiresAt))
}

func TestLoad_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestCredentials_Valid(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var nilCreds *config.Credentials
	require.False(t, nilCreds.Valid(now))
	require.False(t, (&config.Credentials{}).Valid(now))
	require.True(t, (&config.Credentials{Token: "t"}).Valid(now))
	require.True(t, (&config.Credentials{Token: "t", ExpiresAt: now.Add(time.Minute)}).Valid(now))
	require.False(t, (&config.Credentials{Token: "t", ExpiresAt: now}).Valid(now))
}
