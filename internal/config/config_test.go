package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DevDefaults(t *testing.T) {
	t.Setenv("DEV_AUTH", "true")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("PORT", "")
	t.Setenv("CONFLICT_SCOPE", "")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, ScopeDog, cfg.ConflictScope)
	assert.Equal(t, devSessionSecret, cfg.SessionSecret)
	assert.Equal(t, 10, cfg.LoginRatePerMin)
	assert.Equal(t, "UTC", cfg.Location.String())
}

func TestLoad_RequiresSessionSecretOutsideDev(t *testing.T) {
	t.Setenv("DEV_AUTH", "false")
	t.Setenv("SESSION_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"port":   {"PORT": "99999"},
		"driver": {"DB_DRIVER": "mysql"},
		"scope":  {"CONFLICT_SCOPE": "room"},
		"tz":     {"TIMEZONE": "Mars/Olympus"},
		"rate":   {"LOGIN_RATE_PER_MIN": "0"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("DEV_AUTH", "true")
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}
}
