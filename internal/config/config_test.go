package config

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t, "VOIPMS_API_URL", "VOIPMS_TIMEOUT_MS", "OUTPUT_PATH", "DIRECTORY_PROMPT")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dir.xml", cfg.OutputPath)
	assert.Equal(t, 30000, cfg.TimeoutMs)
	assert.Equal(t, "https://voip.ms/api/v1/rest.php", cfg.APIURL)
	assert.Equal(t, "Select contact", cfg.Prompt)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("VOIPMS_API_USERNAME", "user@example.com")
	t.Setenv("VOIPMS_API_PASSWORD", "secret")
	t.Setenv("VOIPMS_DEFAULT_POP", "miami1.voip.ms")
	t.Setenv("VOIPMS_TIMEOUT_MS", "5000")
	t.Setenv("POLYCOM_OUTPUT_PATH", "out/0004f2000000-directory.xml")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "miami1.voip.ms", cfg.DefaultPOP)
	assert.Equal(t, 5000, cfg.TimeoutMs)
	assert.Equal(t, "out/0004f2000000-directory.xml", cfg.PolycomOutputPath)
	assert.NoError(t, cfg.RequireCredentials())
}

func TestLoadDefersTimeoutValidation(t *testing.T) {
	t.Setenv("VOIPMS_TIMEOUT_MS", "-1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, -1, cfg.TimeoutMs)
	assert.EqualError(t, cfg.RequireTimeout(), "invalid VOIPMS_TIMEOUT_MS: -1")

	cfg.TimeoutMs = 0
	assert.Error(t, cfg.RequireTimeout())
	cfg.TimeoutMs = 5000
	assert.NoError(t, cfg.RequireTimeout())
}

func TestRequireCredentials(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		missing string
	}{
		{name: "no username", cfg: Config{APIPassword: "x"}, missing: "VOIPMS_API_USERNAME"},
		{name: "blank password", cfg: Config{APIUsername: "u", APIPassword: "  "}, missing: "VOIPMS_API_PASSWORD"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.RequireCredentials()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingConfig))
			assert.Contains(t, err.Error(), tc.missing)
		})
	}
}

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
}
