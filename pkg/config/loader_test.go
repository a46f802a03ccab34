package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/abpadmin/pkg/config"
)

type sample struct {
	Name  string `env:"CFG_TEST_NAME" envDefault:"default_value"`
	Count int    `env:"CFG_TEST_COUNT" envDefault:"42"`
}

type requiredSample struct {
	Value string `env:"CFG_TEST_REQUIRED,required"`
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var cfg sample
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "default_value", cfg.Name)
		assert.Equal(t, 42, cfg.Count)
	})

	t.Run("environment wins and is re-read each call", func(t *testing.T) {
		t.Setenv("CFG_TEST_NAME", "first")
		var a sample
		require.NoError(t, config.Load(&a))
		assert.Equal(t, "first", a.Name)

		t.Setenv("CFG_TEST_NAME", "second")
		var b sample
		require.NoError(t, config.Load(&b))
		assert.Equal(t, "second", b.Name)
	})

	t.Run("missing required", func(t *testing.T) {
		var cfg requiredSample
		err := config.Load(&cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil pointer", func(t *testing.T) {
		var cfg *sample
		assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
	})

	t.Run("must load panics", func(t *testing.T) {
		assert.Panics(t, func() {
			var cfg requiredSample
			config.MustLoad(&cfg)
		})
	})
}

func TestLoadWithPrefix(t *testing.T) {
	t.Setenv("STAGE_CFG_TEST_NAME", "prefixed")
	var cfg sample
	require.NoError(t, config.LoadWithPrefix(&cfg, "STAGE_"))
	assert.Equal(t, "prefixed", cfg.Name)
}

func TestLoadEnv(t *testing.T) {
	for _, k := range []string{"ABP_BASE_URL", "ABP_TENANT", "ABP_TIMEOUT", "ABP_AUTH_SCOPES"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	require.NoError(t, config.LoadEnv("testdata/client.env"))

	var cfg config.Client
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "https://abp.example.test", cfg.BaseURL)
	assert.Equal(t, "acme", cfg.Tenant)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"openid", "AccountService"}, cfg.Auth.Scopes)
	assert.Equal(t, "development", cfg.Env)
}

func TestLoadEnv_MissingFile(t *testing.T) {
	err := config.LoadEnv("testdata/does-not-exist.env")
	assert.ErrorIs(t, err, config.ErrEnvFileMissing)
}

func TestLoadWithOverrides(t *testing.T) {
	t.Setenv("CFG_TEST_NAME", "from-env")
	t.Setenv("CFG_TEST_COUNT", "7")

	var cfg sample
	require.NoError(t, config.LoadWithOverrides(&cfg, map[string]string{
		"CFG_TEST_NAME":  "from-flag",
		"CFG_TEST_COUNT": "",
	}))
	assert.Equal(t, "from-flag", cfg.Name)
	assert.Equal(t, 7, cfg.Count)

	var req requiredSample
	require.NoError(t, config.LoadWithOverrides(&req, map[string]string{"CFG_TEST_REQUIRED": "set"}))
	assert.Equal(t, "set", req.Value)
}
