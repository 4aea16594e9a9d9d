package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{Path: "/some/path"},
		Inbox:  InboxConfig{Path: "/some/path/inbox"},
		Import: ImportConfig{RateLimit: 10},
	}
}

// clearEnv unsets every key Load reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENV", "LOG_LEVEL", "DATA_PATH", "SERVER_PORT",
		"SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_IDLE_TIMEOUT",
		"INBOX_ENABLED", "INBOX_PATH", "IMPORT_RATE_LIMIT", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func load(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	args = append([]string{"-env-file", filepath.Join(t.TempDir(), "missing.env")}, args...)
	return Load(flag.NewFlagSet("test", flag.ContinueOnError), args)
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true}, // case insensitive
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_Limits(t *testing.T) {
	cfg := validConfig()
	cfg.Import.RateLimit = 0
	assert.ErrorContains(t, cfg.Validate(), "import rate limit")

	cfg = validConfig()
	cfg.Data.Path = ""
	assert.ErrorContains(t, cfg.Validate(), "data path cannot be empty")

	cfg = validConfig()
	cfg.Inbox = InboxConfig{Enabled: true}
	assert.ErrorContains(t, cfg.Validate(), "inbox path")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := load(t)
	require.NoError(t, err)

	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, filepath.Join(homeDir, "StatLine", "data"), cfg.Data.Path)
	assert.Equal(t, filepath.Join(homeDir, "StatLine", "data", "inbox"), cfg.Inbox.Path)
	assert.False(t, cfg.Inbox.Enabled)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, 10, cfg.Import.RateLimit)
	assert.Empty(t, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("INBOX_ENABLED", "yes")

	cfg, err := load(t, "-port", "9100", "-data-path", "/srv/statline")
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.Equal(t, "/srv/statline", cfg.Data.Path)
	assert.Equal(t, "/srv/statline/inbox", cfg.Inbox.Path)
	assert.True(t, cfg.Inbox.Enabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoad_InvalidDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_WRITE_TIMEOUT", "soon")

	_, err := load(t)
	assert.ErrorContains(t, err, "SERVER_WRITE_TIMEOUT")
}

func TestLoad_CallerFlags(t *testing.T) {
	clearEnv(t)
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	dryRun := fs.Bool("dry-run", false, "report only")

	_, err := Load(fs, []string{"-dry-run", "-env-file", filepath.Join(t.TempDir(), "none")})
	require.NoError(t, err)
	assert.True(t, *dryRun)
}

func TestExpandPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/my-data", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(homeDir, "my-data"), got)

	got, err = expandPath("/absolute/path/to/data", "")
	require.NoError(t, err)
	assert.Equal(t, "/absolute/path/to/data", got)

	got, err = expandPath("relative/path", "")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.Contains(t, got, "relative/path")

	got, err = expandPath("", "/fallback")
	require.NoError(t, err)
	assert.Equal(t, "/fallback", got)
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("TEST_ENV_KEY", "env-value")

	assert.Equal(t, "flag-value", getConfigValue("flag-value", "TEST_ENV_KEY", "default-value"))
	assert.Equal(t, "env-value", getConfigValue("", "TEST_ENV_KEY", "default-value"))
	assert.Equal(t, "default-value", getConfigValue("", "NONEXISTENT_KEY", "default-value"))
}

func TestLoadEnvFile_ValidFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	content := `# Test env file
ENV=staging
LOG_LEVEL=debug
DATA_PATH=/test/path
# Comment line
QUOTED_VALUE="some value"
SINGLE_QUOTED='another value'
`
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	for _, key := range []string{"ENV", "LOG_LEVEL", "DATA_PATH", "QUOTED_VALUE", "SINGLE_QUOTED"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	require.NoError(t, loadEnvFile(envFile))

	assert.Equal(t, "staging", os.Getenv("ENV"))
	assert.Equal(t, "debug", os.Getenv("LOG_LEVEL"))
	assert.Equal(t, "/test/path", os.Getenv("DATA_PATH"))
	assert.Equal(t, "some value", os.Getenv("QUOTED_VALUE"))
	assert.Equal(t, "another value", os.Getenv("SINGLE_QUOTED"))
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	content := `VALID_KEY=valid_value
INVALID LINE WITHOUT EQUALS
`
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))
	t.Setenv("VALID_KEY", "")

	err := loadEnvFile(envFile)
	assert.ErrorContains(t, err, "invalid format")
}

func TestLoadEnvFile_NonExistentFile(t *testing.T) {
	assert.Error(t, loadEnvFile("/nonexistent/file/.env"))
}

func TestLoadEnvFile_ExistingEnvVarsNotOverwritten(t *testing.T) {
	t.Setenv("TEST_VAR", "original-value")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(`TEST_VAR=new-value`), 0o644))

	require.NoError(t, loadEnvFile(envFile))
	assert.Equal(t, "original-value", os.Getenv("TEST_VAR"))
}

func TestLoadEnvFile_Whitespace(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(`  KEY_WITH_SPACES  =  value with spaces  `), 0o644))
	t.Setenv("KEY_WITH_SPACES", "")

	require.NoError(t, loadEnvFile(envFile))
	assert.Equal(t, "value with spaces", os.Getenv("KEY_WITH_SPACES"))
}
