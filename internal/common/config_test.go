package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "http://localhost:3000", cfg.Target.BaseURL)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 30*time.Second, cfg.Browser.NavigationTimeout)
	assert.Equal(t, 4, cfg.Audit.MaxButtons)
	assert.Equal(t, 3, cfg.Audit.MaxInputs)
	assert.Len(t, cfg.Baseline.Viewports, 4)
	assert.True(t, cfg.Flags.Defaults["accessibility"])
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile_Overrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "specto.toml")
	content := `
[target]
base_url = "http://dashboard.internal:8080"

[browser]
headless = false
window_width = 1920
window_height = 1080
navigation_timeout = "45s"

[audit]
max_buttons = 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://dashboard.internal:8080", cfg.Target.BaseURL)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, int64(1920), cfg.Browser.WindowWidth)
	assert.Equal(t, 45*time.Second, cfg.Browser.NavigationTimeout)
	assert.Equal(t, 2, cfg.Audit.MaxButtons)
	// untouched values keep defaults
	assert.Equal(t, 3, cfg.Audit.MaxInputs)
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/specto.toml")
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SPECTO_TARGET_URL", "http://staging:3000")
	t.Setenv("SPECTO_BROWSER_HEADLESS", "false")
	t.Setenv("SPECTO_AUDIT_MAX_BUTTONS", "7")
	t.Setenv("SPECTO_BROWSER_NAVIGATION_TIMEOUT", "10s")
	t.Setenv("SPECTO_LOG_OUTPUT", "stdout, file")

	cfg, err := LoadFromFile("")
	require.NoError(t, err)

	assert.Equal(t, "http://staging:3000", cfg.Target.BaseURL)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 7, cfg.Audit.MaxButtons)
	assert.Equal(t, 10*time.Second, cfg.Browser.NavigationTimeout)
	assert.Equal(t, []string{"stdout", "file"}, cfg.Logging.Output)
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()

	ApplyFlagOverrides(cfg, "http://cli-override:3000", nil)
	assert.Equal(t, "http://cli-override:3000", cfg.Target.BaseURL)
	assert.True(t, cfg.Browser.Headless)

	headless := false
	ApplyFlagOverrides(cfg, "", &headless)
	assert.Equal(t, "http://cli-override:3000", cfg.Target.BaseURL)
	assert.False(t, cfg.Browser.Headless)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Target.BaseURL = "not-a-url"
	assert.Error(t, cfg.Validate())

	cfg = NewDefaultConfig()
	cfg.Browser.WindowWidth = 0
	assert.Error(t, cfg.Validate())

	cfg = NewDefaultConfig()
	cfg.Watch.Schedule = "* * * * *"
	assert.Error(t, cfg.Validate())

	cfg = NewDefaultConfig()
	cfg.Watch.Schedule = "*/15 * * * *"
	assert.NoError(t, cfg.Validate())
}

func TestValidateWatchSchedule(t *testing.T) {
	assert.NoError(t, ValidateWatchSchedule("*/5 * * * *"))
	assert.NoError(t, ValidateWatchSchedule("0 */2 * * *"))
	assert.NoError(t, ValidateWatchSchedule("30 2 * * 1"))

	assert.Error(t, ValidateWatchSchedule("* * * * *"))
	assert.Error(t, ValidateWatchSchedule("*/4 * * * *"))
	assert.Error(t, ValidateWatchSchedule("bogus"))
	assert.Error(t, ValidateWatchSchedule(""))
}

func TestIsProduction(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.False(t, cfg.IsProduction())

	cfg.Environment = "production"
	assert.True(t, cfg.IsProduction())

	cfg.Environment = " Prod "
	assert.True(t, cfg.IsProduction())
}
