package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAppConfig(t *testing.T) {
	cfg := DefaultAppConfig()

	assert.Equal(t, DefaultAppName, cfg.AppName)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, DefaultScenarioFile, cfg.ScenarioFile)
	assert.Equal(t, 1.0, cfg.Pacing.RevealInterval)
	assert.Equal(t, 1.0, cfg.Pacing.AnswersDelay)
	assert.Equal(t, 3.0, cfg.Pacing.FeedbackDelay)
	assert.Equal(t, BreathingConfig{Inhale: 4, Hold: 7, Exhale: 8, Breaths: 5}, cfg.Breathing)
	assert.Equal(t, 19, cfg.Breathing.CycleSeconds())
	assert.NoError(t, cfg.Validate())
}

func TestLoadAppConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadAppConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultAppConfig(), cfg)
}

func TestLoadAppConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "softskills.yaml")
	content := `
app_name: trainer_test
log_level: info
window:
  width: 1024
pacing:
  feedback_delay: 2.5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("SOFTSKILLS_LOG_LEVEL", "debug")
	t.Setenv("SOFTSKILLS_PACING__REVEAL_INTERVAL", "0.5")
	t.Setenv("SOFTSKILLS_BREATHING__BREATHS", "3")

	cfg, err := LoadAppConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "trainer_test", cfg.AppName)
	assert.Equal(t, "debug", cfg.LogLevel, "环境变量覆盖文件")
	assert.Equal(t, 1024, cfg.Window.Width)
	assert.Equal(t, GameWindowHeight, cfg.Window.Height, "未设置的字段保持默认值")
	assert.Equal(t, 0.5, cfg.Pacing.RevealInterval)
	assert.Equal(t, AnswersRevealDelaySeconds, cfg.Pacing.AnswersDelay)
	assert.Equal(t, 2.5, cfg.Pacing.FeedbackDelay)
	assert.Equal(t, 3, cfg.Breathing.Breaths)
	assert.Equal(t, HoldSeconds, cfg.Breathing.Hold)
}

func TestLoadAppConfig_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pacing:\n  reveal_interval: 0\n"), 0644))

	_, err := LoadAppConfig(path)
	assert.Error(t, err)
}

func TestAppConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{name: "空应用名", mutate: func(c *AppConfig) { c.AppName = "" }},
		{name: "未知日志级别", mutate: func(c *AppConfig) { c.LogLevel = "trace" }},
		{name: "tick 为零", mutate: func(c *AppConfig) { c.TickRate = 0 }},
		{name: "窗口高度为负", mutate: func(c *AppConfig) { c.Window.Height = -1 }},
		{name: "反馈时长为零", mutate: func(c *AppConfig) { c.Pacing.FeedbackDelay = 0 }},
		{name: "屏息时长为零", mutate: func(c *AppConfig) { c.Breathing.Hold = 0 }},
		{name: "呼吸次数为负", mutate: func(c *AppConfig) { c.Breathing.Breaths = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultAppConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestAppConfigSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")

	original := DefaultAppConfig()
	original.AppName = "round_trip"
	original.Pacing.AnswersDelay = 0.25
	require.NoError(t, original.Save(path))

	loaded, err := LoadAppConfig(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}
