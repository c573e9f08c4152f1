package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix 环境变量前缀
// SOFTSKILLS_LOG_LEVEL -> log_level，SOFTSKILLS_PACING__REVEAL_INTERVAL -> pacing.reveal_interval
const EnvPrefix = "SOFTSKILLS_"

// PacingConfig 对话节奏（秒）
type PacingConfig struct {
	RevealInterval float64 `yaml:"reveal_interval" koanf:"reveal_interval"`
	AnswersDelay   float64 `yaml:"answers_delay" koanf:"answers_delay"`
	FeedbackDelay  float64 `yaml:"feedback_delay" koanf:"feedback_delay"`
}

// DefaultPacing 返回默认节奏：1s 逐条显示、1s 阅读停顿、3s 反馈
func DefaultPacing() PacingConfig {
	return PacingConfig{
		RevealInterval: RevealIntervalSeconds,
		AnswersDelay:   AnswersRevealDelaySeconds,
		FeedbackDelay:  FeedbackDisplaySeconds,
	}
}

// BreathingConfig 呼吸练习节奏（整秒）
type BreathingConfig struct {
	Inhale  int `yaml:"inhale" koanf:"inhale"`
	Hold    int `yaml:"hold" koanf:"hold"`
	Exhale  int `yaml:"exhale" koanf:"exhale"`
	Breaths int `yaml:"breaths" koanf:"breaths"`
}

// DefaultBreathing 返回 4-7-8 节奏，共 5 次呼吸
func DefaultBreathing() BreathingConfig {
	return BreathingConfig{
		Inhale:  InhaleSeconds,
		Hold:    HoldSeconds,
		Exhale:  ExhaleSeconds,
		Breaths: BreathCount,
	}
}

// CycleSeconds 一次呼吸的总秒数
func (b BreathingConfig) CycleSeconds() int {
	return b.Inhale + b.Hold + b.Exhale
}

// Validate 各阶段与次数都必须为正
func (b BreathingConfig) Validate() error {
	if b.Inhale <= 0 || b.Hold <= 0 || b.Exhale <= 0 || b.Breaths <= 0 {
		return fmt.Errorf("breathing durations and breaths must be positive, got %+v", b)
	}
	return nil
}

// WindowConfig 窗口尺寸
type WindowConfig struct {
	Width  int `yaml:"width" koanf:"width"`
	Height int `yaml:"height" koanf:"height"`
}

// AppConfig 应用启动配置
type AppConfig struct {
	AppName      string          `yaml:"app_name" koanf:"app_name"`
	LogLevel     string          `yaml:"log_level" koanf:"log_level"`
	Verbose      bool            `yaml:"verbose" koanf:"verbose"`
	ScenarioFile string          `yaml:"scenario_file" koanf:"scenario_file"`
	ExerciseFile string          `yaml:"exercise_file" koanf:"exercise_file"`
	TickRate     int             `yaml:"tick_rate" koanf:"tick_rate"`
	Window       WindowConfig    `yaml:"window" koanf:"window"`
	Pacing       PacingConfig    `yaml:"pacing" koanf:"pacing"`
	Breathing    BreathingConfig `yaml:"breathing" koanf:"breathing"`
}

// DefaultAppConfig 返回默认配置
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		AppName:      DefaultAppName,
		LogLevel:     "warn",
		ScenarioFile: DefaultScenarioFile,
		ExerciseFile: DefaultExerciseFile,
		TickRate:     DefaultTickRate,
		Window: WindowConfig{
			Width:  GameWindowWidth,
			Height: GameWindowHeight,
		},
		Pacing:    DefaultPacing(),
		Breathing: DefaultBreathing(),
	}
}

// LoadAppConfig 依次叠加：默认值 -> YAML 文件（存在时）-> SOFTSKILLS_* 环境变量
// path 为空时跳过文件
func LoadAppConfig(path string) (*AppConfig, error) {
	k := koanf.New(".")
	cfg := DefaultAppConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate 检查配置取值
func (c *AppConfig) Validate() error {
	if c.AppName == "" {
		return fmt.Errorf("app_name is required")
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("tick_rate must be positive, got %d", c.TickRate)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Pacing.RevealInterval <= 0 || c.Pacing.AnswersDelay <= 0 || c.Pacing.FeedbackDelay <= 0 {
		return fmt.Errorf("pacing durations must be positive, got %+v", c.Pacing)
	}
	return c.Breathing.Validate()
}

// Save 将配置写回 YAML 文件
func (c *AppConfig) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}
