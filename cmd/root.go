package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gonewx/softskills/pkg/config"
	"github.com/gonewx/softskills/pkg/game"
	"github.com/gonewx/softskills/pkg/utils"
)

var (
	cfgFile string
	verbose bool
	appName string
)

// openState 构建训练状态，测试中替换为内存版本
var openState = game.NewTrainerState

var rootCmd = &cobra.Command{
	Use:   "softskills",
	Short: "Branching-dialogue soft-skills trainer",
	Long: `Practice workplace conversations: read a scripted dialogue, pick a
reply at each decision point and get feedback. Completed scenarios are
remembered between runs.

Without a subcommand the trainer opens its window.`,
	SilenceUsage: true,
	RunE:         runWindow,
}

// Execute 运行根命令
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "softskills.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&appName, "app-name", "", "storage app name (overrides config)")
	rootCmd.Flags().String("exercise", "", "open an exercise directly")
}

// loadRuntime 加载配置并构建 logger
func loadRuntime() (*config.AppConfig, *zap.Logger, error) {
	cfg, err := config.LoadAppConfig(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if appName != "" {
		cfg.AppName = appName
	}
	if verbose {
		cfg.Verbose = true
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{Level: cfg.LogLevel, Verbose: cfg.Verbose})
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// loadState 加载配置、目录和进度存储
func loadState() (*game.TrainerState, error) {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return nil, err
	}
	return openState(cfg, logger)
}
