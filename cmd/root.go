// Package cmd 提供 commentcount 的命令行入口与子命令编排。
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"commentcount/internal/languages"
)

// appState 保存各子命令共享的配置、语法表和日志器。
// registry 与 logger 在 PersistentPreRunE 中根据配置初始化。
type appState struct {
	config     *viper.Viper
	configPath string
	registry   *languages.Registry
	logger     *slog.Logger
}

// Execute 组装根命令并执行。
// version 参数由 main 包注入，便于在 CI/CD 中打包不同版本。
func Execute(version string) error {
	rootCmd := newRootCmd(version, newConfig())
	return rootCmd.Execute()
}

// newRootCmd 创建根命令并注册全部子命令。
func newRootCmd(version string, config *viper.Viper) *cobra.Command {
	state := &appState{config: config}

	rootCmd := &cobra.Command{
		Use:   "commentcount",
		Short: "统计源码文件的注释行与 TODO 数量",
		Long: "commentcount 逐行扫描源码文件，按语言的注释语法统计\n" +
			"总行数、注释行、单行注释、块注释行、块注释数量和 TODO 数量。",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return state.initialize()
		},
	}

	rootCmd.PersistentFlags().StringVar(&state.configPath, configFlagName, "", "配置文件路径，默认读取当前目录的 "+configFileName)
	rootCmd.PersistentFlags().String(logFileFlagName, defaultLogFilename, "日志文件路径，- 表示不写日志")
	bindFlagToConfig(config, rootCmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)
	rootCmd.PersistentFlags().BoolP(verboseFlagName, "v", defaultLogVerbose, "输出 debug 级别日志")
	bindFlagToConfig(config, rootCmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	rootCmd.AddCommand(newVersionCmd(version))
	rootCmd.AddCommand(newLanguageCmd(state))
	rootCmd.AddCommand(newScanCmd(state))
	rootCmd.AddCommand(newPromptCmd(state))
	rootCmd.AddCommand(newInitCmd(state))

	return rootCmd
}

// initialize 读取配置文件，并据此创建日志器与语法表。
func (s *appState) initialize() error {
	if err := readConfig(s.config, s.configPath); err != nil {
		return err
	}

	s.logger = newLogger(s.config)
	slog.SetDefault(s.logger)

	registry, err := loadRegistry(s.config)
	if err != nil {
		return err
	}
	s.registry = registry

	s.logger.Debug("configuration loaded",
		"config_file", s.config.ConfigFileUsed(),
		"languages", len(registry.Languages()),
	)
	return nil
}
