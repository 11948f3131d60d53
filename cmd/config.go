package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"commentcount/internal/languages"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "commentcount"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	envPrefix = "COMMENTCOUNT"

	configFlagName  = "config"
	modeFlagName    = "mode"
	formatFlagName  = "format"
	outputFlagName  = "output"
	workersFlagName = "workers"
	logFileFlagName = "log-file"
	verboseFlagName = "verbose"

	modeKey      = "mode"
	formatKey    = "format"
	outputKey    = "output"
	workersKey   = "workers"
	languagesKey = "languages"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultMode    = "legacy"
	defaultFormat  = "text"
	defaultOutput  = ""
	defaultWorkers = 1

	defaultLogFilename   = ".commentcount.log"
	defaultLogLevel      = "info"
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

// newConfig 创建带默认值和环境变量映射的 viper 实例。
// 例如 COMMENTCOUNT_MODE=corrected、COMMENTCOUNT_LOG_LEVEL=debug。
func newConfig() *viper.Viper {
	v := viper.New()
	v.SetConfigName(configBaseName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configFolderPath)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault(configVersionKey, currentConfigVersion)
	v.SetDefault(modeKey, defaultMode)
	v.SetDefault(formatKey, defaultFormat)
	v.SetDefault(outputKey, defaultOutput)
	v.SetDefault(workersKey, defaultWorkers)

	v.SetDefault(logFilenameKey, defaultLogFilename)
	v.SetDefault(logLevelKey, defaultLogLevel)
	v.SetDefault(logVerboseKey, defaultLogVerbose)
	v.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	v.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	v.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	v.SetDefault(logCompressKey, defaultLogCompress)

	return v
}

// readConfig 读取配置文件。
// 显式指定的文件必须存在；默认位置找不到配置文件时静默使用默认值。
func readConfig(v *viper.Viper, explicitPath string) error {
	if strings.TrimSpace(explicitPath) != "" {
		v.SetConfigFile(explicitPath)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", explicitPath, err)
		}
		return nil
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// bindFlagToConfig 把 cobra 标志绑定到 viper 键，使配置文件和环境变量都能作为标志的来源。
func bindFlagToConfig(v *viper.Viper, flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(v.BindPFlag(key, flag))
}

// loadRegistry 在内置语法表基础上追加配置文件中的 languages 条目。
func loadRegistry(v *viper.Viper) (*languages.Registry, error) {
	registry := languages.NewRegistry()
	if !v.IsSet(languagesKey) {
		return registry, nil
	}

	var rows []languages.Row
	if err := v.UnmarshalKey(languagesKey, &rows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", languagesKey, err)
	}
	for idx, row := range rows {
		if row.Extension == "" {
			return nil, fmt.Errorf("%s[%d]: extension is empty", languagesKey, idx)
		}
	}

	return registry.WithRows(rows...), nil
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// 同时支持数字级别，例如 -4 表示 debug。
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// newLogger 创建写入滚动日志文件的 slog 日志器。
// log.filename 设为 "-" 时丢弃日志。
func newLogger(v *viper.Viper) *slog.Logger {
	logPath := strings.TrimSpace(v.GetString(logFilenameKey))
	if logPath == "" {
		logPath = defaultLogFilename
	}

	logLevel := parseSlogLevel(v.GetString(logLevelKey), slog.LevelInfo)
	if v.GetBool(logVerboseKey) {
		logLevel = slog.LevelDebug
	}

	var writer io.Writer = io.Discard
	if logPath != "-" {
		writer = &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    v.GetInt(logMaxSizeKey),
			MaxBackups: v.GetInt(logMaxBackupsKey),
			MaxAge:     v.GetInt(logMaxAgeKey),
			Compress:   v.GetBool(logCompressKey),
		}
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})
	return slog.New(handler)
}
