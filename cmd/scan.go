package cmd

import (
	"errors"
	"fmt"
	"strings"

	"commentcount/internal/classifier"
	"commentcount/internal/report"
	"commentcount/internal/scanner"

	"github.com/spf13/cobra"
)

// newScanCmd 创建 scan 子命令。
// 示例：
//
//	commentcount scan main.c
//	commentcount scan ./project --format table
//	commentcount scan ./project --mode corrected --format json --output result.json
func newScanCmd(state *appState) *cobra.Command {
	scanCmd := &cobra.Command{
		Use:   "scan <path>...",
		Short: "扫描文件或目录并输出注释统计",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := state.config

			format := strings.ToLower(strings.TrimSpace(config.GetString(formatKey)))
			if format != "text" && format != "table" && format != "json" {
				return errors.New("unsupported format, allowed values: text, table, json")
			}

			mode, err := classifier.ParseMode(config.GetString(modeKey))
			if err != nil {
				return err
			}

			workers := config.GetInt(workersKey)
			if workers <= 0 {
				return errors.New("workers must be greater than 0")
			}

			service := scanner.NewService(state.registry, scanner.Options{
				Mode:    mode,
				Workers: workers,
				Logger:  state.logger,
			})
			result, err := service.ScanPaths(cmd.Context(), args)
			if err != nil {
				return err
			}

			switch format {
			case "text":
				err = report.PrintText(cmd.OutOrStdout(), result)
			case "table":
				err = report.PrintTable(cmd.OutOrStdout(), result)
			case "json":
				err = report.PrintJSON(cmd.OutOrStdout(), result)
			}
			if err != nil {
				return err
			}

			outputPath := strings.TrimSpace(config.GetString(outputKey))
			if outputPath == "" {
				return nil
			}
			if err := report.WriteJSONFile(outputPath, result); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nJSON exported to %s\n", outputPath)
			return nil
		},
	}

	scanCmd.Flags().String(formatFlagName, defaultFormat, "输出格式: text、table 或 json")
	bindFlagToConfig(state.config, scanCmd.Flags().Lookup(formatFlagName), formatKey)
	scanCmd.Flags().String(outputFlagName, defaultOutput, "json 导出文件路径，为空时不导出")
	bindFlagToConfig(state.config, scanCmd.Flags().Lookup(outputFlagName), outputKey)
	scanCmd.Flags().String(modeFlagName, defaultMode, "扫描模式: legacy 或 corrected")
	bindFlagToConfig(state.config, scanCmd.Flags().Lookup(modeFlagName), modeKey)
	scanCmd.Flags().Int(workersFlagName, defaultWorkers, "并发 worker 数量，1 表示顺序扫描")
	bindFlagToConfig(state.config, scanCmd.Flags().Lookup(workersFlagName), workersKey)

	return scanCmd
}
