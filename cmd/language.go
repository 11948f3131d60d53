package cmd

import (
	"commentcount/internal/report"

	"github.com/spf13/cobra"
)

// newLanguageCmd 创建 language 子命令。
// 命令用于展示当前注释语法表（含配置文件追加的条目）以及默认语法。
func newLanguageCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "language",
		Short: "展示注释语法表",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return report.PrintLanguages(cmd.OutOrStdout(), state.registry.Languages())
		},
	}
}
