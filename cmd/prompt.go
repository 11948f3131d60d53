package cmd

import (
	"commentcount/internal/classifier"
	"commentcount/internal/scanner"
	"commentcount/internal/session"

	"github.com/spf13/cobra"
)

// newPromptCmd 创建 prompt 子命令。
// 反复提示输入文件名并输出该文件的六项计数，输入 ctrl-d 退出。
func newPromptCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "prompt",
		Short: "交互式逐个扫描文件",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := classifier.ParseMode(state.config.GetString(modeKey))
			if err != nil {
				return err
			}

			service := scanner.NewService(state.registry, scanner.Options{
				Mode:   mode,
				Logger: state.logger,
			})
			interactive := session.New(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), service, state.logger)
			return interactive.Run(cmd.Context())
		},
	}
}
