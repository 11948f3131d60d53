package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

// newInitCmd 创建 init 子命令，把当前默认值写成可编辑的配置文件。
// 目标文件已存在时报错，不会覆盖。
func newInitCmd(state *appState) *cobra.Command {
	var directory string

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "生成默认的 " + configFileName + " 配置文件",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			targetPath := filepath.Join(directory, configFileName)

			if err := state.config.SafeWriteConfigAs(targetPath); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			cmd.Printf("config written to %s\n", targetPath)
			return nil
		},
	}

	initCmd.Flags().StringVar(&directory, "dir", configFolderPath, "配置文件所在目录")
	return initCmd
}
