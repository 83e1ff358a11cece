package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/templo-cli/internal/portable"
)

// portableCmd represents the portable command
var portableCmd = &cobra.Command{
	Use:     "portable [status|enable|disable]",
	Aliases: []string{"port"},
	Short:   "便携版模式管理",
	Long: `便携版模式管理命令。

便携版模式说明:
  - 在程序所在目录下放置 portable.ini 文件即可启用便携版模式
  - 便携版模式下，仓库和设置存储在程序目录的 .templo 子目录中
  - --home 和 TEMPLO_HOME 优先于便携版模式

使用方法:
  templo portable [status]  # 查看便携版状态（默认）
  templo portable enable    # 启用便携版模式（创建 portable.ini）
  templo portable disable   # 禁用便携版模式（删除 portable.ini）`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPortableStatus(cmd)
	},
}

var portableStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "查看便携版模式状态",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPortableStatus(cmd)
	},
}

var portableEnableCmd = &cobra.Command{
	Use:     "enable",
	Aliases: []string{"on"},
	Short:   "启用便携版模式",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		marker, err := portable.Enable()
		if err != nil {
			return fmt.Errorf("创建 portable.ini 失败: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ 便携版模式已启用\n  标记文件: %s\n", marker)
		return nil
	},
}

var portableDisableCmd = &cobra.Command{
	Use:     "disable",
	Aliases: []string{"off"},
	Short:   "禁用便携版模式",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		marker, err := portable.Disable()
		if err != nil {
			return fmt.Errorf("删除 portable.ini 失败: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ 便携版模式已禁用\n  已删除: %s\n", marker)
		fmt.Fprintln(cmd.OutOrStdout(), "提示：便携版数据仍然保留在程序目录中")
		return nil
	},
}

func init() {
	portableCmd.AddCommand(portableStatusCmd)
	portableCmd.AddCommand(portableEnableCmd)
	portableCmd.AddCommand(portableDisableCmd)

	rootCmd.AddCommand(portableCmd)
}

func runPortableStatus(cmd *cobra.Command) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	out := env.out

	if portable.IsPortableMode() {
		fmt.Fprintln(out, "✓ 便携版模式：已启用")
	} else {
		fmt.Fprintln(out, "✗ 便携版模式：未启用")
	}
	if marker, err := portable.MarkerPath(); err == nil {
		fmt.Fprintf(out, "标记文件: %s\n", marker)
	}

	root, err := env.paths.AppLocalRoot()
	if err != nil {
		return err
	}
	repos, err := env.paths.RepositoriesRoot()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "数据目录: %s\n", root)
	fmt.Fprintf(out, "仓库目录: %s\n", repos)
	return nil
}
