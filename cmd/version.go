package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/templo-cli/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "templo 版本: %s\n", version.GetVersion())

		if version.GetBuildDate() != "unknown" {
			fmt.Fprintf(out, "构建日期: %s\n", version.GetBuildDate())
		}
		if version.GetGitCommit() != "unknown" {
			fmt.Fprintf(out, "Git 提交: %s\n", version.GetGitCommit())
		}
		fmt.Fprintf(out, "平台: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
