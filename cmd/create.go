package cmd

import (
	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/templo-cli/internal/i18n"
	"github.com/YangQing-Lin/templo-cli/internal/namespace"
	"github.com/YangQing-Lin/templo-cli/internal/template"
)

var createForce bool

var createCmd = &cobra.Command{
	Use:   "create <namespace> [dir]",
	Short: "Write a template's files into a directory",
	Long: `Write the files of a template into dir (default: current directory).

Existing files are never overwritten unless --force is given; nothing is
written when any file would collide.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCreate(cmd, args)
	},
}

func init() {
	createCmd.Flags().BoolVarP(&createForce, "force", "f", false, "overwrite existing files")

	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	ns, store, err := env.resolve(args[0])
	if err != nil {
		return err
	}
	t, err := store.GetTemplate(ns.Template)
	if err != nil {
		return err
	}

	dir := "."
	if len(args) == 2 {
		dir = args[1]
	}
	if err := namespace.ValidatePath(dir); err != nil {
		return err
	}
	written, err := template.ApplyTemplate(t, dir, createForce)
	if err != nil {
		return err
	}
	env.logger.Debug("template applied", "template", ns.String(), "dir", dir, "files", len(written))

	env.success(i18n.T("template_created", len(written), ns.String(), dir))
	return nil
}
