package cmd

import (
	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/templo-cli/internal/i18n"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <namespace>...",
	Aliases: []string{"del"},
	Short:   "Delete templates",
	Long: `Delete one or more templates.

Templates are removed in order; the first failure stops the command and
keeps the remaining ones.

Examples:
  templo del api
  templo del main/api work/web`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDelete(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	for _, arg := range args {
		ns, store, err := env.resolve(arg)
		if err != nil {
			return err
		}
		if err := store.DeleteTemplate(ns.Template); err != nil {
			return err
		}
		env.success(i18n.T("template_deleted", ns.Template, ns.Repository))
	}
	return nil
}
