package cmd

import (
	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/templo-cli/internal/account"
	"github.com/YangQing-Lin/templo-cli/internal/i18n"
)

var publishCmd = &cobra.Command{
	Use:   "publish <namespace>",
	Short: "Publish a local template to the remote registry",
	Long: `Publish a local template to the remote registry. Requires login.

The local record is not changed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPublish(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, arg string) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	path, err := env.accountPath()
	if err != nil {
		return err
	}
	key, err := account.Load(path)
	if err != nil {
		return err
	}

	ns, store, err := env.resolve(arg)
	if err != nil {
		return err
	}
	t, err := store.GetTemplate(ns.Template)
	if err != nil {
		return err
	}
	t.Owner = key.Username

	client, err := env.remoteClient()
	if err != nil {
		return err
	}
	if err := client.PublishTemplate(cmd.Context(), key.Key, t); err != nil {
		return err
	}
	env.success(i18n.T("template_published", t.Name))
	return nil
}
