package cmd

import (
	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/templo-cli/internal/account"
	"github.com/YangQing-Lin/templo-cli/internal/apperr"
	"github.com/YangQing-Lin/templo-cli/internal/i18n"
)

var loginUsername string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the remote registry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogin(cmd)
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "account name")

	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	p := newPrompter(cmd)
	username := loginUsername
	if username == "" {
		if username, err = p.promptInput(i18n.T("prompt.username")); err != nil {
			return apperr.Wrap(apperr.ErrInternal, err, "read username")
		}
	}
	password, err := p.promptSecret(i18n.T("prompt.password"))
	if err != nil {
		return apperr.Wrap(apperr.ErrInternal, err, "read password")
	}
	if username == "" || password == "" {
		return apperr.InvalidInput("username and password are required")
	}

	client, err := env.remoteClient()
	if err != nil {
		return err
	}
	resp, err := client.Authenticate(cmd.Context(), username, password)
	if err != nil {
		return err
	}
	if !resp.Authenticated {
		return apperr.InvalidInput("login refused: %s", resp.Message)
	}
	key, err := resp.AccountKey()
	if err != nil {
		return err
	}

	path, err := env.accountPath()
	if err != nil {
		return err
	}
	if account.Exists(path) {
		if prev, err := account.Load(path); err == nil && prev.Username != key.Username {
			env.logger.Warn("replacing saved account", "previous", prev.Username, "username", key.Username)
		}
	}
	if err := account.Save(path, key); err != nil {
		return err
	}
	env.success(i18n.T("logged_in", key.Username))
	return nil
}
