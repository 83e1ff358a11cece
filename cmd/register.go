package cmd

import (
	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/templo-cli/internal/account"
	"github.com/YangQing-Lin/templo-cli/internal/apperr"
	"github.com/YangQing-Lin/templo-cli/internal/i18n"
)

var registerCmd = &cobra.Command{
	Use:     "register",
	Aliases: []string{"signup"},
	Short:   "Create an account on the remote registry",
	Long: `Create an account on the remote template registry.

Username, email and password are asked for interactively; each must be at
most 30 bytes. On success you are logged in.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRegister(cmd)
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	p := newPrompter(cmd)
	var data account.UserAccountData
	if data.Username, err = p.promptInput(i18n.T("prompt.username")); err != nil {
		return apperr.Wrap(apperr.ErrInternal, err, "read username")
	}
	if data.Email, err = p.promptInput(i18n.T("prompt.email")); err != nil {
		return apperr.Wrap(apperr.ErrInternal, err, "read email")
	}
	if data.Password, err = p.promptSecret(i18n.T("prompt.password")); err != nil {
		return apperr.Wrap(apperr.ErrInternal, err, "read password")
	}
	confirm, err := p.promptSecret(i18n.T("prompt.confirm_password"))
	if err != nil {
		return apperr.Wrap(apperr.ErrInternal, err, "read password")
	}
	if err := data.Validate(confirm); err != nil {
		return err
	}

	client, err := env.remoteClient()
	if err != nil {
		return err
	}
	resp, err := client.Register(cmd.Context(), data)
	if err != nil {
		return err
	}
	if !resp.Registered {
		return apperr.InvalidInput("registration refused: %s", resp.Message)
	}
	key, err := resp.AccountKey()
	if err != nil {
		return err
	}

	path, err := env.accountPath()
	if err != nil {
		return err
	}
	if err := account.Save(path, key); err != nil {
		return err
	}
	env.success(i18n.T("account_registered"))
	return nil
}
