package cmd

import (
	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/templo-cli/internal/account"
	"github.com/YangQing-Lin/templo-cli/internal/apperr"
	"github.com/YangQing-Lin/templo-cli/internal/i18n"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		path, err := env.accountPath()
		if err != nil {
			return err
		}
		if !account.Exists(path) {
			return apperr.NotFound("not logged in")
		}
		if err := account.Remove(path); err != nil {
			return err
		}
		env.success(i18n.T("logged_out"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
