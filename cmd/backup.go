package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/templo-cli/internal/i18n"
	"github.com/YangQing-Lin/templo-cli/internal/namespace"
)

// backupCmd represents the backup command
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "List and restore repository backups",
	Long: `List and restore repository backups.

The storage file of a repository is copied before every change; the
backups.retain setting decides how many copies are kept.

Subcommands:
  templo backup list [repository]            # list backups (default: main)
  templo backup restore <id> [repository]    # restore from a backup`,
}

var backupListCmd = &cobra.Command{
	Use:     "list [repository]",
	Aliases: []string{"ls"},
	Short:   "List backups of a repository, newest first",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBackupList(cmd, repoArg(args, 0))
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <id> [repository]",
	Short: "Restore a repository from a backup",
	Long: `Replace the storage file of a repository with a backup.

The current state is backed up first, so a restore can itself be undone
with the ID it prints.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBackupRestore(cmd, args[0], repoArg(args, 1))
	},
}

func init() {
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)

	rootCmd.AddCommand(backupCmd)
}

func repoArg(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return namespace.DefaultRepository
}

func runBackupList(cmd *cobra.Command, repo string) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	store, err := env.openStore(repo)
	if err != nil {
		return err
	}
	backups, err := store.Backups()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		fmt.Fprintln(env.out, i18n.T("no_backups", store.Name()))
		return nil
	}

	dim := color.New(color.FgHiBlack)
	for _, b := range backups {
		fmt.Fprintf(env.out, "%-40s ", b.ID)
		dim.Fprintf(env.out, "%s  %s\n", b.Timestamp.Local().Format("2006-01-02 15:04:05"), humanize.Bytes(uint64(b.Size)))
	}
	return nil
}

func runBackupRestore(cmd *cobra.Command, id, repo string) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	store, err := env.openStore(repo)
	if err != nil {
		return err
	}
	safety, err := store.Restore(id)
	if err != nil {
		return err
	}
	env.success(i18n.T("backup_restored", store.Name(), id, safety))
	return nil
}
