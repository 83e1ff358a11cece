package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/templo-cli/internal/i18n"
	"github.com/YangQing-Lin/templo-cli/internal/repository"
)

var repoCmd = &cobra.Command{
	Use:     "repository [name]",
	Aliases: []string{"repo"},
	Short:   "List repositories, or the templates of one",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRepo(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(repoCmd)
}

func runRepo(cmd *cobra.Command, args []string) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		store, err := env.openStore(args[0])
		if err != nil {
			return err
		}
		templates, err := store.ListTemplates()
		if err != nil {
			return err
		}
		if len(templates) == 0 {
			fmt.Fprintln(env.out, i18n.T("repository_empty", store.Name()))
			return nil
		}
		for _, t := range templates {
			fmt.Fprintln(env.out, t.Name)
		}
		return nil
	}

	names, err := repository.ListRepositories(env.paths)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(env.out, i18n.T("no_repositories"))
		return nil
	}

	bar := color.New(color.FgHiBlack)
	for _, name := range names {
		store, err := env.openStore(name)
		if err != nil {
			return err
		}
		templates, err := store.ListTemplates()
		if err != nil {
			return err
		}
		fmt.Fprint(env.out, name)
		bar.Fprintf(env.out, " (%d)\n", len(templates))
	}
	return nil
}
