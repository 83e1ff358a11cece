package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/templo-cli/internal/i18n"
	"github.com/YangQing-Lin/templo-cli/internal/namespace"
	"github.com/YangQing-Lin/templo-cli/internal/repository"
	"github.com/YangQing-Lin/templo-cli/internal/template"
)

var templatesRemote bool

var templatesCmd = &cobra.Command{
	Use:     "templates",
	Aliases: []string{"ls", "list"},
	Short:   "List local (and remote) templates",
	Long: `List the templates of every repository.

Local templates are shown as <repository>/<template>. With --remote the
templates of the configured registry are listed too; if the registry
cannot be reached a warning is printed and local templates are still shown.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTemplates(cmd)
	},
}

func init() {
	templatesCmd.Flags().BoolVar(&templatesRemote, "remote", false, "include templates of the remote registry")

	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	names, err := repository.ListRepositories(env.paths)
	if err != nil {
		return err
	}

	var local []template.Template
	for _, name := range names {
		store, err := env.openStore(name)
		if err != nil {
			return err
		}
		templates, err := store.ListTemplates()
		if err != nil {
			return err
		}
		for _, t := range templates {
			t.Name = namespace.Namespace{Repository: name, Template: t.Name}.String()
			local = append(local, t)
		}
	}

	var remoteTemplates []template.Template
	if templatesRemote {
		remoteTemplates, err = listRemote(cmd, env)
		if err != nil {
			env.logger.Debug("remote listing failed", "error", err)
			color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), "%s: %s\n", i18n.T("warning"), i18n.T("remote_skipped", err))
		}
	}

	template.PrintList(env.out, template.AllTemplates(local, remoteTemplates))
	return nil
}

func listRemote(cmd *cobra.Command, env *appEnv) ([]template.Template, error) {
	client, err := env.remoteClient()
	if err != nil {
		return nil, err
	}
	return client.ListTemplates(cmd.Context())
}
