package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/templo-cli/internal/apperr"
	"github.com/YangQing-Lin/templo-cli/internal/i18n"
	"github.com/YangQing-Lin/templo-cli/internal/namespace"
)

var (
	saveName        string
	saveRepo        string
	saveDescription string
	saveExclude     []string
)

var saveCmd = &cobra.Command{
	Use:   "save [dir]",
	Short: "Save a directory as a template",
	Long: `Save dir (default: current directory) as a template.

Missing name, repository and description are asked for interactively. An
empty repository answer means "main"; an empty description means none.

Examples:
  templo save --name api ./service
  templo save -n api -r work -d "HTTP service skeleton" ./service
  templo save -n web -e node_modules/ -e "**/*.log"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		return runSave(cmd, dir)
	},
}

func init() {
	saveCmd.Flags().StringVarP(&saveName, "name", "n", "", "template name")
	saveCmd.Flags().StringVarP(&saveRepo, "repo", "r", "", "repository (default \"main\")")
	saveCmd.Flags().StringVarP(&saveDescription, "description", "d", "", "template description")
	saveCmd.Flags().StringArrayVarP(&saveExclude, "exclude", "e", nil, "glob of paths to leave out (repeatable)")

	rootCmd.AddCommand(saveCmd)
}

func runSave(cmd *cobra.Command, dir string) error {
	start := time.Now()
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	if err := namespace.ValidatePath(dir); err != nil {
		return err
	}

	p := newPrompter(cmd)
	name, repo, description := saveName, saveRepo, saveDescription

	if !cmd.Flags().Changed("name") {
		if name, err = p.promptInput(i18n.T("prompt.template_name")); err != nil {
			return apperr.Wrap(apperr.ErrInternal, err, "read template name")
		}
	}
	if err := namespace.ValidateTemplateName(name); err != nil {
		return err
	}

	if !cmd.Flags().Changed("repo") {
		if repo, err = p.promptInput(i18n.T("prompt.repository")); err != nil {
			return apperr.Wrap(apperr.ErrInternal, err, "read repository")
		}
	}
	if repo == "" {
		repo = namespace.DefaultRepository
	}

	if !cmd.Flags().Changed("description") {
		if description, err = p.promptInput(i18n.T("prompt.description")); err != nil {
			return apperr.Wrap(apperr.ErrInternal, err, "read description")
		}
	}
	var desc *string
	if description != "" {
		desc = &description
	}

	store, err := env.openStore(repo)
	if err != nil {
		return err
	}
	t, err := env.maker(saveExclude).Make(name, dir, desc)
	if err != nil {
		return err
	}
	if err := store.SaveTemplate(t); err != nil {
		return err
	}

	env.success(i18n.T("template_saved", t.Name, store.Name()))
	env.doneIn(start)
	return nil
}
