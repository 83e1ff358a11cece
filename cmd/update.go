package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/templo-cli/internal/apperr"
	"github.com/YangQing-Lin/templo-cli/internal/i18n"
	"github.com/YangQing-Lin/templo-cli/internal/namespace"
)

var (
	updateName             string
	updateDescription      string
	updateClearDescription bool
	updateExclude          []string
)

var updateCmd = &cobra.Command{
	Use:   "update <namespace> [dir]",
	Short: "Update a template",
	Long: `Update the content, name or description of a template.

Without flags the template content is replaced by a new snapshot of dir
(default: current directory). The template keeps its ID, name, description
and creation time.

Examples:
  templo update main/api ./service           # new content
  templo update main/api --name http-api     # rename
  templo update main/api -d "new text"       # change description
  templo update main/api --clear-description # remove description`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUpdate(cmd, args)
	},
}

func init() {
	updateCmd.Flags().StringVarP(&updateName, "name", "n", "", "new template name")
	updateCmd.Flags().StringVarP(&updateDescription, "description", "d", "", "new description")
	updateCmd.Flags().BoolVar(&updateClearDescription, "clear-description", false, "remove the description")
	updateCmd.Flags().StringArrayVarP(&updateExclude, "exclude", "e", nil, "glob of paths to leave out when updating content (repeatable)")
	updateCmd.MarkFlagsMutuallyExclusive("name", "description", "clear-description")

	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	start := time.Now()
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	ns, store, err := env.resolve(args[0])
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	metadataOnly := flags.Changed("name") || flags.Changed("description") || flags.Changed("clear-description")
	if metadataOnly && len(args) == 2 {
		return apperr.InvalidInput("a directory can only be given when updating content")
	}

	switch {
	case flags.Changed("name"):
		if err := store.UpdateTemplateName(ns.Template, updateName); err != nil {
			return err
		}
		env.success(i18n.T("template_renamed", ns.Template, updateName))

	case flags.Changed("description"):
		description := updateDescription
		if err := store.UpdateTemplateDescription(ns.Template, &description); err != nil {
			return err
		}
		env.success(i18n.T("description_updated", ns.Template))

	case updateClearDescription:
		if err := store.UpdateTemplateDescription(ns.Template, nil); err != nil {
			return err
		}
		env.success(i18n.T("description_cleared", ns.Template))

	default:
		dir := "."
		if len(args) == 2 {
			dir = args[1]
		}
		if err := namespace.ValidatePath(dir); err != nil {
			return err
		}
		current, err := store.GetTemplate(ns.Template)
		if err != nil {
			return err
		}
		next, err := env.maker(updateExclude).Make(ns.Template, dir, current.Description)
		if err != nil {
			return err
		}
		if err := store.UpdateTemplateContent(ns.Template, next); err != nil {
			return err
		}
		env.success(i18n.T("template_updated", ns.Template))
		env.doneIn(start)
	}
	return nil
}
