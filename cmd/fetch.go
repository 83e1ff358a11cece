package cmd

import (
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/templo-cli/internal/i18n"
	"github.com/YangQing-Lin/templo-cli/internal/namespace"
	"github.com/YangQing-Lin/templo-cli/internal/template"
)

var (
	fetchRepo string
	fetchName string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <remote-template>",
	Short: "Copy a remote template into a local repository",
	Long: `Download a remote template and save it as a local one.

The copy gets a new ID and creation time and belongs to no one. Use --name
to save it under a different name.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(cmd, args[0])
	},
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchRepo, "repo", "r", namespace.DefaultRepository, "repository to save into")
	fetchCmd.Flags().StringVarP(&fetchName, "name", "n", "", "local template name (default: remote name)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, name string) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	localName := fetchName
	if localName == "" {
		localName = name
	}
	if err := namespace.ValidateTemplateName(localName); err != nil {
		return err
	}
	store, err := env.openStore(fetchRepo)
	if err != nil {
		return err
	}

	client, err := env.remoteClient()
	if err != nil {
		return err
	}
	remoteTemplate, err := client.FetchTemplate(cmd.Context(), name)
	if err != nil {
		return err
	}

	local := remoteTemplate.Clone()
	local.ID = uuid.NewString()
	local.Name = localName
	local.CreatedAt = time.Now().UTC()
	local.UpdatedAt = nil
	local.Type = template.TypeLocal
	local.Owner = ""
	if err := store.SaveTemplate(local); err != nil {
		return err
	}

	env.success(i18n.T("template_fetched", name, localName, store.Name()))
	return nil
}
