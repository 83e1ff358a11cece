package cmd

import (
	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/templo-cli/internal/template"
)

var describeCmd = &cobra.Command{
	Use:     "describe <namespace>...",
	Aliases: []string{"desc"},
	Short:   "Show template details",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDescribe(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	templates := make([]template.Template, 0, len(args))
	for _, arg := range args {
		ns, store, err := env.resolve(arg)
		if err != nil {
			return err
		}
		t, err := store.GetTemplate(ns.Template)
		if err != nil {
			return err
		}
		templates = append(templates, *t)
	}

	template.Describe(env.out, templates)
	return nil
}
