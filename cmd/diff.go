package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/templo-cli/internal/namespace"
	"github.com/YangQing-Lin/templo-cli/internal/template"
)

var diffExclude []string

var diffCmd = &cobra.Command{
	Use:   "diff <namespace> [dir]",
	Short: "Compare a template with a directory",
	Long: `Compare a template with dir (default: current directory).

Lines prefixed with "-" are only in the template, lines with "+" only in
the directory.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDiff(cmd, args)
	},
}

func init() {
	diffCmd.Flags().StringArrayVarP(&diffExclude, "exclude", "e", nil, "glob of paths to leave out (repeatable)")

	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	ns, store, err := env.resolve(args[0])
	if err != nil {
		return err
	}
	stored, err := store.GetTemplate(ns.Template)
	if err != nil {
		return err
	}

	dir := "."
	if len(args) == 2 {
		dir = args[1]
	}
	if err := namespace.ValidatePath(dir); err != nil {
		return err
	}
	current, err := env.maker(diffExclude).Make(ns.Template, dir, nil)
	if err != nil {
		return err
	}

	changes := template.DiffTrees(stored.FileTree, current.FileTree)
	if len(changes) == 0 {
		fmt.Fprintln(env.out, template.NoDifferences)
		return nil
	}

	header := color.New(color.Bold)
	for _, c := range changes {
		header.Fprintf(env.out, "%s %s\n", c.Kind, c.Path)
		if c.Binary {
			fmt.Fprintln(env.out, "Binary files differ")
			continue
		}
		fmt.Fprint(env.out, template.FormatDiffForCLI(c.Diff))
	}
	return nil
}
