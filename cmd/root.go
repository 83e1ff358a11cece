package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/YangQing-Lin/templo-cli/internal/i18n"
)

var (
	homeDir  string
	verbose  bool
	langFlag string
)

// exitFunc is replaced in tests.
var exitFunc = os.Exit

var rootCmd = &cobra.Command{
	Use:   "templo",
	Short: "Save directories as reusable templates",
	Long: `templo saves directories as reusable templates grouped in repositories.

Templates are addressed as <repository>/<template>; a bare name uses the
"main" repository.

Examples:
  templo save --name api ./service      # snapshot ./service as main/api
  templo desc main/api                  # show details
  templo create main/api ./new-service  # write the files somewhere else
  templo del main/api                   # remove it`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI and exits with status 1 on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "%s: %v\n", i18n.T("error"), err)
		stop()
		exitFunc(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "data folder (default: platform location, or $TEMPLO_HOME)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug details to stderr")
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", "", "message language (en|zh)")
}
