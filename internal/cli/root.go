package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the salesdash command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "salesdash",
		Short:         "Consortium sales tracking: API server and maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		newServeCommand(),
		newImportCommand(),
		newExportCommand(),
		newInsightsCommand(),
		newSeedCommand(),
	)
	return root
}
