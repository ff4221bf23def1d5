package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/seu-repo/quest-board/internal/service/importer"
)

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Preview a project file as a board without saving it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		data, err := importer.Parse(raw)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), RenderPreview(data))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "questctl %s (%s)\n", version, commit)
	},
}
