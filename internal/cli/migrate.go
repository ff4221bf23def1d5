package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seu-repo/quest-board/internal/adapter/storage/postgres"
	"github.com/seu-repo/quest-board/internal/domain"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		if err := postgres.RunMigrations(e.db, e.log); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ schema up to date")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed-achievements",
	Short: "Insert or refresh the achievement catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		catalog := domain.DefaultAchievements()
		if err := postgres.NewAchievementRepository(e.db, e.log).Seed(cmd.Context(), catalog); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %d achievements seeded\n", len(catalog))
		return nil
	},
}
