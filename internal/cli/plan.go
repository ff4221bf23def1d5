package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/seu-repo/quest-board/internal/adapter/cache"
	"github.com/seu-repo/quest-board/internal/adapter/storage/postgres"
	"github.com/seu-repo/quest-board/internal/domain"
	"github.com/seu-repo/quest-board/internal/service/board"
	"github.com/seu-repo/quest-board/internal/service/gamification"
	"github.com/seu-repo/quest-board/internal/service/importer"
	"github.com/seu-repo/quest-board/internal/service/planner"
)

var (
	planUser string
	planFile string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Replace a user's board with a project plan",
	Long: `Replaces every card and column of the user's board with the default
columns and a project plan in the backlog. The plan comes from --file, a
project JSON file, or from the built-in starter plan.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if planUser == "" {
			return fmt.Errorf("--user is required")
		}

		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		tasks := planner.InitialTasks()
		if planFile != "" {
			raw, err := os.ReadFile(planFile)
			if err != nil {
				return err
			}
			data, err := importer.Parse(raw)
			if err != nil {
				return err
			}
			tasks = importer.ToPlanTasks(data, e.cfg.Gamification.DefaultCardPoints)
		}

		b, err := generatePlan(cmd.Context(), e, planUser, tasks)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), RenderBoard(*b))
		return nil
	},
}

func generatePlan(ctx context.Context, e *env, userID string, tasks []domain.PlanTask) (*domain.Board, error) {
	local := cache.NewLocalCache(0, e.log)
	defer local.Close()

	cards := postgres.NewCardRepository(e.db, e.log)
	game := gamification.NewService(
		postgres.NewProfileRepository(e.db, e.log),
		postgres.NewAchievementRepository(e.db, e.log),
		postgres.NewUserAchievementRepository(e.db, e.log),
		cards, local, nil,
		gamification.Options{
			LevelSize: e.cfg.Gamification.LevelSize,
			MaxRounds: e.cfg.Gamification.MaxRounds,
		},
		e.log,
	)
	svc, err := board.NewService(cards, postgres.NewColumnRepository(e.db, e.log), game, nil, nil,
		board.Options{
			DoneColumnName:    e.cfg.Board.DoneColumnName,
			DefaultCardPoints: e.cfg.Gamification.DefaultCardPoints,
			RegistrySize:      1,
		}, e.log)
	if err != nil {
		return nil, err
	}

	if err := svc.GenerateProjectPlan(ctx, userID, tasks); err != nil {
		return nil, err
	}
	return svc.Load(ctx, userID)
}

func init() {
	planCmd.Flags().StringVar(&planUser, "user", "", "user id whose board is replaced")
	planCmd.Flags().StringVar(&planFile, "file", "", "project JSON file to plan from")
}
