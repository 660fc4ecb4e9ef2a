package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/nearhire/internal/logger"
	"github.com/spigell/nearhire/internal/match"
	"github.com/spigell/nearhire/internal/roster"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Request an instant hire for a skill",
	Run: func(cmd *cobra.Command, _ []string) {
		logger, _ := setup()

		skill, err := parseSkill(cmd.Flag("skill").Value.String())
		if err != nil {
			logger.Fatal("parsing skill", zap.Error(err))
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if err := runMatch(cmd.Context(), skill, yes, logger); err != nil {
			logger.Fatal("instant hire", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("skill", "s", "", "trade to hire (empty means any worker)")
	matchCmd.Flags().BoolP("yes", "y", false, "call the matched worker without asking")
}

// runMatch drives one session until a worker is found or the user interrupts.
func runMatch(ctx context.Context, skill roster.Category, yes bool, base *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	events := make(chan match.Event, 8)
	session := match.NewSession(
		match.WithLogger(base),
		match.WithObserver(func(ev match.Event) {
			select {
			case events <- ev:
			default:
			}
		}),
	)

	snap := session.Open(skill)
	defer session.Close()

	log := logger.WithSession(base, snap.ID, skill.String())

	for {
		select {
		case <-ctx.Done():
			log.Info("instant hire interrupted")
			return nil
		case ev := <-events:
			log.Info("instant hire", zap.Stringer("status", ev.Status), zap.Stringer("from", ev.From))
			if ev.Status != match.Found {
				continue
			}
			return handleFound(ev.Worker, yes, session, log)
		}
	}
}

func handleFound(worker *match.Worker, yes bool, session *match.Session, logger *zap.Logger) error {
	fmt.Printf("%s (%s) %.1f km away, arrives in %s, rating %s\n",
		worker.Name, worker.Trade, worker.DistanceKm, worker.ETA, formatScore(worker.Rating))

	action := PromptCallNow
	if !yes {
		selector := promptui.Select{
			Label: "Worker found",
			Items: []string{PromptCallNow, PromptCancel},
		}
		var err error
		if _, action, err = selector.Run(); err != nil {
			return err
		}
	}

	switch action {
	case PromptCallNow:
		logger.Info("calling worker", zap.String("worker", worker.Name))
	default:
		session.Close()
		logger.Info("instant hire closed", zap.String("reason", "cancelled by user"))
	}
	return nil
}
