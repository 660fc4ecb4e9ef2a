package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/nearhire/internal/explorer"
	"github.com/spigell/nearhire/internal/roster"
	"github.com/spigell/nearhire/internal/utils"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Find jobs around your location",
	Run: func(cmd *cobra.Command, _ []string) {
		runJobs(cmd)
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)

	jobsCmd.Flags().String("place", "", "look for jobs around this place instead of the current location")
	jobsCmd.Flags().Float64("radius", 0, "search radius in km (default is jobs.radius-km from the config)")
	jobsCmd.Flags().StringP("skill", "s", "", "only show jobs for this trade")
}

func runJobs(cmd *cobra.Command) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger, config := setup()

	jobsConfig := config.Jobs
	if jobsConfig == nil {
		jobsConfig = &JobsConfig{}
	}

	radius := jobsConfig.RadiusKm
	if flagRadius, _ := cmd.Flags().GetFloat64("radius"); flagRadius > 0 {
		radius = flagRadius
	}

	board := roster.NewJobBoard(roster.JobBoardConfig{
		Count:         jobsConfig.Count,
		SpreadDegrees: jobsConfig.SpreadDegrees,
		Seed:          jobsConfig.Seed,
	}, logger)

	ex, err := explorer.New[*roster.Job](board, explorer.Config{
		Fallback: config.LocationFallback,
		RadiusKm: radius,
	}, logger)
	if err != nil {
		logger.Fatal("creating explorer", zap.Error(err))
	}

	skill, err := parseSkill(cmd.Flag("skill").Value.String())
	if err != nil {
		logger.Fatal("parsing skill", zap.Error(err))
	}
	ex.SetCategory(skill)

	locate(ctx, ex, config, logger)

	if place, _ := cmd.Flags().GetString("place"); place != "" {
		geocoder, err := newGeocoder(config, logger)
		if err != nil {
			logger.Fatal("loading places", zap.Error(err))
		}
		if out := ex.SearchPlace(ctx, geocoder, place); !out.Changed {
			logger.Warn("place not found, origin unchanged", zap.String("place", place), zap.NamedError("reason", out.Reason))
		}
	}

	view, err := ex.View(ctx)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	logger.Info("viewport", viewportFields(view.Viewport)...)
	logger.Info("jobs around",
		zap.String("batch_id", board.BatchID()),
		zap.Stringer("origin", view.Origin),
		zap.Float64("radius_km", radius),
		zap.Int("count", len(view.Items)),
	)

	for _, job := range view.Items {
		fmt.Printf("%-12s %-12s %-8s %-11s %s\n", job.Title, job.Company, job.SalaryLabel, job.PostedLabel, job.Type)
		logger.Debug("job", zap.String("id", job.ID), zap.String("description", utils.TruncateForLog(job.Description, 48)))
	}
}
