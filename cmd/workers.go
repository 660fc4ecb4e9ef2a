package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/nearhire/internal/explorer"
	"github.com/spigell/nearhire/internal/filtering"
	"github.com/spigell/nearhire/internal/lookup"
	"github.com/spigell/nearhire/internal/roster"
)

var workersPrompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptInstantHire, PromptHireListed, PromptReportByCategory, PromptDumpToFile, PromptExit},
}

var workersCmd = &cobra.Command{
	Use:   "workers",
	Short: "Find skilled workers near a place",
	Run: func(cmd *cobra.Command, _ []string) {
		runWorkers(cmd)
	},
}

func init() {
	rootCmd.AddCommand(workersCmd)

	workersCmd.Flags().StringP("query", "q", "", "text to look for in worker names and locations")
	workersCmd.Flags().StringP("skill", "s", "", "only show this trade (asks when empty and not --yes)")
	workersCmd.Flags().Float64("radius", 0, "only show workers within this many km (0 disables the radius)")
	workersCmd.Flags().String("near", "", "place to measure the radius from (default is the current location)")
	workersCmd.Flags().Bool("verified", false, "only show verified workers")
	workersCmd.Flags().Float64("min-score", 0, "only show workers with at least this score")
	workersCmd.Flags().String("voice", "", "transcript file used as the search query")
	workersCmd.Flags().Bool("dump", false, "dump the results to a temp file")
	workersCmd.Flags().BoolP("yes", "y", false, "do not ask for anything")
}

func runWorkers(cmd *cobra.Command) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger, config := setup()
	flags := cmd.Flags()

	workers, err := roster.LoadWorkersFile(config.RosterFile, config.FallbackOrigin, logger)
	if err != nil {
		logger.Fatal("loading roster", zap.Error(err))
	}
	static := roster.Static[*roster.Worker](workers)
	logger.Info("roster loaded", zap.Int("workers", static.Len()))

	ex, err := explorer.New[*roster.Worker](static, explorer.Config{Fallback: config.FallbackOrigin}, logger)
	if err != nil {
		logger.Fatal("creating explorer", zap.Error(err))
	}

	yes, _ := flags.GetBool("yes")
	query, _ := flags.GetString("query")
	ex.SetQuery(query)

	if voice, _ := flags.GetString("voice"); voice != "" {
		if out := ex.Listen(ctx, lookup.TranscriptFile{Path: voice}); out.Reason != nil {
			logger.Warn("voice query ignored", zap.Error(out.Reason))
		}
	}

	skillValue, _ := flags.GetString("skill")
	skill, err := parseSkill(skillValue)
	if err != nil {
		logger.Fatal("parsing skill", zap.Error(err))
	}
	if skillValue == "" && !yes {
		if skill, err = promptCategory("Choose a skill", ex.Categories()); err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
	}
	ex.SetCategory(skill)

	radius, _ := flags.GetFloat64("radius")
	if radius > 0 {
		if err := ex.SetRadius(radius); err != nil {
			logger.Fatal("setting radius", zap.Error(err))
		}
		applyOrigin(ctx, cmd, ex, config, logger)
	}

	verified, _ := flags.GetBool("verified")
	minScore, _ := flags.GetFloat64("min-score")

	view, err := ex.View(ctx, filtering.NewVerified(verified), filtering.NewMinScore(minScore))
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	logger.Info("viewport", viewportFields(view.Viewport)...)
	if len(view.Items) == 0 {
		logger.Info("exiting", zap.String("reason", "no workers found"))
		return
	}
	printWorkers(view.Items)

	if dump, _ := flags.GetBool("dump"); dump {
		if err := handleWorkersAction(ctx, PromptDumpToFile, skill, view.Items, logger); err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
	}
	if yes {
		return
	}

	for {
		_, action, err := workersPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleWorkersAction(ctx, action, skill, view.Items, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

// applyOrigin sets the radius origin from --near, falling back to the device location.
func applyOrigin(ctx context.Context, cmd *cobra.Command, ex *explorer.Explorer[*roster.Worker], config *Config, logger *zap.Logger) {
	near, _ := cmd.Flags().GetString("near")
	if near != "" {
		geocoder, err := newGeocoder(config, logger)
		if err != nil {
			logger.Fatal("loading places", zap.Error(err))
		}
		if out := ex.SearchPlace(ctx, geocoder, near); out.Changed {
			return
		}
		logger.Warn("place not found, using current location", zap.String("near", near))
	}

	locate(ctx, ex, config, logger)
}

func handleWorkersAction(ctx context.Context, action string, skill roster.Category, workers []*roster.Worker, logger *zap.Logger) error {
	switch action {
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	case PromptReportByCategory:
		pretty, _ := json.MarshalIndent(roster.ReportByCategory(workers), "", "  ")
		logger.Info(string(pretty), zap.Int("workers count", len(workers)))
		return nil
	case PromptDumpToFile:
		filename, err := roster.DumpToTmpFile("nearhire-workers-*.json", workers)
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptInstantHire:
		return runMatch(ctx, skill, false, logger)
	case PromptHireListed:
		return hireListed(ctx, workers, logger)
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// hireListed lets the user pick one of the shown workers and starts an
// instant hire for that worker's trade.
func hireListed(ctx context.Context, workers []*roster.Worker, logger *zap.Logger) error {
	items := make([]string, 0, len(workers)+1)
	for _, w := range workers {
		items = append(items, workerLabel(w))
	}

	selector := promptui.Select{
		Label: "Choose a worker and press ENTER",
		Items: append(items, PromptBack),
	}
	_, selected, err := selector.Run()
	if err != nil {
		return err
	}
	if selected == PromptBack {
		return nil
	}

	worker, err := pickWorker(workers, selected)
	if err != nil {
		return err
	}

	logger.Info("hiring listed worker", zap.String("worker_id", worker.ID), zap.String("worker", worker.Name))
	return runMatch(ctx, worker.Category, false, logger)
}

func workerLabel(w *roster.Worker) string {
	return fmt.Sprintf("%s %s / %s / %s", w.ID, w.Name, w.Category, w.LocationLabel)
}

// pickWorker resolves a label produced by workerLabel back to its worker.
func pickWorker(workers []*roster.Worker, label string) (*roster.Worker, error) {
	id, _, _ := strings.Cut(label, " ")
	worker, ok := roster.FindByID(workers, id)
	if !ok {
		return nil, fmt.Errorf("there is no such worker id %s", id)
	}
	return worker, nil
}

func printWorkers(workers []*roster.Worker) {
	for _, w := range workers {
		badge := ""
		if w.Verified {
			badge = " [verified]"
		}
		fmt.Printf("%s  %-16s %-12s %-16s %s%s\n", w.ID, w.Name, w.Category, w.LocationLabel, formatScore(w.Score), badge)
	}
}
