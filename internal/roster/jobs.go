package roster

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/nearhire/internal/geo"
)

const (
	defaultJobCount      = 15
	defaultSpreadDegrees = 0.15
)

var (
	jobTitles       = []Category{Electrician, Plumber, Carpenter, Painter, Welder, Mechanic}
	jobRequirements = []string{"3+ years experience", "Valid License", "Own tools"}
)

// JobBoardConfig controls how job batches are generated.
type JobBoardConfig struct {
	Count int
	// SpreadDegrees is the full width of the square around the origin jobs are placed in.
	SpreadDegrees float64
	// Seed makes batches reproducible. Zero picks a random seed.
	Seed uint64
}

// JobBoard produces a fresh batch of jobs around the origin every time the origin changes.
type JobBoard struct {
	count  int
	spread float64
	rng    *rand.Rand
	logger *zap.Logger

	origin  *geo.Coordinates
	batchID string
	batch   []*Job
}

// NewJobBoard creates a board. Non-positive settings fall back to the defaults.
func NewJobBoard(cfg JobBoardConfig, logger *zap.Logger) *JobBoard {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Count <= 0 {
		cfg.Count = defaultJobCount
	}
	if cfg.SpreadDegrees <= 0 {
		cfg.SpreadDegrees = defaultSpreadDegrees
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	return &JobBoard{
		count:  cfg.Count,
		spread: cfg.SpreadDegrees,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		logger: logger,
	}
}

// Snapshot returns the jobs around origin, generating a new batch when origin differs
// from the previous call. There are no jobs without an origin.
func (b *JobBoard) Snapshot(origin *geo.Coordinates) []*Job {
	if origin == nil {
		return []*Job{}
	}

	if b.origin == nil || *b.origin != *origin {
		at := *origin
		b.origin = &at
		b.batchID = uuid.NewString()
		b.batch = b.generate(at)

		b.logger.Debug("generated job batch",
			zap.String("batch_id", b.batchID),
			zap.Stringer("origin", at),
			zap.Int("jobs", len(b.batch)),
		)
	}

	return append([]*Job(nil), b.batch...)
}

// BatchID identifies the current batch. It is empty before the first origin.
func (b *JobBoard) BatchID() string { return b.batchID }

func (b *JobBoard) generate(origin geo.Coordinates) []*Job {
	jobs := make([]*Job, 0, b.count)
	for i := 0; i < b.count; i++ {
		dLat := (b.rng.Float64() - 0.5) * b.spread
		dLon := (b.rng.Float64() - 0.5) * b.spread
		title := jobTitles[b.rng.IntN(len(jobTitles))]

		jobs = append(jobs, &Job{
			ID:           fmt.Sprintf("%s-%d", b.batchID, i),
			Title:        title.String(),
			Category:     title,
			Company:      fmt.Sprintf("Company %d", i+1),
			Coordinates:  geo.Offset(origin, dLat, dLon),
			SalaryLabel:  fmt.Sprintf("$%d/hr", 20+b.rng.IntN(30)),
			Type:         "Full-time",
			PostedLabel:  postedLabel(1 + b.rng.IntN(5)),
			Description:  fmt.Sprintf("We are looking for a skilled %s to join our team. Must have experience and valid certification.", title),
			Requirements: append([]string(nil), jobRequirements...),
		})
	}
	return jobs
}

func postedLabel(days int) string {
	if days == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}
