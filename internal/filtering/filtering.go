package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/nearhire/internal/roster"
)

// Filter represents a single filtering step applied to a roster snapshot.
// Apply must not modify the slice it receives.
type Filter[T roster.Entity] interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate() error
	Apply(ctx context.Context, items []T) ([]T, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Name     string
	Initial  int
	Dropped  int
	Left     int
	Excluded []string
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// Filtering runs a fixed list of steps in order.
type Filtering[T roster.Entity] struct {
	steps  []Filter[T]
	logger *zap.Logger
}

func New[T roster.Entity](steps []Filter[T], logger *zap.Logger) *Filtering[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Filtering[T]{steps: steps, logger: logger}
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func (f *Filtering[T]) DisableByName(name, reason string) {
	for _, step := range f.steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// RunFilters validates every enabled step and then applies them sequentially.
// Disabled steps are skipped. The input slice is left untouched.
func (f *Filtering[T]) RunFilters(ctx context.Context, items []T) ([]T, []Step, error) {
	for _, step := range f.steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	current := items
	steps := make([]Step, 0, len(f.steps))
	for _, step := range f.steps {
		if !step.IsEnabled() {
			f.logger.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		next, info, err := step.Apply(ctx, current)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
		info.Name = step.Name()

		f.logger.Debug("filter step",
			zap.String("name", info.Name),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
			zap.Strings("excluded", info.Excluded),
		)

		steps = append(steps, info)
		current = next
	}

	return current, steps, nil
}

// Describe returns status entries for the configured filters.
func (f *Filtering[T]) Describe() []Status {
	statuses := make([]Status, 0, len(f.steps))
	for _, step := range f.steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

func newStep[T roster.Entity](before, after []T) Step {
	kept := make(map[string]struct{}, len(after))
	for _, item := range after {
		kept[item.Key()] = struct{}{}
	}

	var excluded []string
	for _, item := range before {
		if _, ok := kept[item.Key()]; !ok {
			excluded = append(excluded, item.Key())
		}
	}

	return Step{
		Initial:  len(before),
		Dropped:  len(before) - len(after),
		Left:     len(after),
		Excluded: excluded,
	}
}

func keep[T roster.Entity](items []T, pred func(T) bool) []T {
	result := make([]T, 0, len(items))
	for _, item := range items {
		if pred(item) {
			result = append(result, item)
		}
	}
	return result
}
