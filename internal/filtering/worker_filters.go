package filtering

import (
	"context"
	"fmt"

	"github.com/spigell/nearhire/internal/roster"
)

type verifiedFilter struct {
	enabled bool
	reason  string
}

// NewVerified creates a step that keeps only verified workers when only is set.
func NewVerified(only bool) Filter[*roster.Worker] {
	f := &verifiedFilter{enabled: only}
	if !only {
		f.reason = "not requested"
	}
	return f
}

func (f *verifiedFilter) Name() string { return "verified" }

func (f *verifiedFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *verifiedFilter) IsEnabled() bool { return f.enabled }

func (f *verifiedFilter) Validate() error { return nil }

func (f *verifiedFilter) Apply(_ context.Context, items []*roster.Worker) ([]*roster.Worker, Step, error) {
	result := keep(items, func(w *roster.Worker) bool { return w.Verified })
	return result, newStep(items, result), nil
}

func (f *verifiedFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason}
}

type minScoreFilter struct {
	enabled bool
	reason  string
	min     float64
}

// NewMinScore creates a step that drops workers scored below min. Zero disables it.
func NewMinScore(minScore float64) Filter[*roster.Worker] {
	f := &minScoreFilter{enabled: minScore > 0, min: minScore}
	if !f.enabled {
		f.reason = "no minimum score"
	}
	return f
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *minScoreFilter) IsEnabled() bool { return f.enabled }

func (f *minScoreFilter) Validate() error {
	if f.min < 0 || f.min > 5 {
		return fmt.Errorf("minimum score must be within [0, 5], got %.1f", f.min)
	}
	return nil
}

func (f *minScoreFilter) Apply(_ context.Context, items []*roster.Worker) ([]*roster.Worker, Step, error) {
	result := keep(items, func(w *roster.Worker) bool { return w.Score >= f.min })
	return result, newStep(items, result), nil
}

func (f *minScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.enabled,
		Reason:  f.reason,
		Details: map[string]string{"min_score": fmt.Sprintf("%.1f", f.min)},
	}
}
