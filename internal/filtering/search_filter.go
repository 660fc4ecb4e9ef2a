package filtering

import (
	"context"

	"github.com/spigell/nearhire/internal/roster"
)

type searchFilter[T roster.Entity] struct {
	text     string
	category roster.Category
	refused  string
}

// NewSearch creates the text and category step. Both conditions always apply together.
func NewSearch[T roster.Entity](text string, category roster.Category) Filter[T] {
	return &searchFilter[T]{
		text:     text,
		category: category,
	}
}

func (f *searchFilter[T]) Name() string { return "search" }

// Disable is refused: text and category always apply together. The attempt is
// reported through Status.
func (f *searchFilter[T]) Disable(reason string) {
	f.refused = reason
}

func (f *searchFilter[T]) IsEnabled() bool { return true }

func (f *searchFilter[T]) Validate() error { return nil }

func (f *searchFilter[T]) Apply(_ context.Context, items []T) ([]T, Step, error) {
	result := roster.Search(items, f.text, f.category)
	return result, newStep(items, result), nil
}

func (f *searchFilter[T]) Status() Status {
	details := map[string]string{
		"category": f.category.String(),
	}
	if f.text != "" {
		details["text"] = f.text
	}
	status := Status{Name: f.Name(), Enabled: true, Details: details}
	if f.refused != "" {
		status.Reason = "cannot be disabled (requested: " + f.refused + ")"
	}
	return status
}
