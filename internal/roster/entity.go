package roster

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spigell/nearhire/internal/geo"
)

// Entity is the shape shared by workers and jobs.
type Entity interface {
	geo.Located
	// Key is the stable identifier of the entity.
	Key() string
	Trade() Category
	// Label is the name-like text matched by search.
	Label() string
	// Place is the location-like text matched by search.
	Place() string
	Summary() map[string]string
}

// Worker is a skilled worker available for hire.
type Worker struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Category      Category        `json:"category"`
	LocationLabel string          `json:"location"`
	Coordinates   geo.Coordinates `json:"coordinates"`
	Score         float64         `json:"score"`
	Verified      bool            `json:"verified"`
	ImageRef      string          `json:"image,omitempty"`
}

func (w *Worker) Key() string                { return w.ID }
func (w *Worker) Position() geo.Coordinates { return w.Coordinates }
func (w *Worker) Trade() Category           { return w.Category }
func (w *Worker) Label() string             { return w.Name }
func (w *Worker) Place() string             { return w.LocationLabel }

func (w *Worker) Summary() map[string]string {
	return map[string]string{
		"id":       w.ID,
		"name":     w.Name,
		"location": w.LocationLabel,
		"score":    strconv.FormatFloat(w.Score, 'f', 1, 64),
		"verified": strconv.FormatBool(w.Verified),
	}
}

// Job is an open position near an origin. Jobs only live as long as their batch.
type Job struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Category     Category        `json:"category"`
	Company      string          `json:"company"`
	Coordinates  geo.Coordinates `json:"coordinates"`
	SalaryLabel  string          `json:"salary"`
	Type         string          `json:"type"`
	PostedLabel  string          `json:"posted"`
	Description  string          `json:"description"`
	Requirements []string        `json:"requirements"`
}

func (j *Job) Key() string                { return j.ID }
func (j *Job) Position() geo.Coordinates { return j.Coordinates }
func (j *Job) Trade() Category           { return j.Category }
func (j *Job) Label() string             { return j.Title }
func (j *Job) Place() string             { return j.Company }

func (j *Job) Summary() map[string]string {
	return map[string]string{
		"id":           j.ID,
		"title":        j.Title,
		"company":      j.Company,
		"salary":       j.SalaryLabel,
		"type":         j.Type,
		"posted":       j.PostedLabel,
		"requirements": strings.Join(j.Requirements, "; "),
	}
}

// FindByID returns the entity with the given key or the zero value.
func FindByID[T Entity](items []T, id string) (T, bool) {
	for _, item := range items {
		if item.Key() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Static is a roster that does not depend on the origin.
type Static[T Entity] []T

// Snapshot returns a copy of the roster so callers cannot reorder the source.
func (s Static[T]) Snapshot(*geo.Coordinates) []T {
	return append([]T(nil), s...)
}

func (s Static[T]) Len() int { return len(s) }

func describe(e Entity) string {
	return fmt.Sprintf("%s (%s)", e.Label(), e.Key())
}
