package filtering

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/nearhire/internal/geo"
	"github.com/spigell/nearhire/internal/roster"
)

var delhi = geo.Coordinates{Lat: 28.6139, Lon: 77.2090}

func testWorkers() []*roster.Worker {
	return []*roster.Worker{
		{ID: "1", Name: "Mike Johnson", Category: roster.Electrician, LocationLabel: "Delhi, India", Coordinates: delhi, Score: 4.8, Verified: true},
		{ID: "2", Name: "Sarah Smith", Category: roster.Plumber, LocationLabel: "Delhi, India", Coordinates: geo.Coordinates{Lat: 28.6239, Lon: 77.2190}, Score: 4.5, Verified: true},
		{ID: "4", Name: "James Brown", Category: roster.Electrician, LocationLabel: "New York, NY", Coordinates: geo.Coordinates{Lat: 40.7128, Lon: -74.0060}, Score: 4.9, Verified: true},
		{ID: "5", Name: "Emily Davis", Category: roster.Designer, LocationLabel: "Delhi, India", Coordinates: geo.Coordinates{Lat: 28.6339, Lon: 77.2290}, Score: 4.7},
		{ID: "6", Name: "Chris Martinez", Category: roster.Mason, LocationLabel: "Delhi, India", Coordinates: geo.Coordinates{Lat: 28.5939, Lon: 77.1890}, Score: 4.4, Verified: true},
	}
}

func ids(workers []*roster.Worker) []string {
	result := make([]string, 0, len(workers))
	for _, w := range workers {
		result = append(result, w.ID)
	}
	return result
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRunFilters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		steps  []Filter[*roster.Worker]
		expect []string
	}{
		{
			name:   "search only",
			steps:  []Filter[*roster.Worker]{NewSearch[*roster.Worker]("", roster.Electrician)},
			expect: []string{"1", "4"},
		},
		{
			name: "search then radius",
			steps: []Filter[*roster.Worker]{
				NewSearch[*roster.Worker]("", roster.Electrician),
				NewRadius[*roster.Worker](&delhi, 10),
			},
			expect: []string{"1"},
		},
		{
			name: "radius without origin is skipped",
			steps: []Filter[*roster.Worker]{
				NewSearch[*roster.Worker]("delhi", roster.Wildcard),
				NewRadius[*roster.Worker](nil, 10),
			},
			expect: []string{"1", "2", "5", "6"},
		},
		{
			name: "verified and minimum score",
			steps: []Filter[*roster.Worker]{
				NewSearch[*roster.Worker]("", roster.Wildcard),
				NewVerified(true),
				NewMinScore(4.5),
			},
			expect: []string{"1", "2", "4"},
		},
		{
			name: "disabled worker filters keep everything",
			steps: []Filter[*roster.Worker]{
				NewVerified(false),
				NewMinScore(0),
			},
			expect: []string{"1", "2", "4", "5", "6"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			workers := testWorkers()
			before := ids(workers)

			got, _, err := New(tt.steps, nil).RunFilters(context.Background(), workers)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !equal(ids(got), tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, ids(got))
			}
			if !equal(ids(workers), before) {
				t.Fatalf("input roster was modified: %v", ids(workers))
			}
		})
	}
}

func TestRunFiltersReportsSteps(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.DebugLevel)
	pipeline := New([]Filter[*roster.Worker]{
		NewSearch[*roster.Worker]("delhi", roster.Wildcard),
		NewRadius[*roster.Worker](nil, 5),
		NewVerified(true),
	}, zap.New(core))

	_, steps, err := pipeline.RunFilters(context.Background(), testWorkers())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(steps) != 2 {
		t.Fatalf("expected 2 executed steps, got %d", len(steps))
	}

	search := steps[0]
	if search.Name != "search" || search.Initial != 5 || search.Dropped != 1 || search.Left != 4 {
		t.Fatalf("unexpected search step: %+v", search)
	}
	if !equal(search.Excluded, []string{"4"}) {
		t.Fatalf("unexpected excluded ids: %v", search.Excluded)
	}

	verified := steps[1]
	if verified.Name != "verified" || verified.Dropped != 1 || !equal(verified.Excluded, []string{"5"}) {
		t.Fatalf("unexpected verified step: %+v", verified)
	}

	if got := observed.FilterMessage("filter step").Len(); got != 2 {
		t.Fatalf("expected 2 filter step log entries, got %d", got)
	}
	disabled := observed.FilterMessage("filter disabled").All()
	if len(disabled) != 1 || disabled[0].ContextMap()["name"] != "radius" {
		t.Fatalf("expected radius to be logged as disabled, got %v", disabled)
	}
}

func TestRunFiltersValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		step Filter[*roster.Worker]
	}{
		{name: "negative radius", step: NewRadius[*roster.Worker](&delhi, -1)},
		{name: "invalid origin", step: NewRadius[*roster.Worker](&geo.Coordinates{Lat: 100}, 1)},
		{name: "score out of range", step: NewMinScore(6)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := New([]Filter[*roster.Worker]{tt.step}, nil).RunFilters(context.Background(), testWorkers())
			if err == nil {
				t.Fatalf("expected a validation error")
			}
		})
	}
}

func TestRunFiltersHonorsContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := New([]Filter[*roster.Worker]{NewVerified(true)}, nil).RunFilters(ctx, testWorkers())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDescribeAndDisableByName(t *testing.T) {
	t.Parallel()

	pipeline := New([]Filter[*roster.Worker]{
		NewSearch[*roster.Worker]("mike", roster.Wildcard),
		NewRadius[*roster.Worker](&delhi, 10),
		NewMinScore(4),
	}, nil)

	pipeline.DisableByName("radius", "offline")

	statuses := pipeline.Describe()
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}

	if statuses[0].Details["text"] != "mike" || statuses[0].Details["category"] != "All" {
		t.Fatalf("unexpected search status: %+v", statuses[0])
	}
	if statuses[1].Enabled || statuses[1].Reason != "offline" || statuses[1].Details["radius_km"] != "10" {
		t.Fatalf("unexpected radius status: %+v", statuses[1])
	}
	if !statuses[2].Enabled || statuses[2].Details["min_score"] != "4.0" {
		t.Fatalf("unexpected min_score status: %+v", statuses[2])
	}
}

func TestSearchCannotBeDisabled(t *testing.T) {
	t.Parallel()

	pipeline := New([]Filter[*roster.Worker]{
		NewSearch[*roster.Worker]("", roster.Plumber),
	}, nil)
	pipeline.DisableByName("search", "offline")

	got, steps, err := pipeline.RunFilters(context.Background(), testWorkers())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equal(ids(got), []string{"2"}) || len(steps) != 1 {
		t.Fatalf("expected search to keep running, got %v", ids(got))
	}

	status := pipeline.Describe()[0]
	if !status.Enabled || status.Reason != "cannot be disabled (requested: offline)" {
		t.Fatalf("unexpected search status: %+v", status)
	}
}
