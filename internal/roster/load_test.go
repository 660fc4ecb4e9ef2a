package roster

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/nearhire/internal/geo"
)

const mixedRoster = `
workers:
  - id: 10
    name: Anil Rao
    skill: Welder
    location: Pune, India
    lat: 18.5204
    lng: 73.8567
    score: 4
    verified: true
  - id: 11
    name: No Coordinates
    skill: Mason
    location: Somewhere
    score: 3.5
  - id: 12
    name: Broken Coordinates
    skill: Painter
    location: Nowhere
    lat: 123.4
    lng: 10
    score: 2.1
  - id: 13
    name: Unknown Trade
    skill: Astronaut
    lat: 1
    lng: 1
  - id: 14
    name: Score Too High
    skill: Plumber
    lat: 1
    lng: 1
    score: 7
`

func TestLoadWorkersNormalizesAndSkips(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.WarnLevel)
	workers, err := LoadWorkers(strings.NewReader(mixedRoster), delhi, zap.New(core))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(workers) != 3 {
		t.Fatalf("expected 3 workers, got %d: %v", len(workers), names(workers))
	}

	if workers[0].ID != "10" || workers[0].Category != Welder {
		t.Fatalf("unexpected first worker: %+v", workers[0])
	}
	if workers[0].Coordinates != (geo.Coordinates{Lat: 18.5204, Lon: 73.8567}) {
		t.Fatalf("expected own coordinates, got %s", workers[0].Coordinates)
	}
	if workers[0].Score != 4 {
		t.Fatalf("expected score 4, got %v", workers[0].Score)
	}

	for _, w := range workers[1:] {
		if w.Coordinates != delhi {
			t.Fatalf("expected fallback origin for %s, got %s", w.Name, w.Coordinates)
		}
	}

	if got := observed.FilterMessage("skipping invalid roster record").Len(); got != 2 {
		t.Fatalf("expected 2 skipped records, got %d", got)
	}
	if got := observed.FilterMessage("roster record has no usable coordinates, using fallback origin").Len(); got != 2 {
		t.Fatalf("expected 2 fallback warnings, got %d", got)
	}
}

func TestLoadWorkersEmptyAndMalformed(t *testing.T) {
	t.Parallel()

	workers, err := LoadWorkers(strings.NewReader(""), delhi, nil)
	if err != nil {
		t.Fatalf("unexpected error for empty document: %v", err)
	}
	if len(workers) != 0 {
		t.Fatalf("expected no workers, got %d", len(workers))
	}

	if _, err := LoadWorkers(strings.NewReader("workers: [ {"), delhi, nil); err == nil {
		t.Fatalf("expected an error for malformed yaml")
	}
}

func TestLoadWorkersFileMissing(t *testing.T) {
	t.Parallel()

	if _, err := LoadWorkersFile("/nonexistent/roster.yaml", delhi, nil); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestLoadWorkersBlankCoordinatesUseFallback(t *testing.T) {
	t.Parallel()

	doc := `
workers:
  - id: 20
    name: Blank Coordinates
    skill: Welder
    lat: ""
    lng: " "
    score: 4
`
	workers, err := LoadWorkers(strings.NewReader(doc), delhi, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(workers) != 1 || workers[0].Coordinates != delhi {
		t.Fatalf("expected fallback origin, got %+v", workers)
	}
}

func TestLoadWorkersSkipsDuplicateIDs(t *testing.T) {
	t.Parallel()

	doc := `
workers:
  - id: 7
    name: First
    skill: Mason
    lat: 28.6
    lng: 77.2
  - id: "7"
    name: Second
    skill: Painter
    lat: 28.6
    lng: 77.2
  - id: 8
    name: Third
    skill: Painter
    lat: 28.6
    lng: 77.2
`
	core, observed := observer.New(zapcore.WarnLevel)
	workers, err := LoadWorkers(strings.NewReader(doc), delhi, zap.New(core))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := names(workers); len(got) != 2 || got[0] != "First" || got[1] != "Third" {
		t.Fatalf("expected [First Third], got %v", got)
	}
	if got := observed.FilterMessage("skipping roster record with duplicate id").Len(); got != 1 {
		t.Fatalf("expected 1 duplicate warning, got %d", got)
	}
}
