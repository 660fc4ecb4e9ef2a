package lookup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/nearhire/internal/geo"
)

func TestStaticResolver(t *testing.T) {
	t.Parallel()

	delhi := geo.Coordinates{Lat: 28.6139, Lon: 77.2090}

	tests := []struct {
		name     string
		resolver StaticResolver
		expect   geo.Coordinates
		err      error
	}{
		{name: "granted", resolver: StaticResolver{Position: delhi}, expect: delhi},
		{name: "denied", resolver: StaticResolver{Position: delhi, Denied: true}, err: ErrDenied},
		{name: "invalid position", resolver: StaticResolver{Position: geo.Coordinates{Lat: 91}}, err: geo.ErrInvalidCoordinates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.resolver.Resolve(context.Background())
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("expected %v, got %v", tt.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expect {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestStaticResolverHonorsContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := StaticResolver{Delay: time.Hour}.Resolve(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestGazetteerSearch(t *testing.T) {
	t.Parallel()

	g, err := LoadGazetteerFile("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Len() == 0 {
		t.Fatalf("expected built-in places")
	}

	tests := []struct {
		text   string
		expect string
	}{
		{text: "Delhi", expect: "New Delhi, Delhi, India"},
		{text: "  GURGAON ", expect: "Gurugram, Haryana, India"},
		{text: "nyc", expect: "New York, NY, United States"},
		{text: "haryana", expect: "Gurugram, Haryana, India"},
		{text: "atlantis"},
		{text: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			places, err := g.Search(context.Background(), tt.text)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.expect == "" {
				if len(places) != 0 {
					t.Fatalf("expected no places, got %v", places)
				}
				return
			}
			if len(places) != 1 || places[0].Name != tt.expect {
				t.Fatalf("expected %q, got %v", tt.expect, places)
			}
		})
	}
}

func TestLoadGazetteerSkipsInvalid(t *testing.T) {
	t.Parallel()

	doc := `
places:
  - name: Valid
    lat: "10.5"
    lon: 20
  - name: ""
    lat: 1
    lon: 1
  - name: Offworld
    lat: 120
    lon: 0
`
	core, observed := observer.New(zapcore.WarnLevel)
	g, err := LoadGazetteer(strings.NewReader(doc), zap.New(core))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Len() != 1 {
		t.Fatalf("expected 1 place, got %d", g.Len())
	}
	if observed.Len() != 2 {
		t.Fatalf("expected 2 warnings, got %d", observed.Len())
	}

	places, _ := g.Search(context.Background(), "valid")
	if len(places) != 1 || places[0].Coordinates.Lat != 10.5 {
		t.Fatalf("expected weakly typed latitude 10.5, got %v", places)
	}
}

func TestLoadGazetteerRejectsMalformed(t *testing.T) {
	t.Parallel()

	if _, err := LoadGazetteer(strings.NewReader("places: [unterminated"), nil); err == nil {
		t.Fatalf("expected a parse error")
	}
}

type countingGeocoder struct {
	calls int
}

func (c *countingGeocoder) Search(context.Context, string) ([]Place, error) {
	c.calls++
	return []Place{{Name: "x"}}, nil
}

func TestThrottled(t *testing.T) {
	t.Parallel()

	next := &countingGeocoder{}
	throttled := NewThrottled(next, 0.001, 1)

	if _, err := throttled.Search(context.Background(), "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := throttled.Search(ctx, "b"); err == nil {
		t.Fatalf("expected the second call to be throttled")
	}
	if next.calls != 1 {
		t.Fatalf("expected 1 delegated call, got %d", next.calls)
	}
}

func TestTranscriptFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "voice.txt")
	if err := os.WriteFile(path, []byte("  need a\n plumber  \n"), 0o600); err != nil {
		t.Fatalf("write transcript: %v", err)
	}

	got, err := TranscriptFile{Path: path}.Transcribe(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "need a plumber" {
		t.Fatalf("expected %q, got %q", "need a plumber", got)
	}

	if _, err := (TranscriptFile{}).Transcribe(context.Background()); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}

	empty := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(empty, []byte("\n"), 0o600); err != nil {
		t.Fatalf("write transcript: %v", err)
	}
	if _, err := (TranscriptFile{Path: empty}).Transcribe(context.Background()); !errors.Is(err, ErrNoResult) {
		t.Fatalf("expected ErrNoResult, got %v", err)
	}
}

func TestDelayed(t *testing.T) {
	t.Parallel()

	next := &countingGeocoder{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := (Delayed{Next: next, Delay: time.Hour}).Search(ctx, "a"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := (Delayed{Next: next}).Search(context.Background(), "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.calls != 1 {
		t.Fatalf("expected 1 delegated call, got %d", next.calls)
	}
}
