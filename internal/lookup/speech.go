package lookup

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// TranscriptFile stands in for a speech recognizer by reading a prepared
// transcript from disk.
type TranscriptFile struct {
	Path string
}

func (t TranscriptFile) Transcribe(ctx context.Context) (string, error) {
	if strings.TrimSpace(t.Path) == "" {
		return "", ErrUnsupported
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(t.Path)
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}

	text := strings.Join(strings.Fields(string(data)), " ")
	if text == "" {
		return "", ErrNoResult
	}
	return text, nil
}
