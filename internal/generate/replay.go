package generate

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Replay is a Client that returns the text of a saved story file whatever
// the prompt. It lets a story be read again without a network call.
type Replay struct {
	filename string
	log      *zap.Logger
}

// NewReplay creates a Replay client for filename.
func NewReplay(filename string, log *zap.Logger) *Replay {
	if log == nil {
		log = zap.NewNop()
	}
	return &Replay{filename: filename, log: log.Named("replay")}
}

// Generate reads the story file. The prompt is ignored.
func (r *Replay) Generate(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", failure(KindTransport, err)
	}
	text, err := Extract(r.filename)
	if err != nil {
		return "", failure(KindTransport, fmt.Errorf("read %s: %w", r.filename, err))
	}
	if strings.TrimSpace(text) == "" {
		return "", failure(KindMalformed, fmt.Errorf("%s: %w", r.filename, ErrEmptyResponse))
	}
	r.log.Debug("Replaying story", zap.String("file", r.filename), zap.Int("text_len", len(text)))
	return text, nil
}
