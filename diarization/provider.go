package diarization

import (
	"context"

	"github.com/kbukum/voicelens/ingest"
	"github.com/kbukum/voicelens/provider"
)

// Provider is implemented by speaker diarization backends.
type Provider interface {
	provider.Provider

	Diarize(ctx context.Context, audio ingest.Payload) (*Result, error)
}
