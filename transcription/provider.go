package transcription

import (
	"context"

	"github.com/kbukum/voicelens/ingest"
	"github.com/kbukum/voicelens/provider"
)

// Provider is implemented by speech-to-text backends.
type Provider interface {
	provider.Provider

	Transcribe(ctx context.Context, audio ingest.Payload) (*Result, error)
}
