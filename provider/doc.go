// Package provider defines the base contract shared by swappable upstream
// backends (prosody inference, transcription, diarization) and a generic
// factory registry for selecting one by name at startup.
//
//	reg := provider.NewRegistry[prosody.Provider]()
//	reg.RegisterFactory("hume", prosody.Factory(log, prosody.WithMetrics(m)))
//	p, err := reg.Create("hume", map[string]any{"api_key": key})
package provider
