package diarization

// Result attributes spans of the audio timeline to speakers.
type Result struct {
	// Speakers lists labels in order of first appearance.
	Speakers    []string `json:"speakers" yaml:"speakers"`
	NumSpeakers int      `json:"num_speakers" yaml:"num_speakers"`
	Turns       []Turn   `json:"turns" yaml:"turns"`
}

// Turn is one contiguous span spoken by a single speaker, in seconds.
type Turn struct {
	Speaker  string  `json:"speaker" yaml:"speaker"`
	Start    float64 `json:"start" yaml:"start"`
	End      float64 `json:"end" yaml:"end"`
	Duration float64 `json:"duration" yaml:"duration"`
}

// Normalize fills in derived fields a provider may omit: turn durations,
// the speaker list in first-appearance order, and the speaker count.
func (r *Result) Normalize() {
	if r == nil {
		return
	}
	for i := range r.Turns {
		if r.Turns[i].Duration == 0 && r.Turns[i].End > r.Turns[i].Start {
			r.Turns[i].Duration = r.Turns[i].End - r.Turns[i].Start
		}
	}
	if len(r.Speakers) == 0 {
		seen := make(map[string]bool)
		for _, t := range r.Turns {
			if !seen[t.Speaker] {
				seen[t.Speaker] = true
				r.Speakers = append(r.Speakers, t.Speaker)
			}
		}
	}
	if r.NumSpeakers == 0 {
		r.NumSpeakers = len(r.Speakers)
	}
}

// SpeakingTime sums turn durations per speaker. A turn without a duration
// counts End-Start.
func (r *Result) SpeakingTime() map[string]float64 {
	out := make(map[string]float64)
	if r == nil {
		return out
	}
	for _, t := range r.Turns {
		d := t.Duration
		if d == 0 && t.End > t.Start {
			d = t.End - t.Start
		}
		out[t.Speaker] += d
	}
	return out
}
