package prosody

import (
	"encoding/json"
	"time"
)

// Status is a batch job state.
type Status string

// Job states. Transitions only move forward.
const (
	StatusQueued     Status = "QUEUED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

// Terminal reports whether no further transition will happen.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job is a batch inference job as seen by this client.
type Job struct {
	ID        string
	Status    Status
	Message   string
	CreatedAt time.Time
}

// JobRequest is the json part of a submission.
type JobRequest struct {
	Models Models `json:"models"`
}

// Models selects inference models; only prosody is requested.
type Models struct {
	Prosody *struct{} `json:"prosody,omitempty"`
}

// ProsodyOnly requests the prosody model with default settings.
func ProsodyOnly() JobRequest {
	return JobRequest{Models: Models{Prosody: &struct{}{}}}
}

type submitResponse struct {
	JobID string `json:"job_id"`
}

type jobDetails struct {
	State struct {
		Status    Status `json:"status"`
		Message   string `json:"message"`
		CreatedAt int64  `json:"created_timestamp_ms"`
	} `json:"state"`
}

// FileResult is one entry of the predictions array: the results for one
// submitted file.
type FileResult struct {
	Source  json.RawMessage `json:"source,omitempty"`
	Results struct {
		Predictions lenient[FilePrediction] `json:"predictions"`
	} `json:"results"`
}

// FilePrediction holds per-model output for a file.
type FilePrediction struct {
	File   string `json:"file,omitempty"`
	Models struct {
		Prosody *ProsodyModel `json:"prosody"`
	} `json:"models"`
}

// ProsodyModel is the prosody model output, grouped by speaker or segment.
type ProsodyModel struct {
	GroupedPredictions []Group
}

// UnmarshalJSON accepts both grouped_predictions and groupedPredictions.
func (m *ProsodyModel) UnmarshalJSON(data []byte) error {
	var raw struct {
		Snake lenient[Group] `json:"grouped_predictions"`
		Camel lenient[Group] `json:"groupedPredictions"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.GroupedPredictions = raw.Camel
	if m.GroupedPredictions == nil {
		m.GroupedPredictions = raw.Snake
	}
	return nil
}

// Group is a run of frames the provider groups together.
type Group struct {
	ID          string         `json:"id"`
	Predictions lenient[Frame] `json:"predictions"`
}

// Frame is the emotion scores for one time window.
type Frame struct {
	Text     string               `json:"text,omitempty"`
	Time     *TimeRange           `json:"time,omitempty"`
	Emotions lenient[EmotionName] `json:"emotions"`
}

// TimeRange bounds a frame, in seconds.
type TimeRange struct {
	Begin float64 `json:"begin"`
	End   float64 `json:"end"`
}

// EmotionName is a single named score within a frame.
type EmotionName struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// DecodePredictions decodes a predictions body. Elements at any level that
// do not match the expected shape are dropped; only a body that is not a
// JSON array is an error.
func DecodePredictions(raw []byte) ([]FileResult, error) {
	var files lenient[FileResult]
	if err := json.Unmarshal(raw, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// lenient is a JSON array whose malformed elements are skipped.
type lenient[T any] []T

func (l *lenient[T]) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	if items == nil {
		*l = nil
		return nil
	}
	out := make(lenient[T], 0, len(items))
	for _, item := range items {
		var v T
		if json.Unmarshal(item, &v) == nil {
			out = append(out, v)
		}
	}
	*l = out
	return nil
}
