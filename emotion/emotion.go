// Package emotion reduces frame-level prosody predictions to a ranked list
// of mean emotion scores.
package emotion

import (
	"sort"

	"github.com/kbukum/voicelens/prosody"
)

// MaxEmotions caps the number of scores in a Summary.
const MaxEmotions = 48

// Score is the mean score of one named emotion.
type Score struct {
	Name  string  `json:"name" yaml:"name"`
	Score float64 `json:"score" yaml:"score"`
}

// Summary is the aggregated view of a predictions array.
type Summary struct {
	Emotions    []Score `json:"emotions" yaml:"emotions"`
	TotalFrames int     `json:"totalFrames" yaml:"total_frames"`
}

// Top returns the highest-scoring emotion, if any.
func (s Summary) Top() (Score, bool) {
	if len(s.Emotions) == 0 {
		return Score{}, false
	}
	return s.Emotions[0], true
}

type accumulator struct {
	sum   float64
	count int
}

// Aggregate walks files, predictions, prosody groups and frames, averaging
// each emotion over the frames it appears in. TotalFrames counts every frame
// visited, including frames without emotions, so it is not the divisor.
// Emotions are sorted by descending mean with ties kept in first-seen order
// and truncated to MaxEmotions. Input that is empty, null or not a JSON
// array yields an empty Summary. A malformed file, group, frame or emotion
// entry is skipped without discarding the rest.
func Aggregate(raw []byte) Summary {
	out := Summary{Emotions: []Score{}}
	if len(raw) == 0 {
		return out
	}
	files, err := prosody.DecodePredictions(raw)
	if err != nil {
		return out
	}

	acc := make(map[string]*accumulator)
	var order []string

	for _, file := range files {
		for _, pred := range file.Results.Predictions {
			model := pred.Models.Prosody
			if model == nil {
				continue
			}
			for _, group := range model.GroupedPredictions {
				out.TotalFrames += len(group.Predictions)
				for _, frame := range group.Predictions {
					for _, e := range frame.Emotions {
						a, ok := acc[e.Name]
						if !ok {
							a = &accumulator{}
							acc[e.Name] = a
							order = append(order, e.Name)
						}
						a.sum += e.Score
						a.count++
					}
				}
			}
		}
	}

	for _, name := range order {
		a := acc[name]
		out.Emotions = append(out.Emotions, Score{Name: name, Score: a.sum / float64(a.count)})
	}
	sort.SliceStable(out.Emotions, func(i, j int) bool {
		return out.Emotions[i].Score > out.Emotions[j].Score
	})
	if len(out.Emotions) > MaxEmotions {
		out.Emotions = out.Emotions[:MaxEmotions]
	}
	return out
}
