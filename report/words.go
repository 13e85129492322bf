package report

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// WordSize buckets a repeated word by frequency.
type WordSize string

const (
	WordSmall  WordSize = "small"
	WordMedium WordSize = "medium"
	WordLarge  WordSize = "large"
)

// WordCount is a repeated word and how often it occurs.
type WordCount struct {
	Word  string   `json:"word"`
	Count int      `json:"count"`
	Size  WordSize `json:"size"`
}

const maxRepeatedWords = 10

var wordPattern = regexp.MustCompile(`[а-яёa-z]+`)

var stopWords = toSet(
	// Russian
	"и", "в", "на", "с", "по", "не", "а", "к", "что", "это", "как", "у", "о", "за", "из", "от", "до",
	"для", "при", "но", "так", "же", "то", "вы", "мы", "он", "она", "они", "я", "ты", "все", "весь",
	"этот", "эта", "эти", "был", "была", "было", "были", "быть", "есть",
	// English
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by", "from",
	"up", "about", "into", "through", "during", "before", "after", "is", "am", "are", "was", "were",
	"be", "been", "being", "have", "has", "had", "having", "do", "does", "did", "i", "you", "he",
	"she", "it", "we", "they", "this", "that",
)

func toSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

func sizeOf(count int) WordSize {
	switch {
	case count > 10:
		return WordLarge
	case count >= 5:
		return WordMedium
	default:
		return WordSmall
	}
}

// RepeatedWords returns up to ten words of three or more letters, outside
// the stopword list, that occur at least twice. The most frequent come
// first; ties keep the order of first occurrence.
func RepeatedWords(text string) []WordCount {
	counts := make(map[string]int)
	var order []string
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if utf8.RuneCountInString(w) <= 2 || stopWords[w] {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	out := make([]WordCount, 0, len(order))
	for _, w := range order {
		if c := counts[w]; c >= 2 {
			out = append(out, WordCount{Word: w, Count: c, Size: sizeOf(c)})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > maxRepeatedWords {
		out = out[:maxRepeatedWords]
	}
	return out
}
