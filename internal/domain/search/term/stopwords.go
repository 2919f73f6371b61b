package term

import (
	"strings"

	"github.com/kailas-cloud/serbsearch/internal/domain/variant"
)

// defaultCyrillic holds common Serbian function words. Latin forms are
// derived by transliteration.
var defaultCyrillic = []string{
	"и", "у", "а", "о", "на", "је", "се", "да", "за", "од", "до", "са", "су",
	"или", "као", "па", "ни", "не", "што", "то", "ти", "ко", "шта", "који",
	"која", "које", "али", "из", "по", "би", "ће", "сам", "смо", "сте",
	"јер", "кад", "када", "већ", "још", "ли", "уз", "при", "пре", "над",
	"под", "кроз", "без", "тај", "та", "те", "ово", "овај", "тако", "него",
}

// Stopwords is a case-insensitive word list.
type Stopwords map[string]struct{}

// NewStopwords builds a list from words.
func NewStopwords(words []string) Stopwords {
	s := make(Stopwords, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			s[w] = struct{}{}
		}
	}
	return s
}

// DefaultStopwords returns the built-in Serbian list in both scripts.
func DefaultStopwords() Stopwords {
	words := make([]string, 0, 2*len(defaultCyrillic))
	for _, w := range defaultCyrillic {
		words = append(words, w, variant.ToLatin(w))
	}
	return NewStopwords(words)
}

// Contains reports whether w is a stopword. A nil list contains nothing.
func (s Stopwords) Contains(w string) bool {
	if len(s) == 0 {
		return false
	}
	_, ok := s[strings.ToLower(w)]
	return ok
}
