// Package term splits a search string into the terms a LIKE search runs on.
//
// Splitting follows the usual blog-engine rules: a double-quoted phrase is one
// term, everything else is split on tabs, spaces, commas, plus signs and
// quotes. Filtering drops noise: empty terms, lone ASCII letters or dashes,
// and stopwords.
package term

import (
	"strings"
)

// Term is one unit of a search: a word or a quoted phrase.
type Term struct {
	text   string
	phrase bool
}

// Text returns the term without surrounding quotes.
func (t Term) Text() string { return t.text }

// Phrase reports whether the term came from a quoted phrase.
func (t Term) Phrase() bool { return t.phrase }

func isSeparator(r rune) bool {
	switch r {
	case '\t', ' ', '"', ',', '+':
		return true
	}
	return false
}

// Split tokenizes s. Quoted phrases keep their quotes and run up to the
// closing quote or the end of input; other tokens are maximal runs of
// non-separator characters.
func Split(s string) []string {
	var out []string
	rs := []rune(s)
	for i := 0; i < len(rs); {
		switch {
		case rs[i] == '"':
			j := i + 1
			for j < len(rs) && rs[j] != '"' {
				j++
			}
			if j < len(rs) {
				j++ // closing quote
			}
			out = append(out, string(rs[i:j]))
			i = j
		case isSeparator(rs[i]):
			i++
		default:
			j := i
			for j < len(rs) && !isSeparator(rs[j]) {
				j++
			}
			out = append(out, string(rs[i:j]))
			i = j
		}
	}
	return out
}

// IsPhrase reports whether a raw token from Split is a quoted phrase.
func IsPhrase(raw string) bool {
	return len(raw) > 2 && strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`)
}

// Filter cleans raw tokens into terms. Phrases keep inner and edge spaces.
// Single ASCII letters, lone dashes and stopwords are dropped.
func Filter(raw []string, stopwords Stopwords) []Term {
	out := make([]Term, 0, len(raw))
	for _, r := range raw {
		phrase := IsPhrase(r)
		var text string
		if phrase {
			text = strings.Trim(r, `"'`)
		} else {
			text = strings.Trim(r, `"' `)
		}
		if text == "" || isNoise(text) {
			continue
		}
		if stopwords.Contains(text) {
			continue
		}
		out = append(out, Term{text: text, phrase: phrase})
	}
	return out
}

func isNoise(s string) bool {
	if len(s) != 1 {
		return false
	}
	c := s[0]
	return c == '-' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Parse turns a search string into terms. Line breaks are removed first.
// In sentence mode the whole string is a single phrase. When filtering
// leaves nothing, the whole string is used as one term.
func Parse(s string, sentence bool, stopwords Stopwords) []Term {
	s = strings.NewReplacer("\r", "", "\n", "").Replace(s)
	if sentence {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		return []Term{{text: s, phrase: true}}
	}

	terms := Filter(Split(s), stopwords)
	if len(terms) == 0 {
		whole := strings.TrimSpace(s)
		if whole == "" {
			return nil
		}
		return []Term{{text: whole}}
	}
	return terms
}

// Texts returns the text of each term.
func Texts(terms []Term) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = t.text
	}
	return out
}
