// Package variant generates the surface forms a Serbian word may take in
// text: the other script, spellings with and without diacritics, and the
// other grammatical cases.
//
// Expansion runs three stages in a fixed order. Each stage works on every
// form collected before it started and never revisits its own output:
//
//  1. transliteration between Cyrillic and Latin,
//  2. diacritic stripping and restoring on Latin forms,
//  3. case-suffix substitution from an ordered rule table.
//
// A Generator is immutable and safe for concurrent use.
package variant

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Generator limits.
const (
	DefaultMaxVariants            = 64
	DefaultMaxDiacriticCandidates = 8
	DefaultMaxAmbiguousDigraphs   = 2
)

// Options tunes a Generator. Zero values select the defaults.
type Options struct {
	// MaxVariants caps the size of a variant set, the original included.
	MaxVariants int
	// MaxDiacriticCandidates caps the strings the diacritic stage adds.
	MaxDiacriticCandidates int
	// MaxAmbiguousDigraphs is how many lj/nj/dž/dj occurrences per word are
	// read both as one letter and as two.
	MaxAmbiguousDigraphs int
	// Rules replaces the built-in declension table.
	Rules []Rule
}

// Generator expands words into variant sets.
type Generator struct {
	maxVariants   int
	maxDiacritics int
	maxAmbiguous  int
	declension    declension
	fingerprint   string
}

// New builds a Generator. Custom rules are validated with ParseRules.
func New(opts Options) (*Generator, error) {
	if opts.MaxVariants < 0 || opts.MaxDiacriticCandidates < 0 || opts.MaxAmbiguousDigraphs < 0 {
		return nil, fmt.Errorf("variant limits must not be negative")
	}

	rules := DefaultRules()
	if len(opts.Rules) > 0 {
		parsed, err := ParseRules(opts.Rules)
		if err != nil {
			return nil, err
		}
		rules = parsed
	}

	g := &Generator{
		maxVariants:   opts.MaxVariants,
		maxDiacritics: opts.MaxDiacriticCandidates,
		maxAmbiguous:  opts.MaxAmbiguousDigraphs,
		declension:    newDeclension(rules),
	}
	if g.maxVariants == 0 {
		g.maxVariants = DefaultMaxVariants
	}
	if g.maxDiacritics == 0 {
		g.maxDiacritics = DefaultMaxDiacriticCandidates
	}
	if g.maxAmbiguous == 0 {
		g.maxAmbiguous = DefaultMaxAmbiguousDigraphs
	}
	g.fingerprint = fingerprint(g, rules)
	return g, nil
}

// fingerprint hashes the limits and the rule table.
func fingerprint(g *Generator, rules []Rule) string {
	h := sha256.New()
	_, _ = fmt.Fprintf(h, "%d/%d/%d", g.maxVariants, g.maxDiacritics, g.maxAmbiguous)
	for _, r := range rules {
		_, _ = fmt.Fprintf(h, "|%s/%t/%d/%s", r.Ending, r.AfterConsonant, r.MinStem, strings.Join(r.Replacements, ","))
	}
	return hex.EncodeToString(h.Sum(nil)[:6])
}

// Fingerprint identifies the generator's limits and rule table. Generators
// with equal fingerprints produce equal variant sets.
func (g *Generator) Fingerprint() string { return g.fingerprint }

var defaultGenerator = mustDefault()

func mustDefault() *Generator {
	g, err := New(Options{})
	if err != nil {
		panic("variant: default generator: " + err.Error())
	}
	return g
}

// Default returns the Generator with the built-in tables and limits.
func Default() *Generator { return defaultGenerator }

// Expand returns the variants of word using the default Generator.
// The word itself is always the first element.
func Expand(word string) []string {
	return defaultGenerator.Expand(word).Items()
}

// Expand returns the variant set of word. An empty word yields an empty set.
func (g *Generator) Expand(word string) Set {
	set := newSet(g.maxVariants)
	if !set.add(word) {
		return *set
	}
	g.transliterate(set)
	g.diacritics(set)
	g.decline(set)
	return *set
}

func (g *Generator) transliterate(set *Set) {
	for _, w := range set.snapshot() {
		if DetectScript(w) == Cyrillic {
			if onlySerbianLetters(w) {
				set.add(ToLatin(w))
			}
			continue
		}
		if !inAlphabet(w, Latin) {
			continue
		}
		for _, c := range ToCyrillic(w, g.maxAmbiguous) {
			set.add(c)
		}
	}
}

func (g *Generator) diacritics(set *Set) {
	budget := g.maxDiacritics
	for _, w := range set.snapshot() {
		if budget <= 0 {
			return
		}
		if hasCyrillic(w) {
			continue
		}
		if stripped := StripDiacritics(w); stripped != w {
			if set.add(stripped) {
				budget--
			}
			continue
		}
		if !inAlphabet(w, Latin) {
			continue
		}
		for _, c := range RestoreDiacritics(w, budget) {
			if set.add(c) {
				budget--
			}
		}
	}
}

func (g *Generator) decline(set *Set) {
	for _, w := range set.snapshot() {
		for _, v := range g.declension.inflect(w) {
			set.add(v)
		}
	}
}
