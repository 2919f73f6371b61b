package variant

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// DefaultMinStem is the shortest stem a rule may leave behind.
const DefaultMinStem = 2

// ErrInvalidRule signals a malformed declension rule.
var ErrInvalidRule = errors.New("invalid declension rule")

// Rule is one row of the case-suffix table: a word ending with Ending (or,
// for AfterConsonant rules, with a consonant right before Ending) may also
// appear with any of Replacements in place of Ending.
// Rules are written in Latin; Cyrillic rules are derived.
type Rule struct {
	Ending         string
	AfterConsonant bool
	Replacements   []string
	MinStem        int
}

// DefaultRules returns the built-in declension table for nouns and
// adjectives. An empty replacement yields the bare stem.
func DefaultRules() []Rule {
	return []Rule{
		// adjectives: srpski, srpskog, srpskom
		{Ending: "ski", Replacements: []string{"skog", "skom", "ska", "sku", "ske", "skim", "skih"}, MinStem: 2},
		// i-declension feminine: radost, radosti, radošću
		{Ending: "ost", Replacements: []string{"osti", "ošću", "ostima"}, MinStem: 2},
		// feminine dative/instrumental plural back to the base forms
		{Ending: "ama", Replacements: []string{"a", "i", "u", "om", "e"}, MinStem: 3},
		// masculine dative/instrumental plural
		{Ending: "ima", Replacements: []string{"", "a", "u", "om", "i", "e"}, MinStem: 3},
		// fleeting a: pisac, pisca, piscu
		{Ending: "ac", Replacements: []string{"ca", "cu", "cem", "ci", "aca", "cima"}, MinStem: 2},
		// masculine instrumental singular
		{Ending: "om", Replacements: []string{"", "a", "u", "i", "e", "ima"}, MinStem: 3},
		// feminine nominative / masculine genitive
		{Ending: "a", Replacements: []string{"i", "u", "om", "e", "ama"}, MinStem: 2},
		// neuter
		{Ending: "o", Replacements: []string{"a", "u", "om", "ima"}, MinStem: 2},
		{Ending: "e", Replacements: []string{"a", "u", "om", "ima"}, MinStem: 2},
		// genitive singular (mački) and masculine plural (ćevapčići)
		{Ending: "i", Replacements: []string{"", "a", "e", "u", "om", "ima", "ama"}, MinStem: 3},
		// masculine nominative ending in a consonant
		{AfterConsonant: true, Replacements: []string{"a", "u", "om", "i", "e", "ima"}, MinStem: 3},
	}
}

// ParseRules validates a configured rule table and normalizes it:
// endings and replacements are lower-cased, a zero MinStem becomes
// DefaultMinStem.
func ParseRules(rules []Rule) ([]Rule, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("%w: table is empty", ErrInvalidRule)
	}
	type key struct {
		ending         string
		afterConsonant bool
	}
	seen := make(map[key]struct{}, len(rules))
	out := make([]Rule, 0, len(rules))

	for i, r := range rules {
		ending := strings.ToLower(r.Ending)
		if ending == "" && !r.AfterConsonant {
			return nil, fmt.Errorf("%w: rule %d has no ending", ErrInvalidRule, i)
		}
		if ending != "" && !inAlphabet(ending, Latin) {
			return nil, fmt.Errorf("%w: rule %d ending %q is not Serbian Latin", ErrInvalidRule, i, r.Ending)
		}
		if len(r.Replacements) == 0 {
			return nil, fmt.Errorf("%w: rule %d has no replacements", ErrInvalidRule, i)
		}
		if r.MinStem < 0 {
			return nil, fmt.Errorf("%w: rule %d min_stem must be >= 0", ErrInvalidRule, i)
		}
		k := key{ending: ending, afterConsonant: r.AfterConsonant}
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("%w: duplicate ending %q", ErrInvalidRule, ending)
		}
		seen[k] = struct{}{}

		repl := make([]string, len(r.Replacements))
		for j, s := range r.Replacements {
			if s != "" && !inAlphabet(s, Latin) {
				return nil, fmt.Errorf("%w: rule %d replacement %q is not Serbian Latin", ErrInvalidRule, i, s)
			}
			repl[j] = strings.ToLower(s)
		}
		minStem := r.MinStem
		if minStem == 0 {
			minStem = DefaultMinStem
		}
		out = append(out, Rule{Ending: ending, AfterConsonant: r.AfterConsonant, Replacements: repl, MinStem: minStem})
	}
	return out, nil
}

type compiledRule struct {
	ending         []rune
	afterConsonant bool
	replacements   []string
	minStem        int
}

// declension holds the rule table compiled for both scripts, longest
// ending first.
type declension struct {
	latin    []compiledRule
	cyrillic []compiledRule
}

func newDeclension(rules []Rule) declension {
	d := declension{
		latin:    make([]compiledRule, 0, len(rules)),
		cyrillic: make([]compiledRule, 0, len(rules)),
	}
	for _, r := range rules {
		d.latin = append(d.latin, compiledRule{
			ending:         []rune(r.Ending),
			afterConsonant: r.AfterConsonant,
			replacements:   r.Replacements,
			minStem:        r.MinStem,
		})

		repl := make([]string, len(r.Replacements))
		for i, s := range r.Replacements {
			repl[i] = preferredCyrillic(s)
		}
		d.cyrillic = append(d.cyrillic, compiledRule{
			ending:         []rune(preferredCyrillic(r.Ending)),
			afterConsonant: r.AfterConsonant,
			replacements:   repl,
			minStem:        r.MinStem,
		})
	}
	byLength := func(rs []compiledRule) func(i, j int) bool {
		return func(i, j int) bool { return len(rs[i].ending) > len(rs[j].ending) }
	}
	sort.SliceStable(d.latin, byLength(d.latin))
	sort.SliceStable(d.cyrillic, byLength(d.cyrillic))
	return d
}

func preferredCyrillic(s string) string {
	if s == "" {
		return ""
	}
	return ToCyrillic(s, 0)[0]
}

// inflect returns the other case forms of word under the first (longest)
// applicable rule, or nil when none applies.
func (d declension) inflect(word string) []string {
	var rules []compiledRule
	switch {
	case DetectScript(word) == Cyrillic && inAlphabet(word, Cyrillic):
		rules = d.cyrillic
	case DetectScript(word) == Latin && inAlphabet(word, Latin):
		rules = d.latin
	default:
		return nil
	}

	gs := glyphs(word)
	rs := runesOf(gs)
	for _, r := range rules {
		stemLen := len(rs) - len(r.ending)
		if stemLen < r.minStem || stemLen <= 0 {
			continue
		}
		if !hasFoldedSuffix(rs, r.ending) {
			continue
		}
		if r.afterConsonant && !isConsonant(rs[stemLen-1]) {
			continue
		}

		stem := srcOf(gs[:stemLen])
		upper := unicode.IsUpper(rs[len(rs)-1])
		out := make([]string, 0, len(r.replacements))
		for _, repl := range r.replacements {
			if upper {
				repl = strings.ToUpper(repl)
			}
			out = append(out, stem+repl)
		}
		return out
	}
	return nil
}

func hasFoldedSuffix(rs, suffix []rune) bool {
	if len(suffix) > len(rs) {
		return false
	}
	off := len(rs) - len(suffix)
	for i, s := range suffix {
		if unicode.ToLower(rs[off+i]) != s {
			return false
		}
	}
	return true
}
