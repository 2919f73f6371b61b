package variant

import (
	"unicode"
	"unicode/utf8"
)

// Script is the writing system a word is rendered in.
type Script string

// Script constants.
const (
	Latin    Script = "latin"
	Cyrillic Script = "cyrillic"
)

// IsValid checks if the script is one of the supported values.
func (s Script) IsValid() bool {
	return s == Latin || s == Cyrillic
}

// letter pairs a lowercase Serbian Cyrillic letter with its Latin spelling.
type letter struct {
	cyrillic rune
	latin    string
}

// alphabet is the Serbian azbuka in order. Every Cyrillic letter maps to
// exactly one Latin spelling; digraph letters map to two runes.
var alphabet = []letter{
	{'а', "a"}, {'б', "b"}, {'в', "v"}, {'г', "g"}, {'д', "d"},
	{'ђ', "đ"}, {'е', "e"}, {'ж', "ž"}, {'з', "z"}, {'и', "i"},
	{'ј', "j"}, {'к', "k"}, {'л', "l"}, {'љ', "lj"}, {'м', "m"},
	{'н', "n"}, {'њ', "nj"}, {'о', "o"}, {'п', "p"}, {'р', "r"},
	{'с', "s"}, {'т', "t"}, {'ћ', "ć"}, {'у', "u"}, {'ф', "f"},
	{'х', "h"}, {'ц', "c"}, {'ч', "č"}, {'џ', "dž"}, {'ш', "š"},
}

var (
	cyrillicLetters, latinLetters = letterSets()

	vowels = map[rune]struct{}{
		'a': {}, 'e': {}, 'i': {}, 'o': {}, 'u': {},
		'а': {}, 'е': {}, 'и': {}, 'о': {}, 'у': {},
	}
)

// letterSets collects both cases of every letter of each alphabet.
func letterSets() (cyrillic, latin map[rune]struct{}) {
	cyrillic = make(map[rune]struct{}, 2*len(alphabet))
	latin = make(map[rune]struct{}, 2*len(alphabet))
	for _, l := range alphabet {
		cyrillic[l.cyrillic] = struct{}{}
		cyrillic[unicode.ToUpper(l.cyrillic)] = struct{}{}
		for _, r := range l.latin {
			latin[r] = struct{}{}
			latin[unicode.ToUpper(r)] = struct{}{}
		}
	}
	return cyrillic, latin
}

// DetectScript classifies a word. Any Serbian Cyrillic codepoint makes the
// word Cyrillic; everything else, including non-Serbian text, is Latin.
func DetectScript(word string) Script {
	for _, r := range word {
		if isCyrillicLetter(r) {
			return Cyrillic
		}
	}
	return Latin
}

// onlySerbianLetters reports whether every letter of word belongs to the
// Cyrillic or the Latin Serbian alphabet. Mixed spellings pass.
func onlySerbianLetters(word string) bool {
	for _, r := range word {
		if unicode.IsLetter(r) && !isCyrillicLetter(r) && !isLatinLetter(r) {
			return false
		}
	}
	return true
}

// hasCyrillic reports whether word holds any Cyrillic codepoint, Serbian
// or not.
func hasCyrillic(word string) bool {
	for _, r := range word {
		if unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}
	return false
}

func isCyrillicLetter(r rune) bool {
	_, ok := cyrillicLetters[r]
	return ok
}

func isLatinLetter(r rune) bool {
	_, ok := latinLetters[r]
	return ok
}

// inAlphabet reports whether every letter of word belongs to the given
// Serbian alphabet. Non-letters (digits, hyphens) are allowed, but at least
// one letter is required.
func inAlphabet(word string, s Script) bool {
	letters := 0
	for _, r := range word {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		switch s {
		case Cyrillic:
			if !isCyrillicLetter(r) {
				return false
			}
		default:
			if !isLatinLetter(r) {
				return false
			}
		}
	}
	return letters > 0
}

// isConsonant reports whether r is a Serbian consonant in either script.
func isConsonant(r rune) bool {
	lr := unicode.ToLower(r)
	if _, ok := vowels[lr]; ok {
		return false
	}
	return isLatinLetter(lr) || isCyrillicLetter(lr)
}

// glyph is one decoded rune with the bytes it came from. A malformed byte
// decodes to utf8.RuneError and keeps itself as src, so writing src back
// reproduces the input exactly.
type glyph struct {
	r   rune
	src string
}

func glyphs(s string) []glyph {
	out := make([]glyph, 0, len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		out = append(out, glyph{r: r, src: s[i : i+size]})
		i += size
	}
	return out
}

// srcOf concatenates the source bytes of gs.
func srcOf(gs []glyph) string {
	n := 0
	for _, g := range gs {
		n += len(g.src)
	}
	b := make([]byte, 0, n)
	for _, g := range gs {
		b = append(b, g.src...)
	}
	return string(b)
}

func runesOf(gs []glyph) []rune {
	rs := make([]rune, len(gs))
	for i, g := range gs {
		rs[i] = g.r
	}
	return rs
}
