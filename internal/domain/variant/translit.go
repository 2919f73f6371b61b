package variant

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// digraph is a two-letter Latin spelling of a single Cyrillic letter.
// preferSplit marks digraphs whose letters more often stand on their own
// (dj is usually д+ј, đ being the proper spelling of ђ).
type digraph struct {
	first, second rune
	joined        rune
	preferSplit   bool
}

var digraphs = []digraph{
	{first: 'l', second: 'j', joined: 'љ'},
	{first: 'n', second: 'j', joined: 'њ'},
	{first: 'd', second: 'ž', joined: 'џ'},
	{first: 'd', second: 'j', joined: 'ђ', preferSplit: true},
}

// toLatin is keyed by lower-case Cyrillic letters; fromLatin holds only the
// single-rune Latin spellings, digraphs being matched separately.
var toLatin, fromLatin = transliterationTables()

func transliterationTables() (map[rune]string, map[rune]rune) {
	to := make(map[rune]string, len(alphabet))
	from := make(map[rune]rune, len(alphabet))
	for _, l := range alphabet {
		to[l.cyrillic] = l.latin
		if utf8.RuneCountInString(l.latin) == 1 {
			r, _ := utf8.DecodeRuneInString(l.latin)
			from[r] = l.cyrillic
		}
	}
	return to, from
}

// ToLatin transliterates every Serbian Cyrillic letter of word to Latin.
// Runes outside the azbuka pass through unchanged. Upper-case digraph
// letters are written as title case (Lj) unless they stand in an upper-case
// run (LJ).
func ToLatin(word string) string {
	gs := glyphs(word)
	rs := runesOf(gs)
	var b strings.Builder
	b.Grow(len(word))
	for i, r := range rs {
		lat, ok := toLatin[unicode.ToLower(r)]
		switch {
		case !ok:
			b.WriteString(gs[i].src)
		case !unicode.IsUpper(r):
			b.WriteString(lat)
		case inUpperRun(rs, i):
			b.WriteString(strings.ToUpper(lat))
		default:
			b.WriteString(titleCase(lat))
		}
	}
	return b.String()
}

// ToCyrillic returns every reading of a Latin word in Cyrillic. The first
// element is the preferred reading: lj, nj and dž joined, dj split. The
// first maxAmbiguous digraph occurrences are also read the other way;
// later occurrences keep their preferred reading.
func ToCyrillic(word string, maxAmbiguous int) []string {
	segs := segmentLatin(glyphs(word), maxAmbiguous)

	var choices []int
	for i, s := range segs {
		if s.alternative != "" {
			choices = append(choices, i)
		}
	}

	readings := make([]string, 0, 1<<len(choices))
	for mask := 0; mask < 1<<len(choices); mask++ {
		var b strings.Builder
		b.Grow(len(word) * 2)
		next := 0
		for i, s := range segs {
			if next < len(choices) && choices[next] == i {
				if mask&(1<<next) != 0 {
					b.WriteString(s.alternative)
				} else {
					b.WriteString(s.preferred)
				}
				next++
				continue
			}
			b.WriteString(s.preferred)
		}
		readings = append(readings, b.String())
	}
	return readings
}

// segment is one unit of a Latin word during transliteration. alternative
// is empty for unambiguous segments.
type segment struct {
	preferred   string
	alternative string
}

func segmentLatin(gs []glyph, maxAmbiguous int) []segment {
	segs := make([]segment, 0, len(gs))
	ambiguous := 0
	for i := 0; i < len(gs); {
		if i+1 < len(gs) {
			if d, ok := matchDigraph(gs[i].r, gs[i+1].r); ok {
				joined := string(matchCase(d.joined, gs[i].r))
				split := cyrillicGlyph(gs[i]) + cyrillicGlyph(gs[i+1])
				seg := segment{preferred: joined, alternative: split}
				if d.preferSplit {
					seg = segment{preferred: split, alternative: joined}
				}
				if ambiguous < maxAmbiguous {
					ambiguous++
				} else {
					seg.alternative = ""
				}
				segs = append(segs, seg)
				i += 2
				continue
			}
		}
		segs = append(segs, segment{preferred: cyrillicGlyph(gs[i])})
		i++
	}
	return segs
}

// matchDigraph recognizes a digraph written lower (nj), title (Nj) or
// upper (NJ) case. nJ is treated as two letters.
func matchDigraph(a, b rune) (digraph, bool) {
	if unicode.IsLower(a) && unicode.IsUpper(b) {
		return digraph{}, false
	}
	la, lb := unicode.ToLower(a), unicode.ToLower(b)
	for _, d := range digraphs {
		if d.first == la && d.second == lb {
			return d, true
		}
	}
	return digraph{}, false
}

func cyrillicGlyph(g glyph) string {
	c, ok := fromLatin[unicode.ToLower(g.r)]
	if !ok {
		return g.src
	}
	return string(matchCase(c, g.r))
}

func matchCase(r, like rune) rune {
	if unicode.IsUpper(like) {
		return unicode.ToUpper(r)
	}
	return r
}

// inUpperRun reports whether the letter at i belongs to an all-caps run.
func inUpperRun(rs []rune, i int) bool {
	if i+1 < len(rs) && unicode.IsLetter(rs[i+1]) {
		return unicode.IsUpper(rs[i+1])
	}
	return i > 0 && unicode.IsUpper(rs[i-1])
}

func titleCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
