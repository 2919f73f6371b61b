package variant

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// restoration lists the diacritic siblings of a base spelling, in the order
// candidates are generated.
type restoration struct {
	base         string
	alternatives []string
}

var restorations = []restoration{
	{base: "dj", alternatives: []string{"đ"}},
	{base: "c", alternatives: []string{"č", "ć"}},
	{base: "s", alternatives: []string{"š"}},
	{base: "z", alternatives: []string{"ž"}},
}

// StripDiacritics removes accents from a Latin word: š→s, č→c, ć→c, ž→z,
// đ→dj. Other combining marks are dropped by canonical decomposition.
func StripDiacritics(word string) string {
	gs := glyphs(word)
	rs := runesOf(gs)
	var b strings.Builder
	b.Grow(len(word))
	for i, g := range gs {
		switch {
		case g.r == 'đ':
			b.WriteString("dj")
		case g.r == 'Đ' && inUpperRun(rs, i):
			b.WriteString("DJ")
		case g.r == 'Đ':
			b.WriteString("Dj")
		default:
			b.WriteString(g.src)
		}
	}
	return removeMarks(b.String())
}

// removeMarks drops combining marks after canonical decomposition. Malformed
// bytes are copied as they are and split the text into separately folded runs.
func removeMarks(s string) string {
	if utf8.ValidString(s) {
		return foldMarks(s)
	}
	var b strings.Builder
	b.Grow(len(s))
	for len(s) > 0 {
		n := validPrefix(s)
		b.WriteString(foldMarks(s[:n]))
		if n < len(s) {
			b.WriteByte(s[n])
			n++
		}
		s = s[n:]
	}
	return b.String()
}

func validPrefix(s string) int {
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			break
		}
		i += size
	}
	return i
}

func foldMarks(s string) string {
	if s == "" {
		return s
	}
	// A Chain holds buffers, so it is built per call to stay goroutine-safe.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// HasDiacritics reports whether stripping would change the word.
func HasDiacritics(word string) bool {
	return StripDiacritics(word) != word
}

// slot is a position in a word where a diacritic could be restored.
type slot struct {
	start, width int
	alternatives []string
}

// RestoreDiacritics returns candidate spellings of an unaccented Latin word
// with diacritics put back. Candidates are generated breadth-first: every
// single substitution left to right, then every pair, and so on, until
// limit candidates exist.
func RestoreDiacritics(word string, limit int) []string {
	if limit <= 0 {
		return nil
	}
	gs := glyphs(word)
	slots := restorableSlots(runesOf(gs))
	if len(slots) == 0 {
		return nil
	}

	var out []string
	for k := 1; k <= len(slots) && len(out) < limit; k++ {
		forEachCombination(len(slots), k, func(picked []int) bool {
			out = appendProducts(out, gs, slots, picked, limit)
			return len(out) < limit
		})
	}
	return out
}

func restorableSlots(rs []rune) []slot {
	var slots []slot
	for i := 0; i < len(rs); {
		matched := false
		for _, r := range restorations {
			base := []rune(r.base)
			if !hasFoldedPrefix(rs[i:], base) {
				continue
			}
			alts := make([]string, len(r.alternatives))
			for j, a := range r.alternatives {
				alts[j] = casedLike(a, rs[i:i+len(base)])
			}
			slots = append(slots, slot{start: i, width: len(base), alternatives: alts})
			i += len(base)
			matched = true
			break
		}
		if !matched {
			i++
		}
	}
	return slots
}

func hasFoldedPrefix(rs, prefix []rune) bool {
	if len(rs) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if unicode.ToLower(rs[i]) != p {
			return false
		}
	}
	return true
}

// casedLike upper-cases the replacement when the spelling it replaces
// starts with an upper-case letter.
func casedLike(repl string, orig []rune) string {
	if len(orig) > 0 && unicode.IsUpper(orig[0]) {
		return strings.ToUpper(repl)
	}
	return repl
}

// forEachCombination calls fn with every k-subset of [0, n) in
// lexicographic order until fn returns false.
func forEachCombination(n, k int, fn func([]int) bool) {
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		if !fn(idx) {
			return
		}
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// appendProducts appends every combination of alternatives for the picked
// slots, stopping at limit.
func appendProducts(out []string, gs []glyph, slots []slot, picked []int, limit int) []string {
	choice := make([]int, len(picked))
	for len(out) < limit {
		out = append(out, render(gs, slots, picked, choice))

		// advance the mixed-radix counter
		i := len(choice) - 1
		for i >= 0 {
			choice[i]++
			if choice[i] < len(slots[picked[i]].alternatives) {
				break
			}
			choice[i] = 0
			i--
		}
		if i < 0 {
			break
		}
	}
	return out
}

func render(gs []glyph, slots []slot, picked, choice []int) string {
	var b strings.Builder
	b.Grow(len(gs) * 2)
	pos := 0
	for n, p := range picked {
		s := slots[p]
		b.WriteString(srcOf(gs[pos:s.start]))
		b.WriteString(s.alternatives[choice[n]])
		pos = s.start + s.width
	}
	b.WriteString(srcOf(gs[pos:]))
	return b.String()
}
