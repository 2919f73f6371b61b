package term

import (
	"slices"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"mačka pas", []string{"mačka", "pas"}},
		{"a,b+c\td", []string{"a", "b", "c", "d"}},
		{`crna "mala mačka" pas`, []string{"crna", `"mala mačka"`, "pas"}},
		{`"open phrase`, []string{`"open phrase`}},
		{`"ab"cd`, []string{`"ab"`, "cd"}},
		{"   ", nil},
		{"", nil},
	}
	for _, tc := range tests {
		if got := Split(tc.in); !slices.Equal(got, tc.want) {
			t.Errorf("Split(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFilter(t *testing.T) {
	raw := []string{`" mala mačka "`, "a", "-", "X", "je", "ЈЕ", "grad", `"`, `""`, "7"}
	got := Filter(raw, DefaultStopwords())

	want := []Term{
		{text: " mala mačka ", phrase: true},
		{text: "grad"},
		{text: "7"},
	}
	if !slices.Equal(got, want) {
		t.Errorf("Filter = %+v, want %+v", got, want)
	}
}

func TestFilter_NoStopwords(t *testing.T) {
	got := Filter([]string{"je", "u"}, nil)
	if !slices.Equal(Texts(got), []string{"je", "u"}) {
		t.Errorf("Filter = %v", Texts(got))
	}
}

func TestParse(t *testing.T) {
	sw := DefaultStopwords()

	got := Parse("mačka\nna krovu", false, sw)
	if !slices.Equal(Texts(got), []string{"mačkana", "krovu"}) {
		t.Errorf("line breaks must be removed, got %v", Texts(got))
	}

	got = Parse("crna mačka", true, sw)
	if len(got) != 1 || got[0].Text() != "crna mačka" || !got[0].Phrase() {
		t.Errorf("sentence mode = %+v", got)
	}

	// every token is a stopword: the whole string is searched
	got = Parse("je i u", false, sw)
	if !slices.Equal(Texts(got), []string{"je i u"}) {
		t.Errorf("fallback = %v", Texts(got))
	}

	if got := Parse("  ", false, sw); got != nil {
		t.Errorf("blank = %v, want nil", got)
	}
	if got := Parse("", true, sw); got != nil {
		t.Errorf("blank sentence = %v, want nil", got)
	}
}

func TestDefaultStopwords_BothScripts(t *testing.T) {
	sw := DefaultStopwords()
	for _, w := range []string{"što", "ŠTO", "што", "koji", "који", "već", "већ"} {
		if !sw.Contains(w) {
			t.Errorf("expected %q to be a stopword", w)
		}
	}
	if sw.Contains("mačka") {
		t.Error("mačka is not a stopword")
	}
}

func TestIsPhrase(t *testing.T) {
	if !IsPhrase(`"ab"`) || IsPhrase(`""`) || IsPhrase(`"ab`) || IsPhrase("ab") {
		t.Error("IsPhrase mismatch")
	}
}
