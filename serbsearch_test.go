package serbsearch

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func TestExpand(t *testing.T) {
	vs := Expand("mačka")
	if len(vs) == 0 || vs[0] != "mačka" {
		t.Fatalf("word must come first: %v", vs)
	}
	for _, want := range []string{"macka", "мачка", "mačke", "mačku", "mačkom", "mačkama"} {
		if !slices.Contains(vs, want) {
			t.Errorf("Expand(mačka) missing %q", want)
		}
	}
	if got := Expand("xyz123"); !slices.Equal(got, []string{"xyz123"}) {
		t.Errorf("Expand(xyz123) = %v", got)
	}
	if got := Expand(""); len(got) != 0 {
		t.Errorf("Expand(\"\") = %v, want empty", got)
	}
}

func TestRewrite(t *testing.T) {
	res, err := Rewrite(context.Background(), "мачка")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Original != "мачка" {
		t.Errorf("Original = %q", res.Original)
	}
	for _, want := range []string{"мачка", "mačka", "macka"} {
		if !slices.Contains(res.Terms, want) {
			t.Errorf("Terms missing %q: %v", want, res.Terms)
		}
	}
}

func TestRewrite_Empty(t *testing.T) {
	if _, err := Rewrite(context.Background(), "  "); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
}
