// Package clause builds the SQL fragments of a LIKE search.
//
// The WHERE fragment has the shape
//
//	AND (((title LIKE ?) OR (content LIKE ?)) OR ...)
//
// with one title/content pair per term, optionally followed by a password
// filter for anonymous callers. All values are bound as parameters.
// Terms are OR-ed in a balanced tree so the expression depth grows with the
// logarithm of the term count. Columns are wrapped in a Unicode lower-case
// function and patterns are lower-cased; LIKE alone folds ASCII only.
package clause

import (
	"strings"

	"github.com/kailas-cloud/serbsearch/internal/domain/search/term"
)

// MaxTerms caps the terms of one query.
const MaxTerms = 2048

// LowerFunc is the SQL function the post store registers for Unicode
// lower-casing.
const LowerFunc = "ulower"

// Columns names the post columns a clause refers to.
type Columns struct {
	Title       string
	Content     string
	Password    string
	PublishedAt string
	// Lower wraps Title and Content before matching. Empty compares as stored.
	Lower string
}

// DefaultColumns returns the column names of the posts table.
func DefaultColumns() Columns {
	return Columns{
		Title:       "posts.title",
		Content:     "posts.content",
		Password:    "posts.password",
		PublishedAt: "posts.published_at",
		Lower:       LowerFunc,
	}
}

// Options tune clause building.
type Options struct {
	// Exact matches whole fields instead of substrings.
	Exact bool
	// Authenticated callers also see password-protected posts.
	Authenticated bool
	// Phrase is the query as typed, used to rank full-phrase matches first.
	Phrase string
	// Columns overrides DefaultColumns when non-zero.
	Columns Columns
}

// Clause is a WHERE fragment and an ORDER BY expression with their
// positional arguments.
type Clause struct {
	Where     string
	Args      []any
	OrderBy   string
	OrderArgs []any
}

// IsEmpty reports whether the clause restricts nothing.
func (c Clause) IsEmpty() bool { return c.Where == "" }

// Build assembles the clause for terms. No terms yield an empty clause.
func Build(terms []term.Term, opts Options) Clause {
	cols := opts.Columns
	if cols == (Columns{}) {
		cols = DefaultColumns()
	}
	if len(terms) == 0 {
		return Clause{}
	}

	wild := "%"
	if opts.Exact {
		wild = ""
	}

	parts := make([]string, len(terms))
	args := make([]any, 0, 2*len(terms))
	for i, t := range terms {
		like := wild + cols.pattern(t.Text()) + wild
		parts[i] = "((" + cols.fold(cols.Title) + ` LIKE ? ESCAPE '\') OR (` +
			cols.fold(cols.Content) + ` LIKE ? ESCAPE '\'))`
		args = append(args, like, like)
	}

	where := " AND (" + orTree(parts) + ") "
	if !opts.Authenticated {
		where += " AND (" + cols.Password + " = '') "
	}

	c := Clause{Where: where, Args: args}
	c.OrderBy, c.OrderArgs = orderBy(terms, opts, cols)
	return c
}

// orderBy ranks posts: title holds the whole phrase, title holds any term,
// content holds the whole phrase, the rest. Ties go to the newest post.
func orderBy(terms []term.Term, opts Options, cols Columns) (string, []any) {
	newest := cols.PublishedAt + " DESC"
	phrase := strings.TrimSpace(opts.Phrase)
	if len(terms) < 2 || opts.Exact || phrase == "" {
		return newest, nil
	}

	title := cols.fold(cols.Title)
	like := "%" + cols.pattern(phrase) + "%"
	titleAny := make([]string, len(terms))
	args := make([]any, 0, len(terms)+2)
	args = append(args, like)
	for i, t := range terms {
		titleAny[i] = title + ` LIKE ? ESCAPE '\'`
		args = append(args, "%"+cols.pattern(t.Text())+"%")
	}
	args = append(args, like)

	expr := "CASE WHEN " + title + ` LIKE ? ESCAPE '\' THEN 1` +
		" WHEN " + orTree(titleAny) + " THEN 2" +
		" WHEN " + cols.fold(cols.Content) + ` LIKE ? ESCAPE '\' THEN 3` +
		" ELSE 4 END, " + newest
	return expr, args
}

func (c Columns) fold(col string) string {
	if c.Lower == "" {
		return col
	}
	return c.Lower + "(" + col + ")"
}

func (c Columns) pattern(s string) string {
	if c.Lower != "" {
		s = strings.ToLower(s)
	}
	return EscapeLike(s)
}

// orTree joins parts with OR, halving recursively. Operand order is kept,
// so positional arguments line up with a flat join.
func orTree(parts []string) string {
	if len(parts) == 1 {
		return parts[0]
	}
	mid := len(parts) / 2
	return "(" + orTree(parts[:mid]) + " OR " + orTree(parts[mid:]) + ")"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE metacharacters so s matches literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
