package rewrite

import "context"

// Expander expands words into variant sets. Results are positional.
type Expander interface {
	Expand(ctx context.Context, word string) ([]string, error)
}
