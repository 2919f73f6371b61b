// Command variants prints the Serbian variant set of each word.
//
// Words come from the arguments or, when there are none, one per stdin line.
// With --rewrite every input line is treated as a search query and printed
// in its expanded form.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/kailas-cloud/serbsearch/internal/domain"
	"github.com/kailas-cloud/serbsearch/internal/domain/search/term"
	"github.com/kailas-cloud/serbsearch/internal/domain/variant"
	"github.com/kailas-cloud/serbsearch/internal/usecase/rewrite"
	"github.com/kailas-cloud/serbsearch/internal/version"
)

func main() {
	if err := newApp(os.Stdin, os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "variants:", err)
		os.Exit(1)
	}
}

func newApp(in io.Reader, out io.Writer) *cli.App {
	return &cli.App{
		Name:      "variants",
		Usage:     "Print script, diacritic and case variants of Serbian words",
		ArgsUsage: "[word...]",
		Version:   version.String(),
		Reader:    in,
		Writer:    out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (text, json)",
				Value:   "text",
			},
			&cli.BoolFlag{
				Name:    "rewrite",
				Aliases: []string{"r"},
				Usage:   "Treat each input as a search query and print its expanded form",
			},
			&cli.IntFlag{
				Name:  "max-variants",
				Usage: "Cap on the size of each variant set (0 = default)",
			},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	format := c.String("format")
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format %q", format)
	}

	gen, err := variant.New(variant.Options{MaxVariants: c.Int("max-variants")})
	if err != nil {
		return fmt.Errorf("build generator: %w", err)
	}
	expander := domain.NewGeneratorExpander(gen)
	rewriter := rewrite.New(expander, term.DefaultStopwords())

	emit := func(input string) error {
		input = strings.TrimSpace(input)
		if input == "" {
			return nil
		}
		if c.Bool("rewrite") {
			res, err := rewriter.Rewrite(c.Context, input)
			if err != nil {
				return fmt.Errorf("rewrite %q: %w", input, err)
			}
			return write(c.App.Writer, format, res.Expanded, []string{res.Expanded})
		}
		vs, err := expander.Expand(c.Context, input)
		if err != nil {
			return fmt.Errorf("expand %q: %w", input, err)
		}
		return write(c.App.Writer, format, strings.Join(vs, " "), vs)
	}

	if c.NArg() > 0 {
		for _, arg := range c.Args().Slice() {
			if err := emit(arg); err != nil {
				return err
			}
		}
		return nil
	}

	return eachLine(c.Context, c.App.Reader, emit)
}

func write(w io.Writer, format, text string, items []string) error {
	if format == "json" {
		b, err := json.Marshal(items)
		if err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		text = string(b)
	}
	if _, err := fmt.Fprintln(w, text); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func eachLine(ctx context.Context, r io.Reader, fn func(string) error) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(sc.Text()); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
