package types

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/muldis/mre/pkg/catalog"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:  "types",
		Usage: "list well-known types and foundation functions",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "functions",
				Aliases: []string{"f"},
				Usage:   "list foundation functions instead of types",
			},
			&cli.IntFlag{
				Name:    "arity",
				Aliases: []string{"n"},
				Usage:   "only list functions that take `N` arguments",
			},
			&cli.StringFlag{
				Name:    "prefix",
				Aliases: []string{"p"},
				Usage:   "only list functions whose name begins with `PREFIX`",
			},
		},
		Action: list,
	}
}

func list(c *cli.Context) error {
	cat, err := catalog.New()
	if err != nil {
		return err
	}

	return write(c.App.Writer, names(cat, query{
		functions: c.Bool("functions") || c.IsSet("arity") || c.IsSet("prefix"),
		arity:     c.Int("arity"),
		prefix:    c.String("prefix"),
	}))
}

type query struct {
	functions bool
	arity     int
	prefix    string
}

func names(cat *catalog.Catalog, q query) []string {
	if !q.functions {
		return cat.Types()
	}

	var ns []string
	if q.prefix != "" {
		ns = cat.FunctionsWithPrefix(q.prefix)
	} else {
		for n := 1; n <= 3; n++ {
			if q.arity == 0 || q.arity == n {
				ns = append(ns, cat.FunctionsOfArity(n)...)
			}
		}
	}

	if q.arity == 0 || q.prefix == "" {
		return ns
	}

	filtered := ns[:0]
	for _, name := range ns {
		if f, ok := cat.Function(name); ok && f.Arity == q.arity {
			filtered = append(filtered, name)
		}
	}
	return filtered
}

func write(w io.Writer, names []string) error {
	for _, name := range names {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}
