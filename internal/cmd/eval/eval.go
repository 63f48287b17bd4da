package eval

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/lthibault/log"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
	"gopkg.in/yaml.v3"

	"github.com/muldis/mre/internal/runtime"
	logutil "github.com/muldis/mre/internal/util/log"
	runtimeutil "github.com/muldis/mre/internal/util/runtime"
	"github.com/muldis/mre/pkg/mdbp"
)

var (
	app     *fx.App
	machine *mdbp.Machine
	logger  log.Logger
)

func Command() *cli.Command {
	return &cli.Command{
		Name:      "eval",
		Usage:     "import host documents and print the resulting values",
		ArgsUsage: "[FILE|-]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"o"},
				Usage:   "print values as `text`, yaml or cbor",
				Value:   "text",
				EnvVars: []string{"MRE_FORMAT"},
			},
			&cli.BoolFlag{
				Name:  "stats",
				Usage: "log cache statistics after the last document",
			},
		},
		Before: setup(),
		Action: run(),
		After:  teardown(),
	}
}

func setup() cli.BeforeFunc {
	return func(c *cli.Context) error {
		logger = logutil.New(c)

		app = fx.New(
			runtime.Prelude(runtimeutil.New(c)),
			runtime.Engine(),
			fx.Populate(&machine))

		ctx, cancel := context.WithTimeout(c.Context, app.StartTimeout())
		defer cancel()

		return app.Start(ctx)
	}
}

func teardown() cli.AfterFunc {
	return func(c *cli.Context) error {
		if app == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(
			context.Background(),
			app.StopTimeout())
		defer cancel()

		return app.Stop(ctx)
	}
}

func run() cli.ActionFunc {
	return func(c *cli.Context) error {
		r, err := input(c)
		if err != nil {
			return err
		}
		defer r.Close()

		emit, flush, err := printer(c)
		if err != nil {
			return err
		}

		if err = eval(machine, yaml.NewDecoder(r), emit); err != nil {
			return err
		}

		if err = flush(); err != nil {
			return err
		}

		if c.Bool("stats") {
			logger.With(machine.Pool()).Info("pool statistics")
		}

		return nil
	}
}

// eval imports each document read from dec and prints it.
func eval(m *mdbp.Machine, dec *yaml.Decoder, emit func(*mdbp.Value) error) error {
	for i := 0; ; i++ {
		var doc yaml.Node
		if err := dec.Decode(&doc); err == io.EOF {
			return nil
		} else if err != nil {
			return errors.Wrapf(err, "document %d", i)
		}

		h, err := host(&doc)
		if err != nil {
			return errors.Wrapf(err, "document %d", i)
		}

		v, err := m.Import(h)
		if err != nil {
			return errors.Wrapf(err, "document %d", i)
		}

		if err = emit(v); err != nil {
			return err
		}
	}
}

func input(c *cli.Context) (io.ReadCloser, error) {
	switch path := c.Args().First(); path {
	case "", "-":
		return io.NopCloser(c.App.Reader), nil
	default:
		return os.Open(path)
	}
}

// printer returns a function that writes values in the requested format,
// and a function that flushes buffered output.
func printer(c *cli.Context) (emit func(*mdbp.Value) error, flush func() error, err error) {
	w := c.App.Writer
	flush = func() error { return nil }

	switch format := c.String("format"); format {
	case "text":
		emit = func(v *mdbp.Value) error {
			_, err := fmt.Fprintf(w, "%s\t%s\n", v, v.Mem().Types())
			return err
		}

	case "yaml":
		enc := yaml.NewEncoder(w)
		emit, flush = encoder(enc.Encode), enc.Close

	case "cbor":
		var em cbor.EncMode
		if em, err = cbor.CoreDetEncOptions().EncMode(); err == nil {
			emit = encoder(em.NewEncoder(w).Encode)
		}

	default:
		err = errors.Errorf("unknown format '%s'", format)
	}

	return
}

func encoder(encode func(any) error) func(*mdbp.Value) error {
	return func(v *mdbp.Value) error {
		tree, err := v.ExportTree()
		if err != nil {
			return err
		}

		return encode(document(tree))
	}
}
