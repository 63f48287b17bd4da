package runtime

import (
	"context"
	"io"

	"github.com/lthibault/log"
	"github.com/pkg/errors"
	"go.uber.org/fx"

	"github.com/muldis/mre/pkg/catalog"
	"github.com/muldis/mre/pkg/mdbp"
	"github.com/muldis/mre/pkg/mem"
)

/****************************************************************************
 *                                                                          *
 *  runtime.go is responsible for assembling the engine from its parts.     *
 *                                                                          *
 ****************************************************************************/

// Env supplies the configuration of the engine.
type Env interface {
	Log() log.Logger
	Metrics() mem.Metrics
	Limits() mem.Limits
}

// Prelude supplies the environment and silences fx's own logging.
func Prelude(env Env) fx.Option {
	return fx.Options(
		fx.NopLogger,
		fx.Provide(func() Env { return env }))
}

// Engine provides the catalog, the value pool and the protocol machine.
func Engine() fx.Option {
	return fx.Module("engine", fx.Provide(
		catalog.New,
		pool,
		machine))
}

func pool(env Env, lx fx.Lifecycle) *mem.Pool {
	p := mem.New(
		mem.WithLogger(env.Log().WithField("component", "pool")),
		mem.WithMetrics(env.Metrics()),
		mem.WithLimits(env.Limits()))

	lx.Append(fx.Hook{
		OnStop: func(context.Context) error {
			env.Log().With(p).Debug("pool released")

			if c, ok := env.Metrics().(io.Closer); ok {
				return c.Close()
			}

			return nil
		},
	})

	return p
}

func machine(env Env, p *mem.Pool, c *catalog.Catalog) (*mdbp.Machine, error) {
	info := mdbp.Info{
		Log:     env.Log().WithField("component", "mdbp"),
		Pool:    p,
		Catalog: c,
	}

	if m := info.WantMachine(mdbp.ProtocolVersion[:]); m != nil {
		return m, nil
	}

	return nil, errors.Errorf("protocol version %v not supported", mdbp.ProtocolVersion)
}
