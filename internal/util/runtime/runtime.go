package runtimeutil

import (
	"github.com/lthibault/log"
	"github.com/urfave/cli/v2"

	"github.com/muldis/mre/internal/runtime"
	logutil "github.com/muldis/mre/internal/util/log"
	statsdutil "github.com/muldis/mre/internal/util/statsd"
	"github.com/muldis/mre/pkg/mem"
)

// New runtime environment from a cli context.
func New(c *cli.Context) runtime.Env {
	logging := logutil.New(c)
	metrics := statsdutil.New(c, logging)

	return env{
		flags:   c,
		logging: logging,
		metrics: metrics,
	}
}

type env struct {
	flags
	logging log.Logger
	metrics mem.Metrics
}

func (env env) Log() log.Logger {
	return env.logging
}

func (env env) Metrics() mem.Metrics {
	return env.metrics
}

// Limits returns the cache limits given on the command line.  Unset
// flags yield zero, which the pool replaces with its defaults.
func (env env) Limits() mem.Limits {
	return mem.Limits{
		MaxCacheEntries:  env.Int("cache-entries"),
		MaxCodepoints:    env.Int("cache-codepoints"),
		MaxHeadingDegree: env.Int("cache-degree"),
	}
}

type flags interface {
	Int(string) int
	IsSet(string) bool
	String(string) string
}
