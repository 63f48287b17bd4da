// Package statsdutil reports pool metrics to a statsd server.
package statsdutil

import (
	"time"

	"github.com/lthibault/log"
	"gopkg.in/alexcesaro/statsd.v2"

	"github.com/muldis/mre/pkg/mem"
)

type Env interface {
	IsSet(string) bool
	String(string) string
}

// Metrics wraps a statsd client and satisfies mem.Metrics.
type Metrics struct{ *statsd.Client }

// New statsd client.  The client is muted unless the "metrics" flag
// is set.
func New(env Env, log log.Logger) mem.Metrics {
	m, err := statsd.New(
		addr(env),
		muted(env),
		logger(env, log),
		statsd.Prefix("mre.cache"),
		statsd.SampleRate(.1),
		statsd.FlushPeriod(time.Millisecond*250))
	if err != nil {
		log.WithError(err).
			Warn("setup failed for statsd metrics")
		return nopMetrics{}
	}

	return Metrics{m}
}

func (m Metrics) Incr(bucket string) {
	m.Client.Count(bucket, 1)
}

func (m Metrics) Gauge(bucket string, value any) {
	m.Client.Gauge(bucket, value)
}

// Close flushes buffered metrics and releases the connection.
func (m Metrics) Close() error {
	m.Client.Close()
	return nil
}

func addr(env Env) statsd.Option {
	if env.IsSet("metrics") {
		return statsd.Address(env.String("metrics"))
	}

	return statsd.Address(":8125")
}

func logger(env Env, log log.Logger) statsd.Option {
	return statsd.ErrorHandler(func(err error) {
		log.WithError(err).
			WithField("statsd", env.String("metrics")).
			Warn("failed to send metrics")
	})
}

func muted(env Env) statsd.Option {
	return statsd.Mute(!env.IsSet("metrics"))
}

type nopMetrics struct{}

func (nopMetrics) Incr(string)       {}
func (nopMetrics) Gauge(string, any) {}
