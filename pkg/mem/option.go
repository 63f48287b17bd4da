package mem

import "github.com/lthibault/log"

// Limits bound the flyweight caches of a Pool.
type Limits struct {
	// MaxCacheEntries bounds each cache.  Once full, a cache admits no new
	// entries, and further values are allocated without interning.
	MaxCacheEntries int

	// MaxCodepoints is the longest codepoint sequence that may be cached.
	MaxCodepoints int

	// MaxHeadingDegree is the largest Heading that may be cached.
	MaxHeadingDegree int

	// IntegerBound is the largest absolute Integer that may be cached.
	IntegerBound int64
}

// DefaultLimits are used by pools that are not given WithLimits.
var DefaultLimits = Limits{
	MaxCacheEntries:  10000,
	MaxCodepoints:    200,
	MaxHeadingDegree: 30,
	IntegerBound:     2_000_000_000,
}

// Option configures a Pool.
type Option func(*Pool)

// WithLogger sets the logger.  If l == nil, a default logger is used.
func WithLogger(l log.Logger) Option {
	if l == nil {
		l = log.New(log.WithLevel(log.FatalLevel))
	}

	return func(p *Pool) {
		p.log = l
	}
}

// WithMetrics sets the metrics sink.  If m == nil, metrics are discarded.
func WithMetrics(m Metrics) Option {
	if m == nil {
		m = nopMetrics{}
	}

	return func(p *Pool) {
		p.metrics = m
	}
}

// WithLimits sets the cache limits.  Zero-valued fields keep their default.
func WithLimits(l Limits) Option {
	if l.MaxCacheEntries == 0 {
		l.MaxCacheEntries = DefaultLimits.MaxCacheEntries
	}
	if l.MaxCodepoints == 0 {
		l.MaxCodepoints = DefaultLimits.MaxCodepoints
	}
	if l.MaxHeadingDegree == 0 {
		l.MaxHeadingDegree = DefaultLimits.MaxHeadingDegree
	}
	if l.IntegerBound == 0 {
		l.IntegerBound = DefaultLimits.IntegerBound
	}

	return func(p *Pool) {
		p.limits = l
	}
}

func withDefault(opt []Option) []Option {
	return append([]Option{
		WithLogger(nil),
		WithMetrics(nil),
		WithLimits(DefaultLimits),
	}, opt...)
}
