package mem

//go:generate mockgen -source=metrics.go -destination=test/metrics.go -package=test_mem

// Metrics receives counters and gauges describing cache behavior.
type Metrics interface {
	Incr(bucket string)
	Gauge(bucket string, value any)
}

type nopMetrics struct{}

func (nopMetrics) Incr(string)       {}
func (nopMetrics) Gauge(string, any) {}
