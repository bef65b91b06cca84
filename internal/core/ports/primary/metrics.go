package primary

import "time"

// ValidationMetrics receives counters and timings from the validation service.
type ValidationMetrics interface {
	ObserveRequest(result string, duration time.Duration)
	ObserveOutcome(status string, mode string)
	ObserveExecution(mode string, duration time.Duration)
	ObservePersistFailure()
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) ObserveRequest(string, time.Duration)   {}
func (NoopMetrics) ObserveOutcome(string, string)          {}
func (NoopMetrics) ObserveExecution(string, time.Duration) {}
func (NoopMetrics) ObservePersistFailure()                 {}
