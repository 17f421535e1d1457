package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewEvaluationsTotal returns a counter of policy evaluations by outcome
func NewEvaluationsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_policy_evaluations_total",
		Help: "Total number of policy evaluations by outcome",
	}, []string{"outcome"})
}

// NewEditsRejectedTotal returns a counter of guard rejections by operation
func NewEditsRejectedTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_edits_rejected_total",
		Help: "Total number of checkout edits refused by a guard",
	}, []string{"op"})
}

// NewSubmissionsTotal returns a counter of finished submissions by result
func NewSubmissionsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_submissions_total",
		Help: "Total number of checkout submissions by result kind",
	}, []string{"result"})
}

// Checkout groups the engine counters.
type Checkout struct {
	Evaluations   *prometheus.CounterVec
	EditsRejected *prometheus.CounterVec
	Submissions   *prometheus.CounterVec
}

// NewCheckout creates unregistered checkout counters.
func NewCheckout() *Checkout {
	return &Checkout{
		Evaluations:   NewEvaluationsTotal(),
		EditsRejected: NewEditsRejectedTotal(),
		Submissions:   NewSubmissionsTotal(),
	}
}

// Register registers every counter with reg.
func (c *Checkout) Register(reg prometheus.Registerer) error {
	for _, col := range []prometheus.Collector{c.Evaluations, c.EditsRejected, c.Submissions} {
		if err := reg.Register(col); err != nil {
			return err
		}
	}
	return nil
}

// ObserveOutcome counts one evaluation. Safe on a nil receiver.
func (c *Checkout) ObserveOutcome(outcome string) {
	if c == nil {
		return
	}
	c.Evaluations.WithLabelValues(outcome).Inc()
}

// ObserveRejected counts one guard rejection. Safe on a nil receiver.
func (c *Checkout) ObserveRejected(op string) {
	if c == nil {
		return
	}
	c.EditsRejected.WithLabelValues(op).Inc()
}

// ObserveSubmission counts one submission result. Safe on a nil receiver.
func (c *Checkout) ObserveSubmission(result string) {
	if c == nil {
		return
	}
	c.Submissions.WithLabelValues(result).Inc()
}
