package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/alexanderramin/farmquest/internal/domain"
)

// PrometheusUseCaseObserver counts use cases and records their latency.
type PrometheusUseCaseObserver struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	rejected *prometheus.CounterVec
}

// NewPrometheusUseCaseObserver registers the use-case metrics with reg.
func NewPrometheusUseCaseObserver(reg prometheus.Registerer) (*PrometheusUseCaseObserver, error) {
	o := &PrometheusUseCaseObserver{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "farmquest_use_cases_total",
				Help: "Total number of service use cases executed",
			},
			[]string{"use_case", "success"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "farmquest_use_case_duration_seconds",
				Help:    "Duration of service use cases",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"use_case"},
		),
		rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "farmquest_validation_rejections_total",
				Help: "Use cases rejected with a validation error, by code",
			},
			[]string{"code"},
		),
	}
	for _, c := range []prometheus.Collector{o.calls, o.duration, o.rejected} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *PrometheusUseCaseObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	o.calls.WithLabelValues(event.Name, strconv.FormatBool(event.Success)).Inc()
	o.duration.WithLabelValues(event.Name).Observe(event.Duration.Seconds())

	var verr *domain.ValidationError
	if errors.As(event.Err, &verr) {
		o.rejected.WithLabelValues(string(verr.Code)).Inc()
	}
}
