package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/trebuchet-org/c2d/internal/domain/config"
	"github.com/trebuchet-org/c2d/internal/domain/models"
	"github.com/trebuchet-org/c2d/internal/usecase"
)

// Recorder holds the deployment counters on its own registry so a run can
// dump exactly what it observed.
type Recorder struct {
	registry *prometheus.Registry
	network  string

	Deployments     *prometheus.CounterVec
	AddressSources  *prometheus.CounterVec
	AddressMismatch prometheus.Counter
	Upgrades        *prometheus.CounterVec
}

// NewRecorder registers all counters on a fresh registry
func NewRecorder(network string) *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	labels := prometheus.Labels{"network": network}

	return &Recorder{
		registry: reg,
		network:  network,

		Deployments: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "c2d_deployments_total",
			Help:        "Deterministic deployment steps by kind and outcome",
			ConstLabels: labels,
		}, []string{"kind", "outcome"}),

		AddressSources: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "c2d_address_source_total",
			Help:        "Where deployed addresses were resolved from",
			ConstLabels: labels,
		}, []string{"source"}),

		AddressMismatch: factory.NewCounter(prometheus.CounterOpts{
			Name:        "c2d_address_mismatch_total",
			Help:        "Deployments whose event address differed from the prediction",
			ConstLabels: labels,
		}),

		Upgrades: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "c2d_upgrades_total",
			Help:        "Proxy upgrades by outcome",
			ConstLabels: labels,
		}, []string{"outcome"}),
	}
}

// ProvideRecorder creates the recorder for the active network
func ProvideRecorder(cfg *config.RuntimeConfig) *Recorder {
	return NewRecorder(cfg.NetworkName)
}

func (r *Recorder) ObserveDeployment(kind string, outcome models.DeployOutcome) {
	r.Deployments.WithLabelValues(kind, string(outcome)).Inc()
}

func (r *Recorder) ObserveAddressSource(source models.AddressSource) {
	r.AddressSources.WithLabelValues(string(source)).Inc()
}

func (r *Recorder) ObserveAddressMismatch() {
	r.AddressMismatch.Inc()
}

func (r *Recorder) ObserveUpgrade(outcome string) {
	r.Upgrades.WithLabelValues(outcome).Inc()
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the counters in Prometheus text format, suitable for
// the node exporter textfile collector
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

var _ usecase.DeployMetrics = (*Recorder)(nil)
