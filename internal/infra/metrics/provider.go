package metrics

import (
	"letsshare/config"
	"letsshare/internal/domain/service"

	"go.uber.org/fx"
)

// New returns nil when metrics are disabled. Consumers treat nil as "do not record".
func New(cfg *config.Config) *Metrics {
	if cfg.Metrics == nil || !cfg.Metrics.Enabled {
		return nil
	}

	return NewMetrics(NewRegistry())
}

// NewAuthMetrics exposes m as service.AuthMetrics, keeping the interface nil when m is.
func NewAuthMetrics(m *Metrics) service.AuthMetrics {
	if m == nil {
		return nil
	}

	return m
}

// Module provides the Prometheus metrics FX module
var Module = fx.Options(
	fx.Provide(New, NewAuthMetrics),
)
