// control/hub.go
// Author: momentics <momentics@gmail.com>
//
// Hub bundles the config store, metrics registry, and debug probes into
// the api.Control surface external tooling consumes.

package control

import "github.com/momentics/taskpar/api"

// Ensure compile-time interface compliance.
var (
	_ api.Control = (*Hub)(nil)
	_ api.Debug   = (*DebugProbes)(nil)
)

// Hub is the combined control surface.
type Hub struct {
	Config  *ConfigStore
	Metrics *MetricsRegistry
	Probes  *DebugProbes
}

// NewHub creates a hub with fresh components.
func NewHub() *Hub {
	return &Hub{
		Config:  NewConfigStore(),
		Metrics: NewMetricsRegistry(),
		Probes:  NewDebugProbes(),
	}
}

// GetConfig returns a snapshot of the configuration.
func (h *Hub) GetConfig() map[string]any { return h.Config.GetSnapshot() }

// SetConfig merges values and dispatches reload listeners.
func (h *Hub) SetConfig(cfg map[string]any) error {
	h.Config.SetConfig(cfg)
	return nil
}

// Stats returns the latest metrics snapshot.
func (h *Hub) Stats() map[string]any { return h.Metrics.GetSnapshot() }

// OnReload registers a config reload listener.
func (h *Hub) OnReload(fn func()) { h.Config.OnReload(fn) }

// RegisterDebugProbe inserts a named debug hook.
func (h *Hub) RegisterDebugProbe(name string, fn func() any) {
	h.Probes.RegisterProbe(name, fn)
}
