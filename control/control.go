// control/control.go
// Author: momentics <momentics@gmail.com>
//
// Control adapter implementing api.Control over the package primitives.

package control

import (
	"github.com/momentics/shmchan/api"
)

type controlAdapter struct {
	config  *ConfigStore
	metrics *MetricsRegistry
	debug   *DebugProbes
}

// New builds an api.Control backed by a fresh config store, metrics
// registry, and probe registry.
func New() api.Control {
	return &controlAdapter{
		config:  NewConfigStore(),
		metrics: NewMetricsRegistry(),
		debug:   NewDebugProbes(),
	}
}

func (c *controlAdapter) GetConfig() map[string]any {
	return c.config.GetSnapshot()
}

func (c *controlAdapter) SetConfig(cfg map[string]any) error {
	c.config.SetConfig(cfg)
	return nil
}

func (c *controlAdapter) Stats() map[string]any {
	combined := make(map[string]any)
	for k, v := range c.metrics.GetSnapshot() {
		combined[k] = v
	}
	for k, v := range c.debug.DumpState() {
		combined["debug."+k] = v
	}
	return combined
}

func (c *controlAdapter) OnReload(fn func()) {
	c.config.OnReload(fn)
}

func (c *controlAdapter) RegisterDebugProbe(name string, fn func() any) {
	c.debug.RegisterProbe(name, fn)
}
