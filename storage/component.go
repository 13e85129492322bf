package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/kbukum/voicelens/component"
	"github.com/kbukum/voicelens/logger"
)

const healthProbeKey = ".health"

// Component manages the staging backend's lifecycle.
type Component struct {
	storage Storage
	cfg     Config
	log     *logger.Logger
}

var _ component.Component = (*Component)(nil)

// NewComponent creates a storage component for the component registry.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	return &Component{cfg: cfg, log: log}
}

// Storage returns the backend, or nil before Start.
func (c *Component) Storage() Storage {
	return c.storage
}

func (c *Component) Name() string { return "storage" }

// Start builds the backend.
func (c *Component) Start(_ context.Context) error {
	s, err := New(c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("storage start: %w", err)
	}
	c.storage = s
	return nil
}

// Stop releases the backend.
func (c *Component) Stop(_ context.Context) error {
	c.storage = nil
	return nil
}

// Health writes and removes a probe object.
func (c *Component) Health(ctx context.Context) component.Health {
	if c.storage == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "storage not initialized"}
	}
	if err := c.storage.Upload(ctx, healthProbeKey, bytes.NewReader(nil)); err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: fmt.Sprintf("write probe failed: %v", err)}
	}
	_ = c.storage.Delete(ctx, healthProbeKey)
	return component.Health{Name: c.Name(), Status: component.StatusHealthy, Message: c.cfg.Provider}
}
