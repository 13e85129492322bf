package storage

import (
	"fmt"
	"sync"

	"github.com/kbukum/voicelens/logger"
)

// Factory builds a Storage from validated config.
type Factory func(cfg Config, log *logger.Logger) (Storage, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]Factory)
)

// RegisterFactory makes a backend available to New. Backend packages call it
// from init.
func RegisterFactory(name string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = f
}

// New creates the backend named by cfg.Provider. The backend package must be
// imported so its factory is registered.
func New(cfg Config, log *logger.Logger) (Storage, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	factoriesMu.RLock()
	f, ok := factories[cfg.Provider]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: provider %q not registered", cfg.Provider)
	}

	l := log.WithComponent("storage")
	l.Info("initializing staging storage", logger.Fields("provider", cfg.Provider))

	s, err := f(cfg, l)
	if err != nil {
		return nil, err
	}
	if cfg.Prefix != "" {
		s = WithPrefix(s, cfg.Prefix)
	}
	return s, nil
}
