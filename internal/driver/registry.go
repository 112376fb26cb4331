// internal/driver/registry.go
package driver

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"device-gateway/internal/model"
	"device-gateway/pkg/driver"
)

// Registry maps driver names from client requests to registered scale and
// printer drivers.
type Registry struct {
	mu       sync.RWMutex
	scales   map[string]driver.ScaleDriver
	printers map[string]driver.PrinterDriver
	logger   *zap.Logger
}

// NewRegistry creates a new driver registry
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		scales:   make(map[string]driver.ScaleDriver),
		printers: make(map[string]driver.PrinterDriver),
		logger:   logger,
	}
}

// RegisterScale registers a scale driver under its name
func (r *Registry) RegisterScale(d driver.ScaleDriver) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := d.Name()
	if _, exists := r.scales[name]; exists {
		return fmt.Errorf("scale driver already registered: %s", name)
	}
	if _, exists := r.printers[name]; exists {
		return fmt.Errorf("driver name already taken by a printer: %s", name)
	}

	r.scales[name] = d
	r.logger.Info("Scale driver registered", zap.String("driver", name))
	return nil
}

// RegisterPrinter registers a printer driver under its name
func (r *Registry) RegisterPrinter(d driver.PrinterDriver) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := d.Name()
	if _, exists := r.printers[name]; exists {
		return fmt.Errorf("printer driver already registered: %s", name)
	}
	if _, exists := r.scales[name]; exists {
		return fmt.Errorf("driver name already taken by a scale: %s", name)
	}

	r.printers[name] = d
	r.logger.Info("Printer driver registered", zap.String("driver", name))
	return nil
}

// Scale returns the scale driver registered under name
func (r *Registry) Scale(name string) (driver.ScaleDriver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.scales[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrDriverNotFound, name)
	}
	return d, nil
}

// Printer returns the printer driver registered under name
func (r *Registry) Printer(name string) (driver.PrinterDriver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.printers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrDriverNotFound, name)
	}
	return d, nil
}

// ListDrivers returns all registered driver names, sorted
func (r *Registry) ListDrivers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.scales)+len(r.printers))
	for name := range r.scales {
		names = append(names, name)
	}
	for name := range r.printers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
