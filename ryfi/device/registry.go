package device

/*------------------------------------------------------------------
 *
 * Purpose:	Process-wide driver registry, per §4.12 and §9's "Global
 *		driver registry" design note.
 *
 * Description:	Mirrors the teacher's single process-wide audio/PTT
 *		configuration (save_audio_config_p in ptt.go, the
 *		module-level driver tables the original source keeps) but
 *		as an explicit value type passed to entry points rather
 *		than package-level mutable state, per §9's recommendation
 *		that a language-neutral reimplementation expose an
 *		explicit Registry rather than a singleton.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps driver names to Driver instances. Registration happens
// once during initialization; reads thereafter require no locking
// beyond what protects the map itself, since no further writes occur
// after startup (the one exception: tests that build a fresh Registry
// per case).
type Registry struct {
	mu      sync.RWMutex
	drivers map[string]Driver
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{drivers: make(map[string]Driver)}
}

// Register adds a driver under its own Name(). Registering the same
// name twice replaces the previous entry.
func (r *Registry) Register(d Driver) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.drivers[d.Name()] = d
}

// Driver looks up a registered driver by name.
func (r *Registry) Driver(name string) (Driver, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.drivers[name]

	return d, ok
}

// DriverNames lists every registered driver name, sorted.
func (r *Registry) DriverNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.drivers))
	for name := range r.drivers {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// ListDevices fans Driver.List() out across every registered driver,
// the supplemented `--list` CLI behavior from the original source's
// device.cpp list().
func (r *Registry) ListDevices() ([]Info, error) {
	r.mu.RLock()
	names := r.DriverNames()
	r.mu.RUnlock()

	var all []Info

	for _, name := range names {
		d, _ := r.Driver(name)

		infos, err := d.List()
		if err != nil {
			return nil, fmt.Errorf("listing devices for driver %q: %w", name, err)
		}

		all = append(all, infos...)
	}

	return all, nil
}
