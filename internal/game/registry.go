package game

import (
	"fmt"
	"sync"
)

// Registry manages all registered game server drivers
type Registry struct {
	mu      sync.RWMutex
	drivers map[Type]Driver
}

// NewRegistry creates a new driver registry
func NewRegistry() *Registry {
	return &Registry{
		drivers: make(map[Type]Driver),
	}
}

// Register adds a game driver to the registry
func (r *Registry) Register(driver Driver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drivers[driver.Type()] = driver
}

// Get retrieves a driver by game type
func (r *Registry) Get(gameType Type) (Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	driver, ok := r.drivers[gameType]
	if !ok {
		return nil, fmt.Errorf("unknown game type: %s", gameType)
	}
	return driver, nil
}

// List returns information about all registered games
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	games := make([]Info, 0, len(r.drivers))
	for _, driver := range r.drivers {
		games = append(games, Info{
			Type:        driver.Type(),
			Name:        driver.Name(),
			Description: driver.Description(),
		})
	}
	return games
}

// Info contains display information about a game
type Info struct {
	Type        Type
	Name        string
	Description string
}
