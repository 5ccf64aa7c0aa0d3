package connector

import "fmt"

// Constructor builds a Connector from provider configuration.
type Constructor func(cfg Config) (Connector, error)

var registry = map[string]Constructor{}

// Register adds a connector constructor under the given provider name.
func Register(name string, ctor Constructor) {
	registry[name] = ctor
}

// Open builds the connector for cfg.Provider.
func Open(cfg Config) (Connector, error) {
	ctor, ok := registry[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown connector provider: %s", cfg.Provider)
	}
	return ctor(cfg)
}

// Providers returns the names of all registered connector providers.
func Providers() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
