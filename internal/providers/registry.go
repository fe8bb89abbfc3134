package providers

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/QuincyMillerDev/cooliomusic/internal/config"
	"github.com/QuincyMillerDev/cooliomusic/internal/retry"
	"github.com/QuincyMillerDev/cooliomusic/internal/services"
)

// Registry holds the configured generation backends keyed by name.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// FromConfig builds a registry containing every backend enabled in the
// runtime configuration.
func FromConfig(cfg *config.Config, logger *slog.Logger) *Registry {
	registry := NewRegistry()
	if cfg == nil {
		return registry
	}
	policy := retry.FromConfig(cfg)
	if cfg.StableAudio.Enabled {
		registry.Register(NewStableAudio(cfg.StableAudio, policy, nil, logger))
	}
	if cfg.ElevenLabs.Enabled {
		registry.Register(NewElevenLabs(cfg.ElevenLabs, policy, nil, logger))
	}
	return registry
}

// Register adds or replaces a provider under its capability name.
func (r *Registry) Register(p Provider) {
	r.providers[p.Capabilities().Name] = p
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		registered := "none"
		if names := r.Names(); len(names) > 0 {
			registered = strings.Join(names, ", ")
		}
		return nil, services.Wrap(services.ErrConfiguration, "providers", "lookup",
			fmt.Sprintf("no provider named %q (registered: %s)", name, registered), nil)
	}
	return p, nil
}

// Names lists the registered provider names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports how many providers are registered.
func (r *Registry) Len() int {
	return len(r.providers)
}
