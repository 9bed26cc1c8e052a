package llm

import (
	"fmt"
	"sort"
	"sync"

	"tradedocs/internal/config"
	"tradedocs/internal/port"
)

// ProviderFactory creates a ModelClient from the LLM config.
type ProviderFactory func(cfg *config.LLMConfig) (port.ModelClient, error)

var (
	mu        sync.RWMutex
	providers = map[string]ProviderFactory{}
)

// RegisterProvider registers a model provider factory by name. Provider
// packages call it from init(), so importing a provider makes it available.
func RegisterProvider(name string, factory ProviderFactory) {
	mu.Lock()
	defer mu.Unlock()
	providers[name] = factory
}

// NewClient creates the ModelClient named by cfg.Provider.
func NewClient(cfg *config.LLMConfig) (port.ModelClient, error) {
	mu.RLock()
	factory, ok := providers[cfg.Provider]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// Providers lists the registered provider names in sorted order.
func Providers() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
