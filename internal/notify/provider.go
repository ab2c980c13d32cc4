package notify

import (
	"context"
	"fmt"
	"sync"
)

// Provider is one outbound delivery channel (SMS, chat, log). Send returns
// the channel's own message identifier when it has one.
type Provider interface {
	Code() string
	Send(ctx context.Context, recipient, message string) (providerID string, err error)
}

// Registry holds the configured providers keyed by code.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

func (r *Registry) Register(p Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := p.Code()
	if code == "" {
		return fmt.Errorf("provider code cannot be empty")
	}
	if _, exists := r.providers[code]; exists {
		return fmt.Errorf("provider %s is already registered", code)
	}
	r.providers[code] = p
	return nil
}

func (r *Registry) Get(code string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.providers[code]
	if !exists {
		return nil, fmt.Errorf("provider %s not found", code)
	}
	return p, nil
}
