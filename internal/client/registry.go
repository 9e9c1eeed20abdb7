package client

import (
	"fmt"
	"sync"
)

// Registry tracks live clients by API key so that at most one client exists
// per key at a time. It is owned by the application, not by the Client type.
type Registry struct {
	mu      sync.Mutex
	clients map[string]*Client
}

func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]*Client),
	}
}

// Register claims the API key for a client. A key that is already claimed
// yields ErrDuplicateInstance until Release is called.
func (r *Registry) Register(apiKey string, c *Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clients[apiKey]; ok {
		return fmt.Errorf("%w: key %q", ErrDuplicateInstance, apiKey)
	}

	r.clients[apiKey] = c
	return nil
}

// Release frees the API key. Releasing an unknown key is a no-op.
func (r *Registry) Release(apiKey string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.clients, apiKey)
}

// Get returns the live client for the API key, if any.
func (r *Registry) Get(apiKey string) (*Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.clients[apiKey]
	return c, ok
}

// DefaultRegistry is the process-wide registry used by the CLI.
var DefaultRegistry = NewRegistry()
