package telegram

import "sync"

// Registry hands out the single Poller bound to each bot credential.
//
// Two Clients constructed with the same token — even in different parts of
// the process — must not both consume the getUpdates queue: the first lookup
// creates the credential's Poller and every later lookup returns that same
// instance, so at most one cursor exists per credential for the Registry's
// lifetime. Entries are never evicted; credentials are few and long-lived.
//
// A Registry is an explicit dependency: create one at bootstrap and inject it
// wherever polling happens. Isolated tests get isolated registries instead of
// sharing hidden package state.
type Registry struct {
	mu      sync.RWMutex
	pollers map[string]*Poller
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{pollers: make(map[string]*Poller)}
}

// Poller returns the Poller for c's credential, creating it on first use.
//
// The Poller stays bound to the Client supplied at creation — endpoint and
// transport are fixed then — and lookups with other Clients for the same
// credential return the original. A nil Client or one with an empty token is
// a caller error; no entry is created.
func (r *Registry) Poller(c *Client) (*Poller, error) {
	if c == nil || c.token == "" {
		return nil, ErrEmptyToken
	}

	r.mu.RLock()
	p, ok := r.pollers[c.token]
	r.mu.RUnlock()
	if ok {
		return p, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.pollers[c.token]; ok {
		// Lost the creation race to another first lookup.
		return p, nil
	}
	p = newPoller(c)
	r.pollers[c.token] = p
	return p, nil
}

// Len reports how many credentials currently have a Poller.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pollers)
}
