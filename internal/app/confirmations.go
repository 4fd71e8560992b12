package app

import (
	"sync"

	"github.com/google/uuid"
)

// confirmations holds pending delete requests, at most one per event.
type confirmations struct {
	mu      sync.Mutex
	pending map[string]string
	byEvent map[string]string
}

func newConfirmations() *confirmations {
	return &confirmations{pending: make(map[string]string), byEvent: make(map[string]string)}
}

// request issues a token for id, replacing the previous one.
func (c *confirmations) request(id string) string {
	token := uuid.NewString()
	c.mu.Lock()
	defer c.mu.Unlock()
	if previous, ok := c.byEvent[id]; ok {
		delete(c.pending, previous)
	}
	c.pending[token] = id
	c.byEvent[id] = token
	return token
}

// take consumes token if it was issued for id.
func (c *confirmations) take(token, id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if pending, ok := c.pending[token]; !ok || pending != id {
		return false
	}
	delete(c.pending, token)
	delete(c.byEvent, id)
	return true
}

func (c *confirmations) cancel(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id, ok := c.pending[token]; ok {
		delete(c.pending, token)
		delete(c.byEvent, id)
	}
}

func (c *confirmations) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
