package async

import "sync/atomic"

// Gate hands out generation tokens so callers can drop deliveries from
// superseded work. Take a token with Next before starting work and check it
// with Current when the callback arrives.
type Gate struct {
	generation atomic.Uint64
}

// Next starts a new generation and returns its token.
// Tokens from earlier generations stop being current.
func (g *Gate) Next() uint64 {
	return g.generation.Add(1)
}

// Current reports whether token belongs to the latest generation
func (g *Gate) Current(token uint64) bool {
	return g.generation.Load() == token
}
