package pressable

import "sync"

// RequestToken correlates an asynchronous host request with its completion.
type RequestToken uint64

// Pending maps outstanding request tokens to their continuations. Each
// request gets its own token, so concurrent requests never displace each
// other's callbacks. Register and Resolve may be called from any goroutine.
//
// The zero value is ready to use.
type Pending[T any] struct {
	mu      sync.Mutex
	next    RequestToken
	waiting map[RequestToken]func(T, error)
}

// Register stores done and returns the token that resolves it.
func (p *Pending[T]) Register(done func(T, error)) RequestToken {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.waiting == nil {
		p.waiting = make(map[RequestToken]func(T, error))
	}
	p.next++
	p.waiting[p.next] = done
	return p.next
}

// Resolve removes the continuation for tok and calls it with (v, err) outside
// the lock. It reports false for unknown or already resolved tokens.
func (p *Pending[T]) Resolve(tok RequestToken, v T, err error) bool {
	p.mu.Lock()
	done, ok := p.waiting[tok]
	delete(p.waiting, tok)
	p.mu.Unlock()
	if !ok {
		return false
	}
	if done != nil {
		done(v, err)
	}
	return true
}

// Len returns the number of outstanding requests.
func (p *Pending[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.waiting)
}

// CancelAll resolves every outstanding request with err.
func (p *Pending[T]) CancelAll(err error) {
	p.mu.Lock()
	waiting := p.waiting
	p.waiting = nil
	p.mu.Unlock()
	var zero T
	for _, done := range waiting {
		if done != nil {
			done(zero, err)
		}
	}
}
