package production

import (
	"context"
	"sync"

	"github.com/comalice/sthreads/internal/primitives"
)

// ChannelPublisher forwards transitions to a Go channel.
// Non-blocking publish with drop on backpressure; Dropped counts the losses.
type ChannelPublisher struct {
	ch chan<- primitives.Transition

	mu      sync.Mutex
	closed  bool
	dropped uint64
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- primitives.Transition) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

func (p *ChannelPublisher) Publish(ctx context.Context, tr primitives.Transition) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	select {
	case p.ch <- tr:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.dropped++
		return nil
	}
}

// Close closes the output channel. Later publishes are dropped silently.
func (p *ChannelPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.ch)
	}
	return nil
}

// Dropped returns how many transitions were lost to a full channel.
func (p *ChannelPublisher) Dropped() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}
