package extensibility

import (
	"context"
	"slices"

	"github.com/comalice/sthreads/internal/core"
	"github.com/comalice/sthreads/internal/primitives"
)

// Filter decides whether a transition is forwarded.
type Filter func(tr primitives.Transition) bool

// ByCause matches transitions with any of the given causes.
func ByCause(causes ...primitives.Cause) Filter {
	return func(tr primitives.Transition) bool {
		return slices.Contains(causes, tr.Cause)
	}
}

// ByThread matches transitions of any of the given threads.
func ByThread(ids ...primitives.ThreadID) Filter {
	return func(tr primitives.Transition) bool {
		return slices.Contains(ids, tr.Thread)
	}
}

// ToState matches transitions entering any of the given states.
func ToState(states ...primitives.State) Filter {
	return func(tr primitives.Transition) bool {
		return slices.Contains(states, tr.To)
	}
}

// All matches when every filter matches. No filters match everything.
func All(filters ...Filter) Filter {
	return func(tr primitives.Transition) bool {
		for _, f := range filters {
			if !f(tr) {
				return false
			}
		}
		return true
	}
}

// Any matches when at least one filter matches.
func Any(filters ...Filter) Filter {
	return func(tr primitives.Transition) bool {
		for _, f := range filters {
			if f(tr) {
				return true
			}
		}
		return false
	}
}

// Not inverts f.
func Not(f Filter) Filter {
	return func(tr primitives.Transition) bool { return !f(tr) }
}

// FilterPublisher forwards only the transitions accepted by its filter.
type FilterPublisher struct {
	inner  core.EventPublisher
	accept Filter
}

// NewFilterPublisher creates a FilterPublisher. A nil filter forwards all.
func NewFilterPublisher(inner core.EventPublisher, accept Filter) *FilterPublisher {
	if accept == nil {
		accept = All()
	}
	return &FilterPublisher{inner: inner, accept: accept}
}

func (p *FilterPublisher) Publish(ctx context.Context, tr primitives.Transition) error {
	if !p.accept(tr) {
		return nil
	}
	return p.inner.Publish(ctx, tr)
}

func (p *FilterPublisher) Close() error {
	return p.inner.Close()
}
