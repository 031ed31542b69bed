package extensibility

import (
	"context"
	"errors"
	"log"

	"github.com/comalice/sthreads/internal/core"
	"github.com/comalice/sthreads/internal/primitives"
)

// NopPublisher discards every transition.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, primitives.Transition) error { return nil }
func (NopPublisher) Close() error                                        { return nil }

// LoggingPublisher wraps an EventPublisher and logs every transition.
type LoggingPublisher struct {
	inner  core.EventPublisher
	logger *log.Logger
}

// NewLoggingPublisher creates a LoggingPublisher wrapping inner. A nil
// logger logs through the standard logger; a nil inner publisher logs only.
func NewLoggingPublisher(inner core.EventPublisher, logger *log.Logger) *LoggingPublisher {
	if inner == nil {
		inner = NopPublisher{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &LoggingPublisher{inner: inner, logger: logger}
}

// Publish logs tr and delegates to the inner publisher.
func (p *LoggingPublisher) Publish(ctx context.Context, tr primitives.Transition) error {
	p.logger.Printf("LOG: %s", tr)
	if err := p.inner.Publish(ctx, tr); err != nil {
		p.logger.Printf("LOG: publish #%d failed: %v", tr.Seq, err)
		return err
	}
	return nil
}

func (p *LoggingPublisher) Close() error {
	return p.inner.Close()
}

// MultiPublisher fans every transition out to several publishers.
type MultiPublisher struct {
	targets []core.EventPublisher
}

// NewMultiPublisher creates a MultiPublisher. Nil targets are skipped.
func NewMultiPublisher(targets ...core.EventPublisher) *MultiPublisher {
	m := &MultiPublisher{}
	for _, t := range targets {
		if t != nil {
			m.targets = append(m.targets, t)
		}
	}
	return m
}

// Publish delivers tr to every target, even after a failure, and joins
// the errors.
func (m *MultiPublisher) Publish(ctx context.Context, tr primitives.Transition) error {
	var errs []error
	for _, t := range m.targets {
		if err := t.Publish(ctx, tr); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiPublisher) Close() error {
	var errs []error
	for _, t := range m.targets {
		if err := t.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
