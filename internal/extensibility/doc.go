// Package extensibility provides EventPublisher decorators: logging,
// fan-out and filtering of thread transitions.
package extensibility
