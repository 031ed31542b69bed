// Package primitives provides the foundational data structures shared by the
// scheduler core and its production integrations.
//
// Core invariants:
//   - ThreadID values are assigned monotonically and never reused
//   - State values are plain strings so snapshots stay readable in JSON and YAML
//   - Transition records are immutable once published
package primitives
