// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime configuration, metrics, and debug introspection for shmchan.
//
// Provides concurrent-safe state handling primitives including:
//   - Immutable snapshot config reads and atomic updates, file/env loading
//   - Runtime observers for reload
//   - Channel telemetry bridged to Prometheus collectors
//   - State export, debug hooks, and probe registration
package control
