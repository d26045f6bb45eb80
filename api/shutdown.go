// File: api/shutdown.go
// Package api defines unified graceful shutdown contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// GracefulShutdown unifies teardown across library components.
type GracefulShutdown interface {
	// Shutdown stops the component and releases its resources.
	Shutdown() error
}
