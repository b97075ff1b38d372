// Package server wires and runs the application's HTTP listeners.
//
// It provides orchestration for the plain and TLS listener lifecycles,
// including startup, signal handling, and graceful shutdown of all enabled
// listeners.
package server
