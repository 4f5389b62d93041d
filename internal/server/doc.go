// Package server runs the feed API over HTTP.
//
// It owns the listener lifecycle: startup, signal handling and a graceful
// shutdown bounded by the configured timeout.
package server
