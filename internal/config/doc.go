// Package config loads, merges and validates configuration.
//
// Sources are merged in this order, later non-zero values winning:
//  1. Defaults
//  2. Environment variables
//  3. Command-line flags
//  4. JSON config file (CONFIG, -c or -config)
//
// [GetServerConfig] returns the server configuration and [GetClientConfig]
// the client view.
package config
