// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the interactive client application runtime.
//
// It restores or establishes the session, runs the terminal UI and keeps
// the background refresh of the open views alive while the feed is shown.
package client
