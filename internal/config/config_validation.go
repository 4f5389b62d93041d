// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "strings"

// validate checks values shared by both binaries.
func (cfg *StructuredConfig) validate() error {
	if cfg.Feed.PageSize < 0 || cfg.Feed.ScrollProximity < 0 {
		return ErrInvalidFeedConfigs
	}
	if cfg.Feed.PullThreshold < 0 || cfg.Feed.PullResistance < 0 {
		return ErrInvalidFeedConfigs
	}
	return nil
}

func (cfg *StructuredConfig) validateServer() error {
	if cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" || cfg.App.TokenDuration <= 0 {
		return ErrInvalidAppConfigs
	}
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}
	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}
	if cfg.Realtime.Address == "" {
		return ErrInvalidRealtimeConfigs
	}
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DSN == "" || strings.Contains(cfg.Storage.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 || cfg.Adapter.MutationTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Realtime.Address == "" {
		return ErrInvalidRealtimeConfigs
	}

	if cfg.Feed.PageSize <= 0 || cfg.Feed.PullThreshold <= 0 || cfg.Feed.PullResistance <= 0 {
		return ErrInvalidFeedConfigs
	}

	if cfg.Workers.RefreshInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
