package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the layout of the JSON config file.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
		Version       string   `json:"version"`
		LogLevel      string   `json:"log_level"`
		ShareBaseURL  string   `json:"share_base_url"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress     string   `json:"http_address"`
		RequestTimeout  Duration `json:"request_timeout"`
		ShutdownTimeout Duration `json:"shutdown_timeout"`
	} `json:"server,omitempty"`

	Realtime struct {
		Address         string   `json:"address"`
		Network         string   `json:"network"`
		MaxIdle         int      `json:"max_idle"`
		IdleTimeout     Duration `json:"idle_timeout"`
		PublishAttempts uint     `json:"publish_attempts"`
	} `json:"realtime,omitempty"`

	Adapter struct {
		HTTPAddress     string   `json:"http_address"`
		RequestTimeout  Duration `json:"request_timeout"`
		MutationTimeout Duration `json:"mutation_timeout"`
	} `json:"adapter,omitempty"`

	Feed struct {
		PageSize        int     `json:"page_size"`
		ScrollProximity int     `json:"scroll_proximity"`
		PullThreshold   float64 `json:"pull_threshold"`
		PullResistance  float64 `json:"pull_resistance"`
	} `json:"feed,omitempty"`

	Workers struct {
		RefreshInterval Duration `json:"refresh_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	return &StructuredConfig{
		App: App{
			TokenSignKey:  jsonCfg.App.TokenSignKey,
			TokenIssuer:   jsonCfg.App.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.App.TokenDuration),
			Version:       jsonCfg.App.Version,
			LogLevel:      jsonCfg.App.LogLevel,
			ShareBaseURL:  jsonCfg.App.ShareBaseURL,
		},
		Storage: Storage{DB: DB{DSN: jsonCfg.Storage.DB.DSN}},
		Server: Server{
			HTTPAddress:     jsonCfg.Server.HTTPAddress,
			RequestTimeout:  time.Duration(jsonCfg.Server.RequestTimeout),
			ShutdownTimeout: time.Duration(jsonCfg.Server.ShutdownTimeout),
		},
		Realtime: Realtime{
			Address:         jsonCfg.Realtime.Address,
			Network:         jsonCfg.Realtime.Network,
			MaxIdle:         jsonCfg.Realtime.MaxIdle,
			IdleTimeout:     time.Duration(jsonCfg.Realtime.IdleTimeout),
			PublishAttempts: jsonCfg.Realtime.PublishAttempts,
		},
		Adapter: Adapter{
			HTTPAddress:     jsonCfg.Adapter.HTTPAddress,
			RequestTimeout:  time.Duration(jsonCfg.Adapter.RequestTimeout),
			MutationTimeout: time.Duration(jsonCfg.Adapter.MutationTimeout),
		},
		Feed: Feed{
			PageSize:        jsonCfg.Feed.PageSize,
			ScrollProximity: jsonCfg.Feed.ScrollProximity,
			PullThreshold:   jsonCfg.Feed.PullThreshold,
			PullResistance:  jsonCfg.Feed.PullResistance,
		},
		Workers: Workers{RefreshInterval: time.Duration(jsonCfg.Workers.RefreshInterval)},
	}, nil
}

// Duration accepts "1h"-style strings or nanosecond numbers in JSON.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
