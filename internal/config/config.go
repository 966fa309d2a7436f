package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds server configuration.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string
	// DatabasePath is the SQLite file holding run history.
	DatabasePath string
	// MasterSecret signs operator tokens. Empty disables auth on the
	// control routes and the demo runs open.
	MasterSecret string
	Debug        bool
	// AllowedOrigins configures CORS for browser clients.
	AllowedOrigins []string

	// UpdateInterval is the simulator tick (and v4l2 default grab cadence).
	UpdateInterval time.Duration
	// ObstacleCM is the distance below which a reading counts as an obstacle.
	ObstacleCM int
	// HistoryLimit caps how many navigation updates /v1/history returns.
	HistoryLimit int
}

// Overrides optionally overrides values from environment variables.
//
// A nil pointer means "use the environment/default value".
type Overrides struct {
	Addr           *string
	DatabasePath   *string
	MasterSecret   *string
	Debug          *bool
	UpdateInterval *time.Duration
	ObstacleCM     *int
}

// Load loads server configuration from environment variables and applies any
// explicit overrides.
func Load(overrides Overrides) (*Config, error) {
	port := 5000
	if portStr := os.Getenv("PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			port = p
		}
	}

	addr := fmt.Sprintf(":%d", port)
	if overrides.Addr != nil {
		addr = *overrides.Addr
	}

	dbPath := os.Getenv("MYEYES_DB_PATH")
	if dbPath == "" {
		dbPath = "./myeyes.db"
	}
	if overrides.DatabasePath != nil {
		dbPath = *overrides.DatabasePath
	}

	masterSecret := os.Getenv("MYEYES_MASTER_SECRET")
	if overrides.MasterSecret != nil {
		masterSecret = *overrides.MasterSecret
	}

	debug := false
	if debugStr := os.Getenv("DEBUG"); debugStr == "true" || debugStr == "1" {
		debug = true
	}
	if overrides.Debug != nil {
		debug = *overrides.Debug
	}

	interval := 2 * time.Second
	if intervalStr := os.Getenv("MYEYES_UPDATE_INTERVAL"); intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("invalid MYEYES_UPDATE_INTERVAL: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("MYEYES_UPDATE_INTERVAL must be positive")
		}
		interval = d
	}
	if overrides.UpdateInterval != nil {
		interval = *overrides.UpdateInterval
	}

	obstacleCM := 50
	if cmStr := os.Getenv("MYEYES_OBSTACLE_CM"); cmStr != "" {
		cm, err := strconv.Atoi(cmStr)
		if err != nil || cm < 1 {
			return nil, fmt.Errorf("invalid MYEYES_OBSTACLE_CM: %q", cmStr)
		}
		obstacleCM = cm
	}
	if overrides.ObstacleCM != nil {
		obstacleCM = *overrides.ObstacleCM
	}

	historyLimit := 500
	if limitStr := os.Getenv("MYEYES_HISTORY_LIMIT"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid MYEYES_HISTORY_LIMIT: %q", limitStr)
		}
		historyLimit = n
	}

	return &Config{
		Addr:           addr,
		DatabasePath:   dbPath,
		MasterSecret:   masterSecret,
		Debug:          debug,
		AllowedOrigins: []string{"*"}, // Demo server, allow all origins
		UpdateInterval: interval,
		ObstacleCM:     obstacleCM,
		HistoryLimit:   historyLimit,
	}, nil
}

// AuthEnabled reports whether operator auth is configured.
func (c *Config) AuthEnabled() bool {
	return c.MasterSecret != ""
}
