package config

import "time"

// Default data file locations, relative to the working directory.
const (
	ConfigPathBalanceDir = "configs/balance"
	ConfigPathMilestones = "configs/milestones.yaml"
)

// Database pool defaults. Overridable via DB_MAX_CONNS, DB_MAX_CONN_IDLE_TIME
// and DB_MAX_CONN_LIFETIME.
const (
	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute
)
