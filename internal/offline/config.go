package offline

import "time"

// Tuning defaults. Efficiency stays below 1.0 so catch-up never outpaces
// active play.
const (
	DefaultMinElapsed = 60 * time.Second
	DefaultCap        = 24 * time.Hour
	DefaultEfficiency = 0.5
)

// Config holds the offline-progress tuning knobs.
type Config struct {
	// MinElapsed is the shortest absence worth reporting; gaps below it
	// produce a zero report so brief tab-outs never trigger catch-up UI.
	MinElapsed time.Duration

	// Cap is the longest absence that earns progress. Time beyond it is
	// acknowledged in the report but not credited.
	Cap time.Duration

	// Efficiency is the fraction of the live auto rates earned while away.
	// Must sit in (0, 1).
	Efficiency float64
}

// DefaultConfig returns the standard tuning: one minute minimum, 24 hour
// cap, half-rate earnings.
func DefaultConfig() Config {
	return Config{
		MinElapsed: DefaultMinElapsed,
		Cap:        DefaultCap,
		Efficiency: DefaultEfficiency,
	}
}

// normalized replaces out-of-range values with the defaults. A negative
// minimum, a non-positive cap, or an efficiency outside (0, 1) falls back;
// an explicit zero minimum is kept.
func (c Config) normalized() Config {
	if c.MinElapsed < 0 {
		c.MinElapsed = DefaultMinElapsed
	}
	if c.Cap <= 0 {
		c.Cap = DefaultCap
	}
	if c.Efficiency <= 0 || c.Efficiency >= 1 {
		c.Efficiency = DefaultEfficiency
	}
	return c
}
