// Package model contains domain models passed between layers.
package model

import "time"

// Level is the published availability level of the payment rail.
// The values are part of the wire format consumed by the dashboards.
type Level string

// Known levels.
const (
	LevelOK      Level = "OK"
	LevelSlow    Level = "Lento"
	LevelFlaky   Level = "Oscilando"
	LevelUnknown Level = "Desconhecido"
)

// Levels lists every known level.
func Levels() []Level {
	return []Level{LevelOK, LevelSlow, LevelFlaky, LevelUnknown}
}

// Target is a host probed by the monitor.
type Target struct {
	Name    string `koanf:"name"`
	Host    string `koanf:"host"`
	Port    int    `koanf:"port"`
	Primary bool   `koanf:"primary"`
}

// ProbeResult is the outcome of one probe against a target.
type ProbeResult struct {
	Target  string
	OK      bool
	Stage   string        // failing stage: "dns" or "tcp"; empty on success
	Latency time.Duration // TCP connect time; zero on failure
	Err     error
	At      time.Time
}

// Status is the current published status.
type Status struct {
	Level     Level
	UpdatedAt time.Time // zero until the first cycle completes
}

// FailureEvent records a transition away from LevelOK.
type FailureEvent struct {
	At      time.Time
	Service string
	Level   Level
}
