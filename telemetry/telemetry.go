// Package telemetry records one Sample per simulation tick into a pluggable
// backend: a bounded in-memory ring or a SQLite database through gorm.
package telemetry

import (
	"errors"
	"fmt"
	"strings"
)

// Sample is the per-tick record of controller inputs and body state
type Sample struct {
	ID         uint    `gorm:"primaryKey" json:"-"`
	Run        string  `gorm:"index:idx_run_tick,priority:1" json:"run"`
	Tick       uint64  `gorm:"index:idx_run_tick,priority:2" json:"tick"`
	Time       float64 `json:"time"` // simulated seconds
	Throttle   float64 `json:"throttle"`
	Steer      float64 `json:"steer"`
	PosX       float64 `json:"posX"`
	PosY       float64 `json:"posY"`
	PosZ       float64 `json:"posZ"`
	VelX       float64 `json:"velX"`
	VelY       float64 `json:"velY"`
	VelZ       float64 `json:"velZ"`
	Heading    float64 `json:"heading"` // degrees, 0 = +Z
	Speed      float64 `json:"speed"`
	WheelOmega float64 `json:"wheelOmega"` // deg/s
	State      string  `gorm:"size:16" json:"state"`
}

// TableName keeps the table name stable if the struct is renamed
func (Sample) TableName() string { return "samples" }

// Backend is the interface all telemetry sinks satisfy
// Record is called from the tick goroutine only
type Backend interface {
	Init() error
	Record(s Sample) error
	Flush() error
	Close() error
}

// Config selects and tunes a backend
type Config struct {
	// Backend is one of none, memory, sqlite
	Backend   string `mapstructure:"backend"`
	Path      string `mapstructure:"path"`      // sqlite file, empty = in-memory
	BatchSize int    `mapstructure:"batchSize"` // sqlite insert batch
	Capacity  int    `mapstructure:"capacity"`  // memory ring size
}

func DefaultConfig() Config {
	return Config{Backend: "none", BatchSize: 500, Capacity: 10000}
}

var ErrUnknownBackend = errors.New("unknown telemetry backend")

// NewBackend creates a telemetry backend based on configuration
// The returned backend still needs Init
func NewBackend(cfg Config) (Backend, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "none":
		return Nop{}, nil
	case "memory":
		return NewMemory(cfg.Capacity), nil
	case "sqlite":
		return NewSQLite(SQLiteConfig{Path: cfg.Path, BatchSize: cfg.BatchSize}), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend)
	}
}

// Nop discards every sample
type Nop struct{}

func (Nop) Init() error         { return nil }
func (Nop) Record(Sample) error { return nil }
func (Nop) Flush() error        { return nil }
func (Nop) Close() error        { return nil }
