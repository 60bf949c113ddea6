package telemetry

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteConfig holds configuration for the SQLite backend
type SQLiteConfig struct {
	// Path of the database file; empty keeps the database in memory
	Path      string
	BatchSize int
}

// SQLite buffers samples and writes them in batches through gorm
type SQLite struct {
	cfg SQLiteConfig
	db  *gorm.DB

	mu      sync.Mutex
	pending []Sample
}

var ErrNotInitialized = errors.New("telemetry backend not initialized")

// memDBSeq keeps in-memory databases of separate backends apart
var memDBSeq atomic.Uint64

// NewSQLite creates an unopened backend
func NewSQLite(cfg SQLiteConfig) *SQLite {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	return &SQLite{cfg: cfg, pending: make([]Sample, 0, cfg.BatchSize)}
}

// Init opens the database, sets pragmas and migrates the schema
func (b *SQLite) Init() error {
	dsn := b.cfg.Path
	if dsn == "" {
		dsn = fmt.Sprintf("file:drifter_%d?mode=memory&cache=shared", memDBSeq.Add(1))
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		CreateBatchSize:        b.cfg.BatchSize,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		closeDB(db)
		return fmt.Errorf("open sqlite %q: %w", b.cfg.Path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = MEMORY;",
		"PRAGMA synchronous = OFF;",
		"PRAGMA temp_store = MEMORY;",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			closeDB(db)
			return fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}

	if err := db.AutoMigrate(&Sample{}); err != nil {
		closeDB(db)
		return fmt.Errorf("migrate samples: %w", err)
	}
	b.db = db
	return nil
}

// closeDB releases the pool of a database that failed to initialize
func closeDB(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// Record queues a sample, writing the batch once it is full
func (b *SQLite) Record(s Sample) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return ErrNotInitialized
	}
	b.pending = append(b.pending, s)
	if len(b.pending) >= b.cfg.BatchSize {
		return b.flushLocked()
	}
	return nil
}

func (b *SQLite) Flush() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return ErrNotInitialized
	}
	return b.flushLocked()
}

func (b *SQLite) flushLocked() error {
	if len(b.pending) == 0 {
		return nil
	}
	if err := b.db.CreateInBatches(b.pending, b.cfg.BatchSize).Error; err != nil {
		return fmt.Errorf("insert %d samples: %w", len(b.pending), err)
	}
	b.pending = b.pending[:0]
	return nil
}

// Close flushes pending samples and closes the connection
func (b *SQLite) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return nil
	}
	flushErr := b.flushLocked()

	sqlDB, err := b.db.DB()
	if err != nil {
		return errors.Join(flushErr, err)
	}
	b.db = nil
	return errors.Join(flushErr, sqlDB.Close())
}

// Query returns stored samples of a run with from <= Tick <= to, in tick order
// Pending samples are flushed first
func (b *SQLite) Query(run string, from, to uint64) ([]Sample, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return nil, ErrNotInitialized
	}
	if err := b.flushLocked(); err != nil {
		return nil, err
	}
	var out []Sample
	err := b.db.Where("run = ? AND tick BETWEEN ? AND ?", run, from, to).
		Order("tick").
		Find(&out).Error
	return out, err
}

// Count returns the number of stored samples of a run
// Pending samples are flushed first, as for Query
func (b *SQLite) Count(run string) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return 0, ErrNotInitialized
	}
	if err := b.flushLocked(); err != nil {
		return 0, err
	}
	var n int64
	err := b.db.Model(&Sample{}).Where("run = ?", run).Count(&n).Error
	return n, err
}

// DumpTo writes a point-in-time copy of the database to path via VACUUM INTO
func (b *SQLite) DumpTo(path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return ErrNotInitialized
	}
	if err := b.flushLocked(); err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove existing dump: %w", err)
		}
	}
	if err := b.db.Exec("VACUUM INTO ?", path).Error; err != nil {
		return fmt.Errorf("dump database: %w", err)
	}
	return nil
}
