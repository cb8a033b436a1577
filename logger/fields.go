package logger

import (
	"go.uber.org/zap"
)

// Standard field names for structured logging across dlog.
// Use these constants instead of raw strings.
const (
	FieldComponent = "component"
	FieldOperation = "operation"

	// Domain
	FieldRecord   = "record"
	FieldItem     = "item"
	FieldFact     = "fact"
	FieldFactType = "fact_type"
	FieldFactID   = "fact_id"
	FieldSymbol   = "symbol"

	// Files and paths
	FieldPath    = "path"
	FieldDataDir = "data_dir"
	FieldRow     = "row"
	FieldBackend = "backend"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount     = "count"
	FieldBatchSize = "batch_size"
	FieldWorkers   = "workers"
	FieldFailed    = "failed"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	func NewStore(dataDir string) *Store {
//	    return &Store{logger: logger.ComponentLogger("storage")}
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
//	recLogger := logger.ChildLogger(base, logger.FieldRecord, rec.Name)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
