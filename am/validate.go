package am

import (
	"github.com/teranos/dlog/errors"
	"github.com/teranos/dlog/temporal"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Record.Inbox == "" {
		return errors.Wrap(errors.ErrConfig, "record.inbox cannot be empty")
	}

	if _, ok := temporal.ParseWeekday(c.Data.StartOfWeek); !ok {
		return errors.Wrapf(errors.ErrConfig, "data.start_of_week must be a weekday name, got %q", c.Data.StartOfWeek)
	}

	// 0 = always use the worker pool
	if c.Storage.BatchThreshold < 0 {
		return errors.Wrapf(errors.ErrConfig, "storage.batch_threshold must be >= 0, got %d", c.Storage.BatchThreshold)
	}
	if c.Storage.BatchWorkers < 1 {
		return errors.Wrapf(errors.ErrConfig, "storage.batch_workers must be >= 1, got %d", c.Storage.BatchWorkers)
	}

	switch c.Index.Backend {
	case BackendCSV, BackendSQLite:
	default:
		return errors.Wrapf(errors.ErrConfig, "index.backend must be %q or %q, got %q", BackendCSV, BackendSQLite, c.Index.Backend)
	}

	return nil
}
