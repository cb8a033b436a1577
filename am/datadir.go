package am

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/teranos/dlog/errors"
	"github.com/teranos/dlog/temporal"
)

// DefaultDataDir is $XDG_DATA_HOME/dlog, or ~/.local/share/dlog
func DefaultDataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "dlog"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WrapConfig(err, "cannot determine home directory")
	}
	return filepath.Join(home, ".local", "share", "dlog"), nil
}

// DataDir resolves the configured data directory to an absolute path and
// creates it if absent
func DataDir(c *Config) (string, error) {
	dir := c.Data.Dir
	if dir == "" {
		var err error
		if dir, err = DefaultDataDir(); err != nil {
			return "", err
		}
	}

	dir, err := expandHome(dir)
	if err != nil {
		return "", err
	}
	if dir, err = filepath.Abs(dir); err != nil {
		return "", errors.WrapIO(err, "resolve data directory %s", c.Data.Dir)
	}
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		return "", errors.WrapIO(err, "create data directory %s", dir)
	}
	return dir, nil
}

// InboxDir is the directory of the default record, empty for the storage
// default
func (c *Config) InboxDir() (string, error) {
	if c.Record.InboxDir == "" {
		return "", nil
	}
	return expandHome(c.Record.InboxDir)
}

// IndexPath is where the sqlite fact type index lives
func (c *Config) IndexPath(dataDir string) (string, error) {
	if c.Index.Path == "" {
		return filepath.Join(dataDir, "fact_types.db"), nil
	}
	return expandHome(c.Index.Path)
}

// WeekStart is the configured first day of the week
func (c *Config) WeekStart() time.Weekday {
	if d, ok := temporal.ParseWeekday(c.Data.StartOfWeek); ok {
		return d
	}
	return time.Monday
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WrapConfig(err, "cannot expand "+path)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
