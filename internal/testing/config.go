package testing

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/teranos/dlog/am"
)

// NewConfig returns a configuration rooted at a fresh temp data directory,
// with the built-in defaults for everything else.
func NewConfig(t *testing.T, backend string) *am.Config {
	t.Helper()
	return &am.Config{
		Data:    am.DataConfig{Dir: t.TempDir(), StartOfWeek: "monday"},
		Record:  am.RecordConfig{Inbox: "Inbox"},
		Storage: am.StorageConfig{BatchThreshold: 4, BatchWorkers: 2},
		Index:   am.IndexConfig{Backend: backend},
	}
}

// FactRow is one Datetime-stamped row for WriteFactFile.
func FactRow(id, name, val, unit, attribs, notes string, at time.Time) string {
	return id + "," + name + "," + val + "," + unit + "," + attribs + "," + notes + `,"` + at.Format(time.RFC1123Z) + `"`
}

// WriteFactFile writes a fact CSV with the standard header and rows under dir.
func WriteFactFile(t *testing.T, dir, name string, rows ...string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("Failed to create %s: %v", dir, err)
	}
	content := "Id,Fact,Value,Units,Attribute,Notes,Datetime\n"
	for _, r := range rows {
		content += r + "\n"
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}
