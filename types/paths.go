package types

import "path/filepath"

// Names are used verbatim as path segments; callers validate them first.

// RecordDir is the default directory of a record: <dataDir>/<name>.
func RecordDir(dataDir, name string) string {
	return filepath.Join(dataDir, name)
}

// DirIn returns the directory of r, falling back to the default location under
// dataDir.
func (r *Record) DirIn(dataDir string) string {
	if r.Dir != "" {
		return r.Dir
	}
	return RecordDir(dataDir, r.Name)
}

// CSVPath is <dir>/<name>.csv, the file holding the record's own entries.
func (r *Record) CSVPath(dataDir string) string {
	dir := r.DirIn(dataDir)
	return filepath.Join(dir, r.Name+".csv")
}

// ItemPath is <record dir>/<item>.csv.
func (r *Record) ItemPath(dataDir string, item *Item) string {
	return filepath.Join(r.DirIn(dataDir), item.Name+".csv")
}
