// Package storage persists facts as CSV files under a per-record directory
// tree:
//
//	<data_dir>/<record>/record.toml     record identity and items
//	<data_dir>/<record>/<record>.csv    entries logged to the record itself
//	<data_dir>/<record>/<item>.csv      entries logged to an item
//
// Files are opened for the duration of one call and never held across calls.
package storage

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/dlog/errors"
	"github.com/teranos/dlog/logger"
	"github.com/teranos/dlog/types"
)

// Default batch settings
const (
	DefaultBatchThreshold = 4
	DefaultBatchWorkers   = 4
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// RecordResolver picks the record for an item given without one. A nil
// record means the default record.
type RecordResolver func(item *types.Item) (*types.Record, error)

// Store is the CSV storage engine rooted at a data directory.
type Store struct {
	dataDir  string
	inbox    string
	inboxDir string
	resolve  RecordResolver
	logger   *zap.SugaredLogger

	batchThreshold int
	batchWorkers   int
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithInbox renames the default record and optionally moves its directory.
func WithInbox(name, dir string) Option {
	return func(s *Store) {
		if name != "" {
			s.inbox = name
		}
		s.inboxDir = dir
	}
}

// WithRecordResolver sets how item-only writes choose a record.
func WithRecordResolver(fn RecordResolver) Option {
	return func(s *Store) { s.resolve = fn }
}

// WithBatch sets the sequential threshold and worker count of ReadAll.
func WithBatch(threshold, workers int) Option {
	return func(s *Store) {
		if threshold >= 0 {
			s.batchThreshold = threshold
		}
		if workers > 0 {
			s.batchWorkers = workers
		}
	}
}

// NewStore creates a store over dataDir. The directory itself is created by
// the caller (see am.DataDir).
func NewStore(dataDir string, opts ...Option) *Store {
	s := &Store{
		dataDir:        dataDir,
		inbox:          types.DefaultRecordName,
		logger:         logger.ComponentLogger("storage"),
		batchThreshold: DefaultBatchThreshold,
		batchWorkers:   DefaultBatchWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DataDir returns the root directory
func (s *Store) DataDir() string { return s.dataDir }

// InboxName returns the name of the default record
func (s *Store) InboxName() string { return s.inbox }

// DefaultRecord returns an unsaved default record bound to its directory.
func (s *Store) DefaultRecord() *types.Record {
	rec := types.DefaultRecord(s.dataDir)
	rec.Name = s.inbox
	rec.Dir = types.RecordDir(s.dataDir, s.inbox)
	if s.inboxDir != "" {
		rec.Dir = s.inboxDir
	}
	return rec
}

// NewRecord builds an unsaved record with its directory resolved.
func (s *Store) NewRecord(name string) (*types.Record, error) {
	if name == s.inbox {
		return s.DefaultRecord(), nil
	}
	return types.NewRecord(name, "")
}

// GetOrCreate ensures the directory, metadata and own CSV file of rec exist
// and returns the CSV path. An existing record.toml is loaded into rec, so the
// id and creation time of a record survive across calls. Calling it again
// never fails for "already exists".
func (s *Store) GetOrCreate(rec *types.Record) (string, error) {
	dir := rec.DirIn(s.dataDir)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", errors.WrapIO(err, "create record directory %s", dir)
	}

	m, ok, err := readMetadata(dir)
	if err != nil {
		return "", err
	}
	if ok {
		if err := applyMetadata(rec, m, metadataPath(dir)); err != nil {
			return "", err
		}
		if m.Description == "" && rec.Description != "" {
			if err := writeMetadata(dir, rec); err != nil {
				return "", err
			}
		}
	} else {
		if err := writeMetadata(dir, rec); err != nil {
			return "", err
		}
		s.logger.Debugw("Created record",
			logger.FieldRecord, rec.Name,
			logger.FieldPath, dir,
		)
	}

	path := rec.CSVPath(s.dataDir)
	if err := ensureFactFile(path); err != nil {
		return "", err
	}
	return path, nil
}

// LoadRecord looks up an existing record by name without writing to it.
// Unknown names are ErrNotFound; the default record is created on demand.
func (s *Store) LoadRecord(name string) (*types.Record, error) {
	rec, err := s.NewRecord(name)
	if err != nil {
		return nil, err
	}
	dir := rec.DirIn(s.dataDir)
	if _, err := os.Stat(dir); err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.WrapIO(err, "stat record %s", name)
		}
		if name != s.inbox {
			return nil, errors.NewNotFoundError("record %q", name)
		}
		if _, err := s.GetOrCreate(rec); err != nil {
			return nil, err
		}
		return rec, nil
	}
	m, ok, err := readMetadata(dir)
	if err != nil {
		return nil, err
	}
	if !ok {
		// hand-made directory: derive a stable id from its location
		rec.ID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+filepath.ToSlash(dir)))
		return rec, nil
	}
	if err := applyMetadata(rec, m, metadataPath(dir)); err != nil {
		return nil, err
	}
	return rec, nil
}

// loadMetadata fills rec from its record.toml when there is one
func (s *Store) loadMetadata(rec *types.Record) error {
	dir := rec.DirIn(s.dataDir)
	m, ok, err := readMetadata(dir)
	if err != nil || !ok {
		return err
	}
	return applyMetadata(rec, m, metadataPath(dir))
}

// isRecordDir reports whether dir holds a record: its record.toml or its own
// fact file.
func isRecordDir(dir, name string) bool {
	for _, p := range []string{metadataPath(dir), filepath.Join(dir, name+".csv")} {
		if _, err := os.Stat(p); err == nil {
			return true
		}
	}
	return false
}

// Records lists the records under the data directory, sorted by name. The
// default record is included when it lives elsewhere. Directories without
// record.toml or <name>.csv are not records and are left untouched.
func (s *Store) Records() ([]*types.Record, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapIO(err, "list %s", s.dataDir)
	}

	var records []*types.Record
	seen := make(map[string]bool)
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if e.Name() == s.inbox && s.inboxDir != "" {
			continue
		}
		if !isRecordDir(filepath.Join(s.dataDir, e.Name()), e.Name()) {
			continue
		}
		rec, err := s.LoadRecord(e.Name())
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
		seen[rec.Name] = true
	}
	if !seen[s.inbox] && s.inboxDir != "" && isRecordDir(s.inboxDir, s.inbox) {
		rec, err := s.LoadRecord(s.inbox)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })
	return records, nil
}

// AddItem registers an item in rec, creating its file. Adding an existing
// name returns the stored item.
func (s *Store) AddItem(rec *types.Record, name string) (*types.Item, error) {
	if _, err := s.GetOrCreate(rec); err != nil {
		return nil, err
	}
	before := len(rec.Items)
	item, err := rec.AddItem(name)
	if err != nil {
		return nil, err
	}
	if len(rec.Items) == before {
		return item, nil
	}
	if err := writeMetadata(rec.DirIn(s.dataDir), rec); err != nil {
		return nil, err
	}
	if err := ensureFactFile(rec.ItemPath(s.dataDir, item)); err != nil {
		return nil, err
	}
	s.logger.Debugw("Created item",
		logger.FieldRecord, rec.Name,
		logger.FieldItem, item.Name,
	)
	return item, nil
}

// Item looks up an item of rec by name. Unknown names are ErrNotFound.
func (s *Store) Item(rec *types.Record, name string) (*types.Item, error) {
	items, err := s.Items(rec)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if it.Name == name {
			return it, nil
		}
	}
	return nil, errors.NewNotFoundError("item %q in record %q", name, rec.Name)
}

// Items lists the items of rec: those in its metadata plus any item file
// created by hand.
func (s *Store) Items(rec *types.Record) ([]*types.Item, error) {
	if err := s.loadMetadata(rec); err != nil {
		return nil, err
	}
	dir := rec.DirIn(s.dataDir)
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.WrapIO(err, "list %s", dir)
	}

	items := append([]*types.Item(nil), rec.Items...)
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".csv")
		if !ok || e.IsDir() || name == rec.Name || rec.Item(name) != nil {
			continue
		}
		item, err := types.NewItem(name, rec.ID)
		if err != nil {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

// Destination is where Write put a fact. Item is empty for the record's own
// file.
type Destination struct {
	Record string
	Item   string
	Path   string
}

// Write appends f to the file chosen by the (rec, item) combination:
//   - both: <rec>/<item>.csv
//   - record only: <rec>/<rec>.csv
//   - item only: the resolver picks a record (default record without one),
//     then as both
//   - neither: the default record's own file
func (s *Store) Write(f *types.Fact, rec *types.Record, item *types.Item) (Destination, error) {
	var dest Destination
	if rec == nil && item != nil && s.resolve != nil {
		resolved, err := s.resolve(item)
		if err != nil {
			return dest, errors.Wrapf(err, "choose record for item %s", item.Name)
		}
		rec = resolved
	}
	if rec == nil {
		rec = s.DefaultRecord()
	}

	path, err := s.GetOrCreate(rec)
	if err != nil {
		return dest, err
	}
	dest.Record = rec.Name

	if item != nil {
		if item, err = s.AddItem(rec, item.Name); err != nil {
			return dest, err
		}
		path = rec.ItemPath(s.dataDir, item)
		dest.Item = item.Name
	}

	if err := appendRow(path, EncodeFact(f)); err != nil {
		return dest, err
	}
	dest.Path = path
	s.logger.Debugw("Wrote fact",
		logger.FieldFact, f.Name,
		logger.FieldFactID, f.ID.String(),
		logger.FieldRecord, dest.Record,
		logger.FieldPath, path,
	)
	return dest, nil
}

// Read returns the facts of rec (the default record when nil), or of one of
// its items.
func (s *Store) Read(rec *types.Record, item *types.Item) ([]*types.Fact, error) {
	if rec == nil {
		rec = s.DefaultRecord()
	}
	path := rec.CSVPath(s.dataDir)
	if item != nil {
		path = rec.ItemPath(s.dataDir, item)
	}
	return ReadFile(path)
}

// ReadFile decodes every row of a fact file after the header.
func ReadFile(path string) ([]*types.Fact, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapNotFound(err, "open "+path)
		}
		return nil, errors.WrapIO(err, "open %s", path)
	}
	defer file.Close()
	return decodeRows(path, file, 1)
}

// decodeRows parses CSV from r; firstRow is the row number of the first line.
func decodeRows(path string, r io.Reader, firstRow int) ([]*types.Fact, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	facts := make([]*types.Fact, 0)
	for row := firstRow; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			return facts, nil
		}
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "%s row %d", path, row), errors.ErrMalformedRow)
		}
		if row == 1 || isHeader(record) {
			continue
		}
		f, err := DecodeFact(path, row, record)
		if err != nil {
			return nil, err
		}
		facts = append(facts, f)
	}
}

// ensureFactFile creates path with a header row when it does not exist.
func ensureFactFile(path string) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return errors.WrapIO(err, "create %s", path)
	}
	writer := csv.NewWriter(file)
	writer.Write(FactHeader)
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return errors.WrapIO(err, "write header to %s", path)
	}
	return errors.WrapIO(file.Close(), "close %s", path)
}

// appendRow appends one row to path, writing the header first if the file
// is empty.
func appendRow(path string, row []string) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return errors.WrapIO(err, "create %s", filepath.Dir(path))
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, filePerm)
	if err != nil {
		return errors.WrapIO(err, "open %s", path)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return errors.WrapIO(err, "stat %s", path)
	}

	writer := csv.NewWriter(file)
	if info.Size() == 0 {
		writer.Write(FactHeader)
	}
	writer.Write(row)
	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.WrapIO(err, "append to %s", path)
	}
	return errors.WrapIO(file.Sync(), "sync %s", path)
}
