package storage

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/dlog/attrs"
	"github.com/teranos/dlog/errors"
	"github.com/teranos/dlog/logger"
	"github.com/teranos/dlog/types"
	"github.com/teranos/dlog/units"
)

// FactTypeStore is a name-indexed store of fact types.
type FactTypeStore interface {
	// Find returns the fact type called name, or ErrNotFound
	Find(ctx context.Context, name string) (*types.AbstractFact, error)

	// FindOrCreate stores ft under its name, or merges it into the existing
	// type of that name and returns the stored one. created reports which.
	FindOrCreate(ctx context.Context, ft *types.AbstractFact) (stored *types.AbstractFact, created bool, err error)

	// List returns all fact types sorted by name
	List(ctx context.Context) ([]*types.AbstractFact, error)
}

// FactTypesFile is the CSV fact type index inside the data directory.
const FactTypesFile = "fact_types.csv"

// FactTypeHeader is the header row of the fact type index.
var FactTypeHeader = []string{"Id", "Fact", "Units", "Attribute", "Notes", "Datetime"}

// CSVFactTypeStore keeps fact types in a single CSV file that is rewritten
// through a temp file on every change.
type CSVFactTypeStore struct {
	path   string
	mu     sync.Mutex
	logger *zap.SugaredLogger
}

// NewCSVFactTypeStore creates a store backed by path. A nil logger uses the
// storage component logger.
func NewCSVFactTypeStore(path string, log *zap.SugaredLogger) *CSVFactTypeStore {
	if log == nil {
		log = logger.ComponentLogger("storage")
	}
	return &CSVFactTypeStore{path: path, logger: log}
}

// Path returns the index file
func (s *CSVFactTypeStore) Path() string { return s.path }

func (s *CSVFactTypeStore) Find(ctx context.Context, name string) (*types.AbstractFact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load()
	if err != nil {
		return nil, err
	}
	if ft := findType(list, name); ft != nil {
		return ft, nil
	}
	return nil, errors.NewNotFoundError("fact type %q", name)
}

func (s *CSVFactTypeStore) FindOrCreate(ctx context.Context, ft *types.AbstractFact) (*types.AbstractFact, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load()
	if err != nil {
		return nil, false, err
	}
	if existing := findType(list, ft.Name); existing != nil {
		if !existing.Merge(ft) {
			return existing, false, nil
		}
		if err := s.save(list); err != nil {
			return nil, false, err
		}
		s.logger.Debugw("Updated fact type", logger.FieldFactType, existing.Name)
		return existing, false, nil
	}

	list = append(list, ft)
	if err := s.save(list); err != nil {
		return nil, false, err
	}
	s.logger.Debugw("Created fact type",
		logger.FieldFactType, ft.Name,
		logger.FieldPath, s.path,
	)
	return ft, true, nil
}

func (s *CSVFactTypeStore) List(ctx context.Context) ([]*types.AbstractFact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load()
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func findType(list []*types.AbstractFact, name string) *types.AbstractFact {
	for _, ft := range list {
		if ft.Name == name {
			return ft
		}
	}
	return nil
}

func (s *CSVFactTypeStore) load() ([]*types.AbstractFact, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapIO(err, "open %s", s.path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var list []*types.AbstractFact
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			return list, nil
		}
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "%s row %d", s.path, row), errors.ErrMalformedRow)
		}
		if isHeader(record) {
			continue
		}
		ft, err := decodeFactType(s.path, row, record)
		if err != nil {
			return nil, err
		}
		list = append(list, ft)
	}
}

func (s *CSVFactTypeStore) save(list []*types.AbstractFact) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return errors.WrapIO(err, "create %s", dir)
	}
	tmp, err := os.CreateTemp(dir, ".fact_types-*.csv")
	if err != nil {
		return errors.WrapIO(err, "create temp index in %s", dir)
	}
	defer os.Remove(tmp.Name())

	writer := csv.NewWriter(tmp)
	writer.Write(FactTypeHeader)
	for _, ft := range list {
		writer.Write(encodeFactType(ft))
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return errors.WrapIO(err, "write %s", tmp.Name())
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.WrapIO(err, "sync %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO(err, "close %s", tmp.Name())
	}
	return errors.WrapIO(os.Rename(tmp.Name(), s.path), "replace %s", s.path)
}

func encodeFactType(ft *types.AbstractFact) []string {
	return []string{
		ft.ID.String(),
		ft.Name,
		ft.Unit.String(),
		attrs.EncodeAttribs(ft.Attribs),
		attrs.EncodeNotes(ft.Notes),
		ft.CreatedAt.Format(TimeLayout),
	}
}

func decodeFactType(path string, row int, record []string) (*types.AbstractFact, error) {
	if len(record) < len(FactTypeHeader) {
		return nil, errors.NewMalformedRowError(path, row, "need 6 columns")
	}
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}
	id, err := uuid.Parse(record[0])
	if err != nil {
		return nil, errors.NewMalformedRowError(path, row, "bad id "+record[0])
	}
	if record[1] == "" {
		return nil, errors.NewMalformedRowError(path, row, "empty fact type name")
	}
	created, err := time.Parse(TimeLayout, record[5])
	if err != nil {
		return nil, errors.NewMalformedRowError(path, row, "bad datetime "+record[5])
	}
	return &types.AbstractFact{
		ID:        id,
		Name:      record[1],
		Unit:      units.Parse(record[2]),
		Attribs:   attrs.DecodeAttribs(record[3]),
		Notes:     attrs.DecodeNotes(record[4]),
		CreatedAt: created,
	}, nil
}
