package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/dlog/attrs"
	"github.com/teranos/dlog/errors"
	"github.com/teranos/dlog/logger"
	"github.com/teranos/dlog/sym"
	"github.com/teranos/dlog/types"
	"github.com/teranos/dlog/units"
)

// Query constants
const (
	FactTypeSelectQuery = `
		SELECT id, name, unit, attribs, notes, created_at
		FROM fact_types WHERE name = ?`

	FactTypeListQuery = `
		SELECT id, name, unit, attribs, notes, created_at
		FROM fact_types ORDER BY name`

	FactTypeInsertQuery = `
		INSERT INTO fact_types (id, name, unit, attribs, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	FactTypeUpdateQuery = `
		UPDATE fact_types SET unit = ?, attribs = ?, notes = ? WHERE id = ?`
)

// SQLFactTypeStore keeps fact types in the fact_types table.
type SQLFactTypeStore struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewSQLFactTypeStore creates a store over a migrated database (see
// db.OpenWithMigrations).
func NewSQLFactTypeStore(db *sql.DB, log *zap.SugaredLogger) *SQLFactTypeStore {
	if log == nil {
		log = logger.ComponentLogger("storage")
	}
	return &SQLFactTypeStore{db: db, logger: log}
}

// Close closes the underlying database
func (s *SQLFactTypeStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFactType(row rowScanner) (*types.AbstractFact, error) {
	var id, name, unit, attribList, noteList, created string
	if err := row.Scan(&id, &name, &unit, &attribList, &noteList, &created); err != nil {
		return nil, err
	}
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.Wrapf(err, "fact type %s has bad id", name)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, errors.Wrapf(err, "fact type %s has bad created_at", name)
	}
	return &types.AbstractFact{
		ID:        parsedID,
		Name:      name,
		Unit:      units.Parse(unit),
		Attribs:   attrs.DecodeAttribs(attribList),
		Notes:     attrs.DecodeNotes(noteList),
		CreatedAt: createdAt,
	}, nil
}

func (s *SQLFactTypeStore) Find(ctx context.Context, name string) (*types.AbstractFact, error) {
	ft, err := scanFactType(s.db.QueryRowContext(ctx, FactTypeSelectQuery, name))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("fact type %q", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find fact type %s", name)
	}
	return ft, nil
}

func (s *SQLFactTypeStore) FindOrCreate(ctx context.Context, ft *types.AbstractFact) (*types.AbstractFact, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, errors.Wrap(err, "begin fact type transaction")
	}
	defer tx.Rollback()

	existing, err := scanFactType(tx.QueryRowContext(ctx, FactTypeSelectQuery, ft.Name))
	switch {
	case err == sql.ErrNoRows:
		_, err = tx.ExecContext(ctx, FactTypeInsertQuery,
			ft.ID.String(),
			ft.Name,
			ft.Unit.String(),
			attrs.EncodeAttribs(ft.Attribs),
			attrs.EncodeNotes(ft.Notes),
			ft.CreatedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return nil, false, errors.Wrapf(err, "insert fact type %s", ft.Name)
		}
		if err := tx.Commit(); err != nil {
			return nil, false, errors.Wrap(err, "commit fact type")
		}
		s.logger.Debugw("Created fact type",
			logger.FieldFactType, ft.Name,
			logger.FieldSymbol, sym.DB,
		)
		return ft, true, nil
	case err != nil:
		return nil, false, errors.Wrapf(err, "find fact type %s", ft.Name)
	}

	if !existing.Merge(ft) {
		return existing, false, nil
	}
	_, err = tx.ExecContext(ctx, FactTypeUpdateQuery,
		existing.Unit.String(),
		attrs.EncodeAttribs(existing.Attribs),
		attrs.EncodeNotes(existing.Notes),
		existing.ID.String(),
	)
	if err != nil {
		return nil, false, errors.Wrapf(err, "update fact type %s", ft.Name)
	}
	if err := tx.Commit(); err != nil {
		return nil, false, errors.Wrap(err, "commit fact type")
	}
	s.logger.Debugw("Updated fact type", logger.FieldFactType, existing.Name)
	return existing, false, nil
}

func (s *SQLFactTypeStore) List(ctx context.Context) ([]*types.AbstractFact, error) {
	rows, err := s.db.QueryContext(ctx, FactTypeListQuery)
	if err != nil {
		return nil, errors.Wrap(err, "list fact types")
	}
	defer rows.Close()

	var list []*types.AbstractFact
	for rows.Next() {
		ft, err := scanFactType(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan fact type")
		}
		list = append(list, ft)
	}
	return list, errors.Wrap(rows.Err(), "iterate fact types")
}
