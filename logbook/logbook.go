// Package logbook ties the pieces together: it gathers missing fields, finds
// or creates the fact type, builds the entry and routes the write.
package logbook

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/dlog/am"
	"github.com/teranos/dlog/db"
	"github.com/teranos/dlog/errors"
	"github.com/teranos/dlog/logger"
	"github.com/teranos/dlog/prompt"
	"github.com/teranos/dlog/storage"
	"github.com/teranos/dlog/sym"
	"github.com/teranos/dlog/types"
)

// Logbook logs and lists facts over a store and a fact type index.
type Logbook struct {
	store     *storage.Store
	factTypes storage.FactTypeStore
	prompter  prompt.Prompter
	typed     bool
	logger    *zap.SugaredLogger
}

// Option configures a Logbook
type Option func(*Logbook)

// WithPrompter sets who is asked for missing fields. Without one, missing
// fields are errors.
func WithPrompter(p prompt.Prompter) Option {
	return func(lb *Logbook) { lb.prompter = p }
}

// WithTypedValues makes every entry use the rich value chain
func WithTypedValues(typed bool) Option {
	return func(lb *Logbook) { lb.typed = typed }
}

// WithLogger sets the logger
func WithLogger(l *zap.SugaredLogger) Option {
	return func(lb *Logbook) {
		if l != nil {
			lb.logger = l
		}
	}
}

// New creates a logbook over an existing store and index.
func New(store *storage.Store, factTypes storage.FactTypeStore, opts ...Option) *Logbook {
	lb := &Logbook{
		store:     store,
		factTypes: factTypes,
		logger:    logger.ComponentLogger("logbook"),
	}
	for _, opt := range opts {
		opt(lb)
	}
	return lb
}

// Open builds a logbook from configuration: it resolves the data directory,
// opens the configured fact type index and wires record prompting.
func Open(cfg *am.Config, opts ...Option) (*Logbook, error) {
	dataDir, err := am.DataDir(cfg)
	if err != nil {
		return nil, err
	}
	inboxDir, err := cfg.InboxDir()
	if err != nil {
		return nil, err
	}

	lb := New(nil, nil, append([]Option{WithTypedValues(cfg.Fact.TypedValues)}, opts...)...)

	storeOpts := []storage.Option{
		storage.WithLogger(logger.ComponentLogger("storage")),
		storage.WithInbox(cfg.Record.Inbox, inboxDir),
		storage.WithBatch(cfg.Storage.BatchThreshold, cfg.Storage.BatchWorkers),
	}
	if cfg.Record.PromptForRecord && lb.prompter != nil {
		storeOpts = append(storeOpts, storage.WithRecordResolver(lb.resolveRecord))
	}
	lb.store = storage.NewStore(dataDir, storeOpts...)

	switch cfg.Index.Backend {
	case am.BackendSQLite:
		path, err := cfg.IndexPath(dataDir)
		if err != nil {
			return nil, err
		}
		conn, err := db.OpenWithMigrations(path, logger.ComponentLogger("db"))
		if err != nil {
			return nil, errors.WrapIO(err, "open fact type index %s", path)
		}
		lb.factTypes = storage.NewSQLFactTypeStore(conn, logger.ComponentLogger("storage"))
	default:
		lb.factTypes = storage.NewCSVFactTypeStore(
			filepath.Join(dataDir, storage.FactTypesFile), logger.ComponentLogger("storage"))
	}

	lb.logger.Debugw("Logbook opened",
		logger.FieldDataDir, dataDir,
		logger.FieldBackend, cfg.Index.Backend,
	)
	return lb, nil
}

// Close releases the fact type index
func (lb *Logbook) Close() error {
	if c, ok := lb.factTypes.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Store returns the underlying storage engine
func (lb *Logbook) Store() *storage.Store { return lb.store }

// resolveRecord asks which record an item-only write goes to
func (lb *Logbook) resolveRecord(item *types.Item) (*types.Record, error) {
	name, err := prompt.RecordFor(lb.prompter)(item)
	if err != nil || name == "" {
		return nil, err
	}
	return lb.store.NewRecord(name)
}

// Result describes one logged fact.
type Result struct {
	Fact            *types.Fact
	FactType        *types.AbstractFact
	FactTypeCreated bool
	Record          string
	Item            string
	Path            string
}

// Log records one fact. The entry and its destination are checked before the
// fact type of cmd.Name is found or created and its link fields merged; a fact
// without a unit inherits the type's.
func (lb *Logbook) Log(ctx context.Context, cmd *types.FactCommand) (*Result, error) {
	start := time.Now()
	if err := prompt.Fill(cmd, lb.prompter); err != nil {
		return nil, err
	}
	if lb.typed {
		cmd.Typed = true
	}

	f, err := cmd.ToFact()
	if err != nil {
		return nil, err
	}
	ft, err := cmd.ToAbstractFact()
	if err != nil {
		return nil, err
	}

	var rec *types.Record
	if cmd.Record != "" {
		if rec, err = lb.store.NewRecord(cmd.Record); err != nil {
			return nil, err
		}
	}
	var item *types.Item
	if cmd.Item != "" {
		if item, err = types.NewItem(cmd.Item, uuid.Nil); err != nil {
			return nil, err
		}
		if rec != nil {
			if err := rec.CheckItemName(item.Name); err != nil {
				return nil, err
			}
		}
	}

	stored, created, err := lb.factTypes.FindOrCreate(ctx, ft)
	if err != nil {
		return nil, errors.Wrapf(err, "fact type %s", cmd.Name)
	}
	stored.Apply(f)

	dest, err := lb.store.Write(f, rec, item)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Fact:            f,
		FactType:        stored,
		FactTypeCreated: created,
		Record:          dest.Record,
		Item:            dest.Item,
		Path:            dest.Path,
	}

	lb.logger.Infow("Logged fact",
		logger.FieldFact, f.Name,
		logger.FieldFactID, f.ID.String(),
		logger.FieldPath, dest.Path,
		logger.FieldSymbol, sym.Fact,
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return res, nil
}

// DefineType creates or extends a fact type without logging an entry.
func (lb *Logbook) DefineType(ctx context.Context, name string, unitTokens, linkAttribs, linkNotes []string) (*types.AbstractFact, bool, error) {
	if err := prompt.ValidateName(name); err != nil {
		return nil, false, err
	}
	ft, err := types.NewAbstractFact(name, unitTokens, linkAttribs, linkNotes)
	if err != nil {
		return nil, false, err
	}
	return lb.factTypes.FindOrCreate(ctx, ft)
}

// FactType looks up a fact type by name
func (lb *Logbook) FactType(ctx context.Context, name string) (*types.AbstractFact, error) {
	return lb.factTypes.Find(ctx, name)
}

// FactTypes lists every fact type
func (lb *Logbook) FactTypes(ctx context.Context) ([]*types.AbstractFact, error) {
	return lb.factTypes.List(ctx)
}
