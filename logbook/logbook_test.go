package logbook

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/dlog/am"
	"github.com/teranos/dlog/attrs"
	"github.com/teranos/dlog/errors"
	dlogtest "github.com/teranos/dlog/internal/testing"
	"github.com/teranos/dlog/logger"
	"github.com/teranos/dlog/prompt"
	"github.com/teranos/dlog/storage"
	"github.com/teranos/dlog/types"
	"github.com/teranos/dlog/units"
	"github.com/teranos/dlog/value"
)

func newTestLogbook(t *testing.T, opts ...Option) *Logbook {
	t.Helper()
	dir := t.TempDir()
	log := zaptest.NewLogger(t).Sugar()
	store := storage.NewStore(dir, storage.WithLogger(log))
	index := storage.NewCSVFactTypeStore(filepath.Join(dir, storage.FactTypesFile), log)
	return New(store, index, append([]Option{WithLogger(log)}, opts...)...)
}

func TestLog_SleepScenario(t *testing.T) {
	lb := newTestLogbook(t)

	res, err := lb.Log(context.Background(), &types.FactCommand{
		Name:    "sleep",
		Value:   "5",
		Units:   []string{"hr"},
		Attribs: []string{"dreamt"},
	})
	require.NoError(t, err)

	assert.Equal(t, value.Real(5), res.Fact.Value)
	assert.Equal(t, units.Other("hr"), res.Fact.Unit)
	assert.Equal(t, []attrs.Attrib{attrs.New("dreamt")}, res.Fact.Attribs)
	assert.True(t, res.FactTypeCreated)
	assert.Equal(t, "Inbox", res.Record)

	facts, err := lb.Store().Read(nil, nil)
	require.NoError(t, err)
	require.Len(t, facts, 1)
	assert.Equal(t, "sleep", facts[0].Name)
	assert.Equal(t, value.Real(5), facts[0].Value)
	assert.True(t, attrs.Has(facts[0].Attribs, "dreamt"))
}

func TestLog_MoodScenario(t *testing.T) {
	lb := newTestLogbook(t)

	res, err := lb.Log(context.Background(), &types.FactCommand{Name: "mood", Value: "great"})
	require.NoError(t, err)
	assert.Equal(t, value.Text("great"), res.Fact.Value)
	assert.True(t, res.Fact.Unit.IsNone())
}

func TestLog_FactTypeAccumulates(t *testing.T) {
	lb := newTestLogbook(t)
	ctx := context.Background()

	first, err := lb.Log(ctx, &types.FactCommand{Name: "run", Value: "5", LinkUnits: []string{"km"}, LinkAttribs: []string{"outdoor"}})
	require.NoError(t, err)
	assert.True(t, first.FactTypeCreated)
	assert.Equal(t, units.Other("km"), first.Fact.Unit, "linked unit applies to this entry")

	second, err := lb.Log(ctx, &types.FactCommand{Name: "run", Value: "7", LinkNotes: []string{"morning"}})
	require.NoError(t, err)
	assert.False(t, second.FactTypeCreated)
	assert.Equal(t, first.FactType.ID, second.FactType.ID)
	assert.Equal(t, units.Other("km"), second.Fact.Unit, "entry without unit inherits the type's")

	third, err := lb.Log(ctx, &types.FactCommand{Name: "run", Value: "3", Units: []string{"mi"}})
	require.NoError(t, err)
	assert.Equal(t, units.Other("mi"), third.Fact.Unit, "entry unit wins over the default")

	ft, err := lb.FactType(ctx, "run")
	require.NoError(t, err)
	assert.Equal(t, units.Other("km"), ft.Unit)
	assert.True(t, attrs.Has(ft.Attribs, "outdoor"))
	assert.Equal(t, []attrs.Note{{Text: "morning"}}, ft.Notes)
}

func TestLog_Typed(t *testing.T) {
	lb := newTestLogbook(t, WithTypedValues(true))

	res, err := lb.Log(context.Background(), &types.FactCommand{Name: "reps", Value: "5"})
	require.NoError(t, err)
	assert.Equal(t, value.Integer(5), res.Fact.Value)
}

func TestLog_Routing(t *testing.T) {
	lb := newTestLogbook(t)
	ctx := context.Background()

	res, err := lb.Log(ctx, &types.FactCommand{Name: "lift", Value: "80", Record: "gym", Item: "bench"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(lb.Store().DataDir(), "gym", "bench.csv"), res.Path)
	assert.Equal(t, "gym", res.Record)

	items, err := lb.Items("gym")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "bench", items[0].Name)
}

func TestLog_PromptsForName(t *testing.T) {
	p := &prompt.Scripted{Answers: []string{"water"}}
	lb := newTestLogbook(t, WithPrompter(p))

	res, err := lb.Log(context.Background(), &types.FactCommand{Value: "2"})
	require.NoError(t, err)
	assert.Equal(t, "water", res.Fact.Name)
}

func TestLog_RejectedEntryCreatesNoFactType(t *testing.T) {
	lb := newTestLogbook(t)
	ctx := context.Background()

	_, err := lb.Log(ctx, &types.FactCommand{Name: "walk", Value: "3", Attribs: []string{"=x"}})
	require.Error(t, err)
	_, err = lb.FactType(ctx, "walk")
	assert.True(t, errors.IsNotFoundError(err), "a rejected entry leaves no fact type behind")

	_, err = lb.Log(ctx, &types.FactCommand{Name: "pulse", Value: "60", Record: "Health", Item: "Health"})
	assert.True(t, errors.Is(err, errors.ErrInvalidName))
	_, err = lb.FactType(ctx, "pulse")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestLog_InvalidNames(t *testing.T) {
	lb := newTestLogbook(t)

	_, err := lb.Log(context.Background(), &types.FactCommand{Name: "a/b"})
	assert.True(t, errors.Is(err, errors.ErrInvalidName))

	_, err = lb.Log(context.Background(), &types.FactCommand{Name: "ok", Record: "list"})
	assert.True(t, errors.Is(err, errors.ErrInvalidName))

	_, err = lb.Log(context.Background(), &types.FactCommand{})
	assert.Error(t, err)
}

func TestRecordsItemsAndStats(t *testing.T) {
	lb := newTestLogbook(t)
	ctx := context.Background()

	rec, err := lb.CreateRecord("gym", "strength work")
	require.NoError(t, err)
	again, err := lb.CreateRecord("gym", "")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, again.ID)
	assert.Equal(t, "strength work", again.Description)

	_, err = lb.CreateItem("gym", "bench")
	require.NoError(t, err)
	_, err = lb.CreateItem("nowhere", "bench")
	assert.True(t, errors.IsNotFoundError(err))

	_, err = lb.Log(ctx, &types.FactCommand{Name: "lift", Value: "80", Attribs: []string{"heavy"}, Record: "gym", Item: "bench"})
	require.NoError(t, err)
	_, err = lb.Log(ctx, &types.FactCommand{Name: "lift", Value: "60", Record: "gym"})
	require.NoError(t, err)
	_, err = lb.Log(ctx, &types.FactCommand{Name: "mood", Value: "ok", Attribs: []string{"heavy", "calm"}})
	require.NoError(t, err)

	st, err := lb.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Stats{Records: 2, Items: 1, Facts: 3, FactNames: 2, Attributes: 2, FactTypes: 2}, st)

	sum, err := lb.Describe(ctx, "gym")
	require.NoError(t, err)
	assert.Len(t, sum.Entries, 2)
	require.Len(t, sum.Record.FactTypes, 1)
	assert.Equal(t, "lift", sum.Record.FactTypes[0].Name)
	require.Len(t, sum.Record.Items, 1)

	_, err = lb.List(ctx, storage.Filter{}.InRecord("ghost"))
	assert.True(t, errors.IsNotFoundError(err))
}

func TestDefineType(t *testing.T) {
	lb := newTestLogbook(t)
	ctx := context.Background()

	ft, created, err := lb.DefineType(ctx, "meditate", []string{"for", "10", "min"}, nil, []string{"daily"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, units.Duration(600), ft.Unit)

	list, err := lb.FactTypes(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, units.Duration(600), list[0].Unit, "duration unit survives the index")

	_, _, err = lb.DefineType(ctx, "help", nil, nil, nil)
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	for _, backend := range []string{am.BackendCSV, am.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			lb, err := Open(dlogtest.NewConfig(t, backend))
			require.NoError(t, err)
			defer lb.Close()

			_, err = lb.Log(context.Background(), &types.FactCommand{Name: "sleep", Value: "7", LinkUnits: []string{"hr"}})
			require.NoError(t, err)

			ft, err := lb.FactType(context.Background(), "sleep")
			require.NoError(t, err)
			assert.Equal(t, units.Other("hr"), ft.Unit)
		})
	}
}

func TestOpen_LogsBackend(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	lb, err := Open(dlogtest.NewConfig(t, am.BackendSQLite), WithLogger(zap.New(core).Sugar()))
	require.NoError(t, err)
	defer lb.Close()

	opened := logs.FilterMessage("Logbook opened").All()
	require.Len(t, opened, 1)
	assert.Equal(t, am.BackendSQLite, opened[0].ContextMap()[logger.FieldBackend])
}

func TestOpen_PromptForRecord(t *testing.T) {
	cfg := dlogtest.NewConfig(t, am.BackendCSV)
	cfg.Record.PromptForRecord = true
	p := &prompt.Scripted{Answers: []string{"gym"}}
	lb, err := Open(cfg, WithPrompter(p))
	require.NoError(t, err)

	res, err := lb.Log(context.Background(), &types.FactCommand{Name: "lift", Value: "80", Item: "bench"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.Data.Dir, "gym", "bench.csv"), res.Path)
	assert.Equal(t, "gym", res.Record)
	assert.Len(t, p.Asked, 1)
}
