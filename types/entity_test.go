package types

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/dlog/attrs"
	"github.com/teranos/dlog/errors"
	"github.com/teranos/dlog/units"
	"github.com/teranos/dlog/value"
)

var fixedNow = time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)

func withFixedClock(t *testing.T) {
	t.Helper()
	originalNow, originalID := timeNow, newID
	timeNow = func() time.Time { return fixedNow }
	t.Cleanup(func() { timeNow, newID = originalNow, originalID })
}

func TestNewFact(t *testing.T) {
	withFixedClock(t)

	t.Run("sleep 5 hr -a dreamt", func(t *testing.T) {
		f, err := NewFact("sleep", "5", []string{"hr"}, []string{"dreamt"}, nil)
		require.NoError(t, err)

		assert.Equal(t, "sleep", f.Name)
		assert.Equal(t, value.Real(5), f.Value)
		assert.Equal(t, units.Other("hr"), f.Unit)
		assert.Equal(t, []attrs.Attrib{{Name: "dreamt"}}, f.Attribs)
		assert.Empty(t, f.Notes)
		assert.Equal(t, fixedNow, f.CreatedAt)
		assert.NotEqual(t, uuid.Nil, f.ID)
	})

	t.Run("mood great", func(t *testing.T) {
		f, err := NewFact("mood", "great", nil, nil, nil)
		require.NoError(t, err)

		assert.Equal(t, value.Text("great"), f.Value)
		assert.Equal(t, units.None(), f.Unit)
		assert.Empty(t, f.Attribs)
	})

	t.Run("bare name logs true", func(t *testing.T) {
		f, err := NewFact("coffee", "", nil, nil, []string{"double shot"})
		require.NoError(t, err)

		assert.Equal(t, value.Boolean(true), f.Value)
		assert.Equal(t, []attrs.Note{{Text: "double shot"}}, f.Notes)
	})

	t.Run("attribute values", func(t *testing.T) {
		f, err := NewFact("work", "8", nil, []string{"at=home"}, nil)
		require.NoError(t, err)
		assert.Equal(t, []attrs.Attrib{attrs.WithValue("at", "home")}, f.Attribs)
	})

	t.Run("fresh ids", func(t *testing.T) {
		a, err := NewFact("x", "", nil, nil, nil)
		require.NoError(t, err)
		b, err := NewFact("x", "", nil, nil, nil)
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestNewFactErrors(t *testing.T) {
	_, err := NewFact("  ", "5", nil, nil, nil)
	assert.True(t, errors.Is(err, errors.ErrInvalidName))

	_, err = NewFact("sleep", "5", nil, []string{"=broken"}, nil)
	assert.True(t, errors.IsInvalidRequestError(err))
}

func TestNewTypedFact(t *testing.T) {
	f, err := NewTypedFact("run", "5", []string{"km"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, value.Integer(5), f.Value)

	f, err = NewTypedFact("nap", "20 min", nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, value.Duration(20*time.Minute), f.Value)
}

func TestAbstractFact(t *testing.T) {
	withFixedClock(t)

	ft, err := NewAbstractFact("sleep", []string{"hr"}, []string{"health"}, []string{"track nightly"})
	require.NoError(t, err)
	assert.Equal(t, units.Other("hr"), ft.Unit)
	assert.Equal(t, []attrs.Attrib{attrs.New("health")}, ft.Attribs)

	t.Run("merge accumulates", func(t *testing.T) {
		other, err := NewAbstractFact("sleep", nil, []string{"health", "rest"}, []string{"track nightly"})
		require.NoError(t, err)

		id := ft.ID
		assert.True(t, ft.Merge(other))
		assert.Equal(t, id, ft.ID)
		assert.Equal(t, units.Other("hr"), ft.Unit, "None unit must not replace the stored one")
		assert.Equal(t, []string{"health", "rest"}, attrs.Names(ft.Attribs))
		assert.Len(t, ft.Notes, 1)

		assert.False(t, ft.Merge(other), "second merge changes nothing")
	})

	t.Run("merge replaces unit", func(t *testing.T) {
		other, err := NewAbstractFact("sleep", []string{"hours"}, nil, nil)
		require.NoError(t, err)
		assert.True(t, ft.Merge(other))
		assert.Equal(t, units.Other("hours"), ft.Unit)
	})

	t.Run("apply default unit", func(t *testing.T) {
		f, err := NewFact("sleep", "7", nil, nil, nil)
		require.NoError(t, err)
		ft.Apply(f)
		assert.Equal(t, units.Other("hours"), f.Unit)

		f, err = NewFact("sleep", "7", []string{"min"}, nil, nil)
		require.NoError(t, err)
		ft.Apply(f)
		assert.Equal(t, units.Other("min"), f.Unit)
	})
}

func TestRecordAndItem(t *testing.T) {
	rec, err := NewRecord("gym", "")
	require.NoError(t, err)

	item, err := rec.AddItem("bench")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, item.RecordID)
	assert.True(t, rec.Owns(item))

	again, err := rec.AddItem("bench")
	require.NoError(t, err)
	assert.Same(t, item, again)
	assert.Len(t, rec.Items, 1)
	assert.Nil(t, rec.Item("squat"))

	stray, err := NewItem("stray", uuid.New())
	require.NoError(t, err)
	assert.False(t, rec.Owns(stray))

	_, err = NewRecord("", "")
	assert.Error(t, err)
	_, err = NewItem("", rec.ID)
	assert.Error(t, err)
}

func TestPaths(t *testing.T) {
	dataDir := filepath.Join("data")
	rec, err := NewRecord("gym", "")
	require.NoError(t, err)
	item, err := NewItem("bench", rec.ID)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("data", "gym"), rec.DirIn(dataDir))
	assert.Equal(t, filepath.Join("data", "gym", "gym.csv"), rec.CSVPath(dataDir))
	assert.Equal(t, filepath.Join("data", "gym", "bench.csv"), rec.ItemPath(dataDir, item))

	custom, err := NewRecord("work", filepath.Join("elsewhere", "w"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("elsewhere", "w", "work.csv"), custom.CSVPath(dataDir))
}

func TestDefaultRecord(t *testing.T) {
	rec := DefaultRecord("data")
	assert.Equal(t, "Inbox", rec.Name)
	assert.Equal(t, filepath.Join("data", "Inbox"), rec.Dir)
}

func TestFactCommand(t *testing.T) {
	cmd := &FactCommand{
		Name:        "sleep",
		Value:       "5",
		Units:       []string{"min"},
		Attribs:     []string{"dreamt"},
		LinkUnits:   []string{"hr"},
		LinkAttribs: []string{"health"},
	}

	f, err := cmd.ToFact()
	require.NoError(t, err)
	assert.Equal(t, units.Other("hr"), f.Unit, "linked unit overrides the entry unit")
	assert.Equal(t, []string{"dreamt"}, attrs.Names(f.Attribs))

	ft, err := cmd.ToAbstractFact()
	require.NoError(t, err)
	assert.Equal(t, "sleep", ft.Name)
	assert.Equal(t, []string{"health"}, attrs.Names(ft.Attribs))
	assert.NotEqual(t, attrs.Names(f.Attribs), attrs.Names(ft.Attribs))

	cmd.Typed = true
	f, err = cmd.ToFact()
	require.NoError(t, err)
	assert.Equal(t, value.Integer(5), f.Value)
}
