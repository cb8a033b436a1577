package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/dlog/attrs"
	"github.com/teranos/dlog/errors"
	dlogtest "github.com/teranos/dlog/internal/testing"
	"github.com/teranos/dlog/types"
	"github.com/teranos/dlog/units"
	"github.com/teranos/dlog/value"
)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t).Sugar())}, opts...)
	return NewStore(t.TempDir(), opts...)
}

func sleepFact(t *testing.T) *types.Fact {
	t.Helper()
	f, err := types.NewFact("sleep", "5", []string{"hr"}, []string{"dreamt"}, nil)
	require.NoError(t, err)
	return f
}

func TestGetOrCreate(t *testing.T) {
	s := newTestStore(t)
	rec, err := types.NewRecord("gym", "")
	require.NoError(t, err)

	first, err := s.GetOrCreate(rec)
	require.NoError(t, err)
	second, err := s.GetOrCreate(rec)
	require.NoError(t, err, "a second call must not fail with already exists")
	assert.Equal(t, first, second)
	assert.Equal(t, filepath.Join(s.DataDir(), "gym", "gym.csv"), first)

	_, err = os.Stat(filepath.Join(s.DataDir(), "gym", MetadataFile))
	assert.NoError(t, err)
}

func TestGetOrCreate_IdentityIsStable(t *testing.T) {
	s := newTestStore(t)

	first := s.DefaultRecord()
	_, err := s.GetOrCreate(first)
	require.NoError(t, err)

	second := s.DefaultRecord()
	assert.NotEqual(t, first.ID, second.ID, "fresh records get fresh ids")
	_, err = s.GetOrCreate(second)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "id is loaded from record.toml")
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
}

func TestGetOrCreate_RegeneratesMissingMetadata(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Join(s.DataDir(), "handmade"), 0o755))

	rec, err := types.NewRecord("handmade", "")
	require.NoError(t, err)
	_, err = s.GetOrCreate(rec)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(s.DataDir(), "handmade", MetadataFile))
	assert.NoError(t, err)
}

func TestGetOrCreate_BadMetadata(t *testing.T) {
	s := newTestStore(t)
	dir := filepath.Join(s.DataDir(), "broken")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, MetadataFile), []byte("id = [unterminated"), 0o644))

	rec, err := types.NewRecord("broken", "")
	require.NoError(t, err)
	_, err = s.GetOrCreate(rec)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfig))
}

func TestWriteRead_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	rec, err := types.NewRecord("health", "")
	require.NoError(t, err)

	f := sleepFact(t)
	_, err = s.Write(f, rec, nil)
	require.NoError(t, err)

	facts, err := s.Read(rec, nil)
	require.NoError(t, err)
	require.Len(t, facts, 1)

	got := facts[0]
	assert.Equal(t, f.ID, got.ID)
	assert.Equal(t, "sleep", got.Name)
	assert.Equal(t, value.Real(5), got.Value)
	assert.Equal(t, units.Other("hr"), got.Unit)
	assert.True(t, attrs.Has(got.Attribs, "dreamt"))
	assert.Empty(t, got.Notes)
	assert.True(t, f.CreatedAt.Truncate(1e9).Equal(got.CreatedAt))
}

func TestWriteRead_PreservesListsWithCommas(t *testing.T) {
	s := newTestStore(t)
	f, err := types.NewFact("mood", "great", nil,
		[]string{"place=home, sofa", "tired"},
		[]string{"slept badly, then ok", `path C:\x`})
	require.NoError(t, err)

	_, err = s.Write(f, nil, nil)
	require.NoError(t, err)

	facts, err := s.Read(nil, nil)
	require.NoError(t, err)
	require.Len(t, facts, 1)
	assert.Equal(t, value.Text("great"), facts[0].Value)
	assert.True(t, facts[0].Unit.IsNone())
	assert.Equal(t, f.Attribs, facts[0].Attribs)
	assert.Equal(t, f.Notes, facts[0].Notes)
}

func TestWrite_Routing(t *testing.T) {
	t.Run("record and item", func(t *testing.T) {
		s := newTestStore(t)
		rec, _ := types.NewRecord("gym", "")
		item, _ := types.NewItem("bench", rec.ID)

		dest, err := s.Write(sleepFact(t), rec, item)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(s.DataDir(), "gym", "bench.csv"), dest.Path)
		assert.NotNil(t, rec.Item("bench"), "item is registered in the record")
	})

	t.Run("record only", func(t *testing.T) {
		s := newTestStore(t)
		rec, _ := types.NewRecord("gym", "")

		dest, err := s.Write(sleepFact(t), rec, nil)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(s.DataDir(), "gym", "gym.csv"), dest.Path)
	})

	t.Run("item only defaults to inbox", func(t *testing.T) {
		s := newTestStore(t)
		item, _ := types.NewItem("bench", uuid.Nil)

		dest, err := s.Write(sleepFact(t), nil, item)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(s.DataDir(), "Inbox", "bench.csv"), dest.Path)
	})

	t.Run("item only asks the resolver", func(t *testing.T) {
		var asked string
		s := newTestStore(t, WithRecordResolver(func(item *types.Item) (*types.Record, error) {
			asked = item.Name
			return types.NewRecord("gym", "")
		}))
		item, _ := types.NewItem("bench", uuid.Nil)

		dest, err := s.Write(sleepFact(t), nil, item)
		require.NoError(t, err)
		assert.Equal(t, "bench", asked)
		assert.Equal(t, filepath.Join(s.DataDir(), "gym", "bench.csv"), dest.Path)
	})

	t.Run("neither uses inbox", func(t *testing.T) {
		s := newTestStore(t)

		dest, err := s.Write(sleepFact(t), nil, nil)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(s.DataDir(), "Inbox", "Inbox.csv"), dest.Path)
	})

	t.Run("custom inbox", func(t *testing.T) {
		elsewhere := filepath.Join(t.TempDir(), "inbox-dir")
		s := newTestStore(t, WithInbox("Desk", elsewhere))

		dest, err := s.Write(sleepFact(t), nil, nil)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(elsewhere, "Desk.csv"), dest.Path)
	})
}

func TestWrite_ItemNamedLikeRecord(t *testing.T) {
	s := newTestStore(t)
	rec, _ := types.NewRecord("Health", "")
	item, _ := types.NewItem("health", rec.ID)

	_, err := s.Write(sleepFact(t), rec, item)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidName))
	assert.NotEmpty(t, errors.GetAllHints(err))

	_, err = s.AddItem(rec, "Health")
	assert.True(t, errors.Is(err, errors.ErrInvalidName))
	assert.Nil(t, rec.Item("Health"))

	_, err = s.Write(sleepFact(t), rec, nil)
	require.NoError(t, err)
	entries, err := s.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSources_SkipItemSharingRecordFile(t *testing.T) {
	s := newTestStore(t)
	rec, _ := types.NewRecord("Health", "")
	_, err := s.Write(sleepFact(t), rec, nil)
	require.NoError(t, err)

	// record.toml written by hand or by an older version
	rec.Items = append(rec.Items, &types.Item{ID: uuid.New(), Name: "Health", RecordID: rec.ID, CreatedAt: time.Now()})
	require.NoError(t, writeMetadata(rec.DirIn(s.DataDir()), rec))

	entries, err := s.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Len(t, entries, 1, "the record file is read once")
}

func TestRecords_LeavesStrayDirectoriesAlone(t *testing.T) {
	s := newTestStore(t)
	stray := filepath.Join(s.DataDir(), "photos")
	require.NoError(t, os.MkdirAll(stray, 0o755))

	handmade := filepath.Join(s.DataDir(), "handmade")
	dlogtest.WriteFactFile(t, handmade, "handmade.csv")

	records, err := s.Records()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "handmade", records[0].Name)

	again, err := s.Records()
	require.NoError(t, err)
	assert.Equal(t, records[0].ID, again[0].ID, "a hand-made record keeps its id across reads")

	_, err = s.List(context.Background(), Filter{})
	require.NoError(t, err)
	_, err = s.Items(records[0])
	require.NoError(t, err)

	left, err := os.ReadDir(stray)
	require.NoError(t, err)
	assert.Empty(t, left, "listing writes nothing into non-record directories")
	_, err = os.Stat(filepath.Join(handmade, MetadataFile))
	assert.True(t, os.IsNotExist(err), "reading a record does not write its metadata")
}

func TestWrite_AppendsWithSingleHeader(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 3; i++ {
		_, err := s.Write(sleepFact(t), nil, nil)
		require.NoError(t, err)
	}

	data, err := os.ReadFile(filepath.Join(s.DataDir(), "Inbox", "Inbox.csv"))
	require.NoError(t, err)
	assert.Equal(t, 1, countOccurrences(string(data), "Id,Fact,Value"))

	facts, err := s.Read(nil, nil)
	require.NoError(t, err)
	assert.Len(t, facts, 3)
}

func countOccurrences(s, sub string) int {
	n := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			n++
		}
	}
	return n
}

func TestReadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file is not found", func(t *testing.T) {
		_, err := ReadFile(filepath.Join(dir, "nope.csv"))
		assert.True(t, errors.IsNotFoundError(err))
	})

	cases := []struct {
		name string
		row  string
	}{
		{"too few columns", "a,b,c"},
		{"bad id", "not-a-uuid,sleep,5,,,,Mon, 02 Jan 2006 15:04:05 -0700"},
		{"bad datetime", "9b2f8f0e-3c1a-4c1e-9d55-4f1f0b0c1a11,sleep,5,,,,yesterday-ish"},
		{"empty name", `9b2f8f0e-3c1a-4c1e-9d55-4f1f0b0c1a11,,5,,,,"Mon, 02 Jan 2006 15:04:05 -0700"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name+".csv")
			content := "Id,Fact,Value,Units,Attribute,Notes,Datetime\n" + tc.row + "\n"
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			_, err := ReadFile(path)
			require.Error(t, err)
			assert.True(t, errors.IsMalformedRowError(err), "got %v", err)
		})
	}
}

func TestReadFile_ExtraColumnsAreAttributes(t *testing.T) {
	at := time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)
	row := dlogtest.FactRow("9b2f8f0e-3c1a-4c1e-9d55-4f1f0b0c1a11", " run ", "5.0", "km", "fast", "", at) + ",shoes=new,rain"
	path := dlogtest.WriteFactFile(t, t.TempDir(), "extra.csv", row)

	facts, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, facts, 1)
	assert.Equal(t, "run", facts[0].Name, "fields are trimmed")
	assert.True(t, at.Equal(facts[0].CreatedAt))
	assert.Equal(t, []string{"fast", "shoes", "rain"}, attrs.Names(facts[0].Attribs))
	shoes, ok := attrs.Lookup(facts[0].Attribs, "shoes")
	require.True(t, ok)
	assert.Equal(t, "new", shoes.Value)
}

func TestRecordsAndItems(t *testing.T) {
	s := newTestStore(t)

	gym, _ := types.NewRecord("gym", "")
	_, err := s.AddItem(gym, "bench")
	require.NoError(t, err)
	_, err = s.AddItem(gym, "squat")
	require.NoError(t, err)
	_, err = s.Write(sleepFact(t), nil, nil)
	require.NoError(t, err)

	records, err := s.Records()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Inbox", records[0].Name)
	assert.Equal(t, "gym", records[1].Name)

	reloaded, err := s.LoadRecord("gym")
	require.NoError(t, err)
	assert.Equal(t, gym.ID, reloaded.ID)

	items, err := s.Items(reloaded)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "bench", items[0].Name)
	assert.Equal(t, gym.ID, items[0].RecordID)

	bench, err := s.Item(reloaded, "bench")
	require.NoError(t, err)
	assert.Equal(t, gym.Item("bench").ID, bench.ID)

	_, err = s.Item(reloaded, "deadlift")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestAddItem_Idempotent(t *testing.T) {
	s := newTestStore(t)
	rec, _ := types.NewRecord("gym", "")

	first, err := s.AddItem(rec, "bench")
	require.NoError(t, err)
	second, err := s.AddItem(rec, "bench")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, rec.Items, 1)
}

func TestLoadRecord_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.LoadRecord("nowhere")
	assert.True(t, errors.IsNotFoundError(err))

	inbox, err := s.LoadRecord("Inbox")
	require.NoError(t, err, "the default record always exists")
	assert.Equal(t, "Inbox", inbox.Name)
}
