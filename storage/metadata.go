package storage

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/teranos/dlog/attrs"
	"github.com/teranos/dlog/errors"
	"github.com/teranos/dlog/types"
)

// MetadataFile holds a record's identity and items inside its directory.
const MetadataFile = "record.toml"

type recordMeta struct {
	ID          string     `toml:"id"`
	Name        string     `toml:"name"`
	Description string     `toml:"description,omitempty"`
	CreatedAt   time.Time  `toml:"created_at"`
	Items       []itemMeta `toml:"items,omitempty"`
}

type itemMeta struct {
	ID        string    `toml:"id"`
	Name      string    `toml:"name"`
	Attribs   string    `toml:"attribs,omitempty"`
	Notes     string    `toml:"notes,omitempty"`
	CreatedAt time.Time `toml:"created_at"`
}

func metadataPath(dir string) string {
	return filepath.Join(dir, MetadataFile)
}

func metaFromRecord(rec *types.Record) recordMeta {
	m := recordMeta{
		ID:          rec.ID.String(),
		Name:        rec.Name,
		Description: rec.Description,
		CreatedAt:   rec.CreatedAt,
	}
	for _, it := range rec.Items {
		m.Items = append(m.Items, itemMeta{
			ID:        it.ID.String(),
			Name:      it.Name,
			Attribs:   attrs.EncodeAttribs(it.Attribs),
			Notes:     attrs.EncodeNotes(it.Notes),
			CreatedAt: it.CreatedAt,
		})
	}
	return m
}

// readMetadata loads <dir>/record.toml. ok is false when the file is absent.
func readMetadata(dir string) (m recordMeta, ok bool, err error) {
	path := metadataPath(dir)
	if _, err := toml.DecodeFile(path, &m); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return m, false, nil
		}
		return m, false, errors.WrapConfig(err, "read "+path)
	}
	return m, true, nil
}

// applyMetadata copies stored identity onto rec and adopts the stored items.
func applyMetadata(rec *types.Record, m recordMeta, path string) error {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return errors.WrapConfig(err, "bad record id in "+path)
	}
	rec.ID = id
	rec.CreatedAt = m.CreatedAt
	if rec.Description == "" {
		rec.Description = m.Description
	}

	known := rec.Items
	rec.Items = nil
	for _, im := range m.Items {
		itemID, err := uuid.Parse(im.ID)
		if err != nil {
			return errors.WrapConfig(err, "bad item id in "+path)
		}
		rec.Items = append(rec.Items, &types.Item{
			ID:        itemID,
			Name:      im.Name,
			RecordID:  id,
			Attribs:   attrs.DecodeAttribs(im.Attribs),
			Notes:     attrs.DecodeNotes(im.Notes),
			CreatedAt: im.CreatedAt,
		})
	}
	for _, it := range known {
		if rec.Item(it.Name) == nil {
			it.RecordID = id
			rec.Items = append(rec.Items, it)
		}
	}
	return nil
}

// writeMetadata replaces <dir>/record.toml through a temp file.
func writeMetadata(dir string, rec *types.Record) error {
	tmp, err := os.CreateTemp(dir, ".record-*.toml")
	if err != nil {
		return errors.WrapIO(err, "create metadata in %s", dir)
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(metaFromRecord(rec)); err != nil {
		tmp.Close()
		return errors.WrapIO(err, "encode metadata for %s", rec.Name)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.WrapIO(err, "sync %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO(err, "close %s", tmp.Name())
	}
	return errors.WrapIO(os.Rename(tmp.Name(), metadataPath(dir)), "install metadata in %s", dir)
}
