package storage

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/dlog/errors"
	"github.com/teranos/dlog/logger"
	"github.com/teranos/dlog/types"
)

// Follow calls fn for every fact appended to path after Follow starts, until
// ctx is cancelled or fn returns an error. A truncated file is read again
// from the start.
func (s *Store) Follow(ctx context.Context, path string, fn func(*types.Fact) error) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.WrapNotFound(err, "follow "+path)
		}
		return errors.WrapIO(err, "stat %s", path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapIO(err, "create watcher")
	}
	defer watcher.Close()
	if err := watcher.Add(path); err != nil {
		return errors.WrapIO(err, "watch %s", path)
	}

	t := &tail{path: path, offset: info.Size()}
	s.logger.Debugw("Following fact file", logger.FieldPath, path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return errors.WrapIO(err, "watch %s", path)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) {
				continue
			}
			facts, err := t.next()
			if err != nil {
				return err
			}
			for _, f := range facts {
				if err := fn(f); err != nil {
					return err
				}
			}
		}
	}
}

// tail reads complete lines appended to a file since the last call.
type tail struct {
	path    string
	offset  int64
	row     int
	partial []byte
}

func (t *tail) next() ([]*types.Fact, error) {
	file, err := os.Open(t.path)
	if err != nil {
		return nil, errors.WrapIO(err, "open %s", t.path)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, errors.WrapIO(err, "stat %s", t.path)
	}
	if info.Size() < t.offset {
		t.offset, t.partial = 0, nil
	}
	if _, err := file.Seek(t.offset, io.SeekStart); err != nil {
		return nil, errors.WrapIO(err, "seek %s", t.path)
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.WrapIO(err, "read %s", t.path)
	}
	t.offset += int64(len(data))

	data = append(t.partial, data...)
	end := bytes.LastIndexByte(data, '\n')
	if end < 0 {
		t.partial = data
		return nil, nil
	}
	t.partial = append([]byte(nil), data[end+1:]...)
	complete := data[:end+1]

	// row numbers are relative to where following started
	first := t.row + 2
	facts, err := decodeRows(t.path, bytes.NewReader(complete), first)
	t.row += bytes.Count(complete, []byte{'\n'})
	return facts, err
}
