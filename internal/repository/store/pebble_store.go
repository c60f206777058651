package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"go.uber.org/zap"

	"github.com/mamadbah2/juicepos/internal/domain/models"
)

const (
	keySeparator  = 0x00
	sequencesName = "_seq"
)

// Options tune the pebble backend.
type Options struct {
	// InMemory keeps everything in a memory filesystem. Used by tests and demos.
	InMemory bool
	Logger   *zap.Logger
}

// PebbleStore implements Store on top of PebbleDB. Each Update runs in an indexed batch
// that is committed with fsync, so a committed transaction survives a restart.
type PebbleStore struct {
	db     *pebble.DB
	mu     sync.Mutex
	logger *zap.Logger
}

// Open opens (or creates) the store under dir.
func Open(dir string, opts Options) (*PebbleStore, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	popts := &pebble.Options{
		MemTableSize:          32 << 20,
		L0CompactionThreshold: 4,
		L0StopWritesThreshold: 12,
		Logger:                logger.Sugar(),
	}
	if opts.InMemory {
		popts.FS = vfs.NewMem()
		if dir == "" {
			dir = "juicepos"
		}
	}

	db, err := pebble.Open(filepath.Clean(dir), popts)
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}
	logger.Info("record store opened", zap.String("dir", dir), zap.Bool("in_memory", opts.InMemory))
	return &PebbleStore{db: db, logger: logger}, nil
}

// Close flushes and closes the database.
func (p *PebbleStore) Close() error { return p.db.Close() }

// View runs fn against a point-in-time snapshot.
func (p *PebbleStore) View(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	snap := p.db.NewSnapshot()
	defer snap.Close()
	return fn(&pebbleTx{r: snap})
}

// Update runs fn in a write transaction. If fn returns an error nothing is written.
func (p *PebbleStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	b := p.db.NewIndexedBatch()
	defer b.Close()

	if err := fn(&pebbleTx{r: b, w: b}); err != nil {
		return err
	}
	if b.Empty() {
		return nil
	}
	if err := b.Commit(pebble.Sync); err != nil {
		p.logger.Error("commit failed", zap.Error(err))
		return fmt.Errorf("%w: commit: %v", models.ErrStorage, err)
	}
	return nil
}

type reader interface {
	Get(key []byte) ([]byte, io.Closer, error)
	NewIter(o *pebble.IterOptions) (*pebble.Iterator, error)
}

type pebbleTx struct {
	r reader
	w *pebble.Batch
}

func recordKey(collection, key string) []byte {
	k := make([]byte, 0, len(collection)+1+len(key))
	k = append(k, collection...)
	k = append(k, keySeparator)
	return append(k, key...)
}

func (t *pebbleTx) get(k []byte) ([]byte, bool, error) {
	v, closer, err := t.r.Get(k)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: get: %v", models.ErrStorage, err)
	}
	defer closer.Close()
	return append([]byte(nil), v...), true, nil
}

func (t *pebbleTx) Get(collection, key string, dst any) (bool, error) {
	raw, ok, err := t.get(recordKey(collection, key))
	if err != nil || !ok {
		return ok, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("%w: decode %s/%s: %v", models.ErrStorage, collection, key, err)
	}
	return true, nil
}

func (t *pebbleTx) Put(collection, key string, value any) error {
	if t.w == nil {
		return ErrReadOnly
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, key, err)
	}
	if err := t.w.Set(recordKey(collection, key), raw, nil); err != nil {
		return fmt.Errorf("%w: set: %v", models.ErrStorage, err)
	}
	return nil
}

func (t *pebbleTx) Delete(collection, key string) error {
	if t.w == nil {
		return ErrReadOnly
	}
	if err := t.w.Delete(recordKey(collection, key), nil); err != nil {
		return fmt.Errorf("%w: delete: %v", models.ErrStorage, err)
	}
	return nil
}

func (t *pebbleTx) ForEach(collection string, fn func(key string, raw []byte) error) error {
	lower := recordKey(collection, "")
	upper := append([]byte(collection), keySeparator+1)

	it, err := t.r.NewIter(&pebble.IterOptions{LowerBound: lower, UpperBound: upper})
	if err != nil {
		return fmt.Errorf("%w: iter: %v", models.ErrStorage, err)
	}
	defer it.Close()

	for it.First(); it.Valid(); it.Next() {
		key := string(it.Key()[len(lower):])
		raw := append([]byte(nil), it.Value()...)
		if err := fn(key, raw); err != nil {
			return err
		}
	}
	if err := it.Error(); err != nil {
		return fmt.Errorf("%w: iter: %v", models.ErrStorage, err)
	}
	return nil
}

func (t *pebbleTx) NextID(collection string) (int64, error) {
	if t.w == nil {
		return 0, ErrReadOnly
	}
	k := recordKey(sequencesName, collection)
	raw, ok, err := t.get(k)
	if err != nil {
		return 0, err
	}
	var cur int64
	if ok {
		cur, err = strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: sequence %s: %v", models.ErrStorage, collection, err)
		}
	}
	next := cur + 1
	if err := t.w.Set(k, []byte(strconv.FormatInt(next, 10)), nil); err != nil {
		return 0, fmt.Errorf("%w: set sequence: %v", models.ErrStorage, err)
	}
	return next, nil
}
