package records

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mamadbah2/juicepos/internal/domain/models"
	"github.com/mamadbah2/juicepos/internal/repository/store"
)

// Repository is the CRUD surface every entity kind exposes.
type Repository[K comparable, T any] interface {
	// Find returns the record and whether it exists.
	Find(key K) (T, bool, error)
	// Get returns the record or an error wrapping models.ErrNotFound.
	Get(key K) (T, error)
	GetAll() ([]T, error)
	Put(v T) error
	Delete(key K) error
}

type collection[K comparable, T any] struct {
	tx        store.Tx
	name      string
	kind      string
	encodeKey func(K) string
	keyOf     func(T) K
}

func (c collection[K, T]) Find(key K) (T, bool, error) {
	var v T
	ok, err := c.tx.Get(c.name, c.encodeKey(key), &v)
	return v, ok, err
}

func (c collection[K, T]) Get(key K) (T, error) {
	v, ok, err := c.Find(key)
	if err != nil {
		return v, err
	}
	if !ok {
		return v, models.NotFoundf(c.kind, fmt.Sprint(key))
	}
	return v, nil
}

func (c collection[K, T]) GetAll() ([]T, error) {
	out := []T{}
	err := c.tx.ForEach(c.name, func(key string, raw []byte) error {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("%w: decode %s/%s: %v", models.ErrStorage, c.name, key, err)
		}
		out = append(out, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c collection[K, T]) Put(v T) error {
	return c.tx.Put(c.name, c.encodeKey(c.keyOf(v)), v)
}

func (c collection[K, T]) Delete(key K) error {
	return c.tx.Delete(c.name, c.encodeKey(key))
}

// sequenced is a collection keyed by store-allocated numeric ids.
type sequenced[T any] struct {
	collection[int64, T]
	setID func(*T, int64)
}

// Append allocates the next id, assigns it to v and stores v.
func (s sequenced[T]) Append(v *T) error {
	id, err := s.tx.NextID(s.name)
	if err != nil {
		return err
	}
	s.setID(v, id)
	return s.Put(*v)
}

func stringKey(k string) string { return k }

// numericKey zero-pads ids so key order matches numeric order.
func numericKey(id int64) string { return fmt.Sprintf("%020d", id) }

// ParseID converts a path or query id into a numeric record id.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, models.Validationf("invalid id %q", raw)
	}
	return id, nil
}
