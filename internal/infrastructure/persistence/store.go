package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/ledgerly/backend/internal/domain/ledger"
	"github.com/ledgerly/backend/internal/domain/shared"
)

// EntityStore is the type-erased persistence surface the action dispatcher
// works against. One implementation exists per logical type; bodies arrive
// as raw JSON and come back as the concrete entity, ready for encoding.
type EntityStore interface {
	List(ctx context.Context, owner string, page, pageSize int) (items any, total int64, err error)
	Get(ctx context.Context, owner, id string) (any, error)
	Upsert(ctx context.Context, owner string, body json.RawMessage, uniqProps []string) (any, error)
	UpsertBatch(ctx context.Context, owner string, bodies []json.RawMessage, uniqProps []string, force bool) ([]any, error)
	Update(ctx context.Context, owner, id string, body json.RawMessage) (any, error)
	Delete(ctx context.Context, owner, id string) error
}

// store implements EntityStore for one entity type. The PT constraint ties
// the pointer type to the Entity interface so identity and ownership can be
// manipulated without reflection on the hot path.
type store[T any, PT interface {
	*T
	ledger.Entity
}] struct {
	db       *gorm.DB
	owned    bool
	preloads []string
	fields   map[string]modelField // JSON field name -> column and struct index
}

// modelField locates one model field: its database column and its index
// path into the struct (through embedded structs).
type modelField struct {
	column string
	index  []int
}

func newStore[T any, PT interface {
	*T
	ledger.Entity
}](db *Database, entityType ledger.EntityType, preloads ...string) *store[T, PT] {
	var zero T
	return &store[T, PT]{
		db:       db.DB,
		owned:    entityType.Owned(),
		preloads: preloads,
		fields:   modelFieldMap(reflect.TypeOf(zero)),
	}
}

// modelFieldMap maps the JSON field names of a model onto database columns
// and struct index paths, walking embedded structs and skipping
// associations. Column names follow GORM's default naming strategy, which
// is what the migrations use.
func modelFieldMap(t reflect.Type) map[string]modelField {
	ns := schema.NamingStrategy{}
	m := make(map[string]modelField)
	var walk func(rt reflect.Type, prefix []int)
	walk = func(rt reflect.Type, prefix []int) {
		for i := 0; i < rt.NumField(); i++ {
			f := rt.Field(i)
			idx := append(append([]int(nil), prefix...), i)
			if f.Anonymous {
				ft := f.Type
				if ft.Kind() == reflect.Pointer {
					ft = ft.Elem()
				}
				if ft.Kind() == reflect.Struct {
					walk(ft, idx)
					continue
				}
			}
			if f.Type.Kind() == reflect.Slice {
				continue // association, not a column
			}
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				continue
			}
			m[name] = modelField{column: ns.ColumnName("", f.Name), index: idx}
		}
	}
	walk(t, nil)
	return m
}

// scoped returns a query constrained to the caller's rows for owned types.
func (s *store[T, PT]) scoped(q *gorm.DB, owner string) *gorm.DB {
	if s.owned && owner != "" {
		return q.Where("user_email = ?", owner)
	}
	return q
}

func (s *store[T, PT]) List(ctx context.Context, owner string, page, pageSize int) (any, int64, error) {
	var total int64
	if err := s.scoped(s.db.WithContext(ctx).Model(PT(new(T))), owner).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := s.scoped(s.db.WithContext(ctx), owner).
		Order("created_at ASC").
		Limit(pageSize).
		Offset((page - 1) * pageSize)
	for _, p := range s.preloads {
		q = q.Preload(p)
	}

	items := make([]T, 0, pageSize)
	if err := q.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *store[T, PT]) Get(ctx context.Context, owner, id string) (any, error) {
	q := s.scoped(s.db.WithContext(ctx), owner).Where("id = ?", id)
	for _, p := range s.preloads {
		q = q.Preload(p)
	}
	entity := PT(new(T))
	if err := q.First(entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return entity, nil
}

func (s *store[T, PT]) Upsert(ctx context.Context, owner string, body json.RawMessage, uniqProps []string) (any, error) {
	var result PT
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = s.upsertTx(tx, owner, body, uniqProps)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *store[T, PT]) UpsertBatch(ctx context.Context, owner string, bodies []json.RawMessage, uniqProps []string, force bool) ([]any, error) {
	results := make([]any, 0, len(bodies))
	// One transaction for the whole batch: either every element commits or
	// none do.
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, body := range bodies {
			var (
				entity PT
				err    error
			)
			if force {
				entity, err = s.createTx(tx, owner, body)
			} else {
				entity, err = s.upsertTx(tx, owner, body, uniqProps)
			}
			if err != nil {
				return err
			}
			results = append(results, entity)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// upsertTx finds an existing row by the unique properties (scoped to the
// owner) and saves the incoming body over it, carrying the prior identity
// and creation time. Absent a match it creates a fresh row. Concurrent
// upserts racing on the same key are settled by the unique indexes the
// migrations declare, not by application locking.
func (s *store[T, PT]) upsertTx(tx *gorm.DB, owner string, body json.RawMessage, uniqProps []string) (PT, error) {
	var none PT
	entity := PT(new(T))
	if err := json.Unmarshal(body, entity); err != nil {
		return none, shared.ErrInvalidBody
	}
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return none, shared.ErrInvalidBody
	}

	// The match filter uses the unmarshalled typed values, not the raw JSON
	// ones, so the driver encodes them the same way it stored them (dates
	// and decimals especially). The raw map only decides presence.
	rv := reflect.ValueOf(entity).Elem()
	q := s.scoped(tx, owner)
	for _, prop := range uniqProps {
		mf, known := s.fields[prop]
		val, present := fields[prop]
		if !known || !present || val == nil {
			return none, shared.ErrMissingUniqueProps
		}
		q = q.Where(fmt.Sprintf("%s = ?", mf.column), rv.FieldByIndex(mf.index).Interface())
	}

	existing := PT(new(T))
	switch err := q.First(existing).Error; {
	case err == nil:
		meta, prior := entity.Meta(), existing.Meta()
		meta.ID = prior.ID
		meta.CreatedAt = prior.CreatedAt
	case errors.Is(err, gorm.ErrRecordNotFound):
		if entity.Meta().ID == "" {
			entity.Meta().ID = uuid.NewString()
		}
	default:
		return none, err
	}

	if s.owned && owner != "" {
		entity.SetOwner(owner)
	}
	if err := tx.Save(entity).Error; err != nil {
		return none, err
	}
	return entity, nil
}

// createTx inserts the body unconditionally, used by force-mode batches
// where duplicates are the caller's explicit choice.
func (s *store[T, PT]) createTx(tx *gorm.DB, owner string, body json.RawMessage) (PT, error) {
	var none PT
	entity := PT(new(T))
	if err := json.Unmarshal(body, entity); err != nil {
		return none, shared.ErrInvalidBody
	}
	if entity.Meta().ID == "" {
		entity.Meta().ID = uuid.NewString()
	}
	if s.owned && owner != "" {
		entity.SetOwner(owner)
	}
	if err := tx.Create(entity).Error; err != nil {
		return none, err
	}
	return entity, nil
}

func (s *store[T, PT]) Update(ctx context.Context, owner, id string, body json.RawMessage) (any, error) {
	existing := PT(new(T))
	err := s.scoped(s.db.WithContext(ctx), owner).
		Where("id = ?", id).
		First(existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	// Unmarshalling over the loaded row merges the patch: fields absent from
	// the body keep their stored values.
	prior := *existing.Meta()
	if err := json.Unmarshal(body, existing); err != nil {
		return nil, shared.ErrInvalidBody
	}
	meta := existing.Meta()
	meta.ID = prior.ID
	meta.CreatedAt = prior.CreatedAt
	if s.owned && owner != "" {
		existing.SetOwner(owner)
	}

	if err := s.db.WithContext(ctx).Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *store[T, PT]) Delete(ctx context.Context, owner, id string) error {
	result := s.scoped(s.db.WithContext(ctx), owner).
		Where("id = ?", id).
		Delete(PT(new(T)))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
