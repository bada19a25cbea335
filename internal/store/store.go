// Package store is the persistence layer shared by every module. A Storage is
// backed either by a gorm connection or by in-process tables, and hands out a
// typed Repository per model.
package store

import (
	"context"
	"errors"
	"reflect"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

const (
	KindMemory    = "memory"
	KindPostgres  = "postgres"
	KindMySQL     = "mysql"
	KindSQLServer = "sqlserver"
	KindSQLite    = "sqlite"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("duplicate value")
)

// ConflictError reports a unique constraint violation on Column.
type ConflictError struct {
	Column string
}

func (e *ConflictError) Error() string {
	if e.Column == "" {
		return ErrConflict.Error()
	}
	return e.Column + " already exists"
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// Defaulter fills zero-valued columns that carry a schema default. Both
// backends call it before insert so defaults do not depend on the database.
type Defaulter interface {
	ApplyDefaults()
}

// Keyed is implemented by models embedding models.Base.
type Keyed interface {
	PrimaryKey() uint
	SetPrimaryKey(id uint)
}

func primaryKey(v interface{}) uint {
	if k, ok := v.(Keyed); ok {
		return k.PrimaryKey()
	}
	return 0
}

// Repository is the CRUD contract for one model type.
type Repository[T any] interface {
	Create(ctx context.Context, v *T) error
	Get(ctx context.Context, id uint) (*T, error)
	First(ctx context.Context, q Query) (*T, error)
	List(ctx context.Context, q Query) ([]T, int64, error)
	Count(ctx context.Context, q Query) (int64, error)
	Update(ctx context.Context, v *T) error
	Delete(ctx context.Context, id uint) error
	DeleteWhere(ctx context.Context, q Query) (int64, error)
	// UpdateWhere sets columns on every row matching q in one statement and
	// reports how many rows changed. A zero count means another writer got there first.
	UpdateWhere(ctx context.Context, q Query, values map[string]interface{}) (int64, error)
}

// Storage owns the active backend.
type Storage struct {
	kind string
	db   *gorm.DB
	mem  *memoryDB
}

// NewGorm wraps an open gorm connection.
func NewGorm(db *gorm.DB, kind string) *Storage {
	return &Storage{kind: kind, db: db}
}

// NewMemory returns an empty in-process storage.
func NewMemory() *Storage {
	return &Storage{kind: KindMemory, mem: newMemoryDB()}
}

// Kind names the backend ("memory", "postgres", ...).
func (s *Storage) Kind() string { return s.kind }

// DB returns the gorm connection, or nil for the memory backend.
func (s *Storage) DB() *gorm.DB { return s.db }

// Close releases the underlying connection pool.
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the backend is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Repo returns the repository for model T.
func Repo[T any](s *Storage) Repository[T] {
	if s.db != nil {
		return &gormRepo[T]{db: s.db}
	}
	return memoryTable[T](s.mem)
}

// Dump returns every row of the given models keyed by table name.
func (s *Storage) Dump(ctx context.Context, models ...interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(models))
	cache := &sync.Map{}
	for _, m := range models {
		sch, err := schema.Parse(m, cache, schema.NamingStrategy{})
		if err != nil {
			return nil, err
		}
		if s.db != nil {
			rows := reflect.New(reflect.SliceOf(sch.ModelType))
			if err := s.db.WithContext(ctx).Order("id ASC").Find(rows.Interface()).Error; err != nil {
				return nil, err
			}
			out[sch.Table] = rows.Elem().Interface()
			continue
		}
		out[sch.Table] = s.mem.snapshot(sch.ModelType)
	}
	return out, nil
}
