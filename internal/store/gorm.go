package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// GormConfig is the configuration every SQL backend is opened with. Driver
// errors stay untranslated so a conflict still names the violated index.
func GormConfig(level logger.LogLevel) *gorm.Config {
	return &gorm.Config{Logger: logger.Default.LogMode(level)}
}

type gormRepo[T any] struct {
	db *gorm.DB
}

func (r *gormRepo[T]) translate(err error) error {
	if err == nil {
		return nil
	}
	stmt := &gorm.Statement{DB: r.db}
	if perr := stmt.Parse(new(T)); perr != nil || stmt.Schema == nil {
		return translate(err, "")
	}
	return translate(err, stmt.Schema.Table)
}

func (r *gormRepo[T]) scoped(ctx context.Context, q Query) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(new(T))
	for _, f := range q.Filters {
		tx = tx.Where(f.expression())
	}
	return tx
}

func ordered(tx *gorm.DB, q Query) *gorm.DB {
	if q.OrderBy != "" {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: q.OrderBy}, Desc: q.Desc})
	}
	return tx.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
}

func (r *gormRepo[T]) Create(ctx context.Context, v *T) error {
	if d, ok := any(v).(Defaulter); ok {
		d.ApplyDefaults()
	}
	return r.translate(r.db.WithContext(ctx).Create(v).Error)
}

func (r *gormRepo[T]) Get(ctx context.Context, id uint) (*T, error) {
	var v T
	if err := r.db.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, r.translate(err)
	}
	return &v, nil
}

func (r *gormRepo[T]) First(ctx context.Context, q Query) (*T, error) {
	var v T
	if err := ordered(r.scoped(ctx, q), q).Take(&v).Error; err != nil {
		return nil, r.translate(err)
	}
	return &v, nil
}

func (r *gormRepo[T]) List(ctx context.Context, q Query) ([]T, int64, error) {
	var total int64
	if err := r.scoped(ctx, q).Count(&total).Error; err != nil {
		return nil, 0, r.translate(err)
	}
	tx := ordered(r.scoped(ctx, q), q)
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	rows := make([]T, 0)
	if err := tx.Find(&rows).Error; err != nil {
		return nil, 0, r.translate(err)
	}
	return rows, total, nil
}

func (r *gormRepo[T]) Count(ctx context.Context, q Query) (int64, error) {
	var total int64
	return total, r.translate(r.scoped(ctx, q).Count(&total).Error)
}

func (r *gormRepo[T]) Update(ctx context.Context, v *T) error {
	res := r.db.WithContext(ctx).Model(v).Select("*").Updates(v)
	if res.Error != nil {
		return r.translate(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	// MySQL reports zero affected rows when nothing changed.
	var n int64
	if err := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", primaryKey(v)).Count(&n).Error; err != nil {
		return r.translate(err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormRepo[T]) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return r.translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormRepo[T]) DeleteWhere(ctx context.Context, q Query) (int64, error) {
	if len(q.Filters) == 0 {
		return 0, fmt.Errorf("store: refusing to delete without filters")
	}
	tx := r.db.WithContext(ctx)
	for _, f := range q.Filters {
		tx = tx.Where(f.expression())
	}
	res := tx.Delete(new(T))
	return res.RowsAffected, r.translate(res.Error)
}

func (r *gormRepo[T]) UpdateWhere(ctx context.Context, q Query, values map[string]interface{}) (int64, error) {
	if len(q.Filters) == 0 {
		return 0, fmt.Errorf("store: refusing to update without filters")
	}
	res := r.scoped(ctx, q).Updates(values)
	return res.RowsAffected, r.translate(res.Error)
}

var duplicateMarkers = []string{
	"unique constraint failed",
	"duplicate entry",
	"duplicate key",
	"cannot insert duplicate key",
}

func translate(err error, table string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &ConflictError{Column: conflictColumn(err.Error(), table)}
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range duplicateMarkers {
		if strings.Contains(msg, marker) {
			return &ConflictError{Column: conflictColumn(err.Error(), table)}
		}
	}
	return err
}

// conflictColumn finds the violated column in a driver message. sqlite names
// it as "table.column"; postgres, mysql and sqlserver name the index, which
// gorm calls idx_<table>_<column>.
func conflictColumn(msg, table string) string {
	const sqlitePrefix = "UNIQUE constraint failed: "
	if i := strings.Index(msg, sqlitePrefix); i >= 0 {
		rest := msg[i+len(sqlitePrefix):]
		if j := strings.IndexAny(rest, ", ("); j >= 0 {
			rest = rest[:j]
		}
		if k := strings.LastIndex(rest, "."); k >= 0 {
			rest = rest[k+1:]
		}
		return rest
	}
	if table == "" {
		return ""
	}
	index := "idx_" + table + "_"
	i := strings.Index(msg, index)
	if i < 0 {
		return ""
	}
	rest := msg[i+len(index):]
	end := strings.IndexFunc(rest, func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	})
	if end >= 0 {
		rest = rest[:end]
	}
	return rest
}
