package store

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm/schema"
)

type snapshotter interface {
	snapshot() interface{}
}

type memoryDB struct {
	mu      sync.Mutex
	tables  map[reflect.Type]snapshotter
	schemas *sync.Map
}

func newMemoryDB() *memoryDB {
	return &memoryDB{tables: make(map[reflect.Type]snapshotter), schemas: &sync.Map{}}
}

func (m *memoryDB) snapshot(t reflect.Type) interface{} {
	m.mu.Lock()
	table, ok := m.tables[t]
	m.mu.Unlock()
	if !ok {
		return reflect.MakeSlice(reflect.SliceOf(t), 0, 0).Interface()
	}
	return table.snapshot()
}

func memoryTable[T any](m *memoryDB) *memRepo[T] {
	t := reflect.TypeOf((*T)(nil)).Elem()

	m.mu.Lock()
	defer m.mu.Unlock()
	if table, ok := m.tables[t]; ok {
		return table.(*memRepo[T])
	}
	sch, err := schema.Parse(new(T), m.schemas, schema.NamingStrategy{})
	if err != nil {
		panic(fmt.Sprintf("store: parse schema of %s: %v", t, err))
	}
	r := &memRepo[T]{schema: sch, rows: make(map[uint]*T)}
	for _, f := range sch.Fields {
		if f.DBName == "" {
			continue
		}
		if _, ok := f.TagSettings["UNIQUEINDEX"]; ok || f.Unique {
			r.unique = append(r.unique, f)
		}
	}
	m.tables[t] = r
	return r
}

// memRepo keeps rows of one model in a map keyed by id. Rows are copied on
// the way in and out so callers never share memory with the table.
type memRepo[T any] struct {
	mu     sync.RWMutex
	schema *schema.Schema
	unique []*schema.Field
	rows   map[uint]*T
	nextID uint
}

func (r *memRepo[T]) column(name string) (*schema.Field, error) {
	f := r.schema.LookUpField(name)
	if f == nil || f.DBName == "" {
		return nil, fmt.Errorf("store: unknown column %q on %s", name, r.schema.Table)
	}
	return f, nil
}

func fieldValue(f *schema.Field, rv reflect.Value) reflect.Value {
	return rv.FieldByIndex(f.StructField.Index)
}

func (r *memRepo[T]) setTime(rv reflect.Value, name string, now time.Time, onlyZero bool) {
	f := r.schema.LookUpField(name)
	if f == nil {
		return
	}
	fv := fieldValue(f, rv)
	if fv.Type() != reflect.TypeOf(now) {
		return
	}
	if onlyZero && !fv.IsZero() {
		return
	}
	fv.Set(reflect.ValueOf(now))
}

func (r *memRepo[T]) checkUnique(rv reflect.Value, self uint) error {
	for _, f := range r.unique {
		want := fieldValue(f, rv)
		if want.Kind() == reflect.Ptr && want.IsNil() {
			continue
		}
		for id, row := range r.rows {
			if id == self {
				continue
			}
			got := fieldValue(f, reflect.ValueOf(row).Elem())
			if c, ok := compare(got, want); ok && c == 0 {
				return &ConflictError{Column: f.DBName}
			}
		}
	}
	return nil
}

func (r *memRepo[T]) Create(_ context.Context, v *T) error {
	if d, ok := any(v).(Defaulter); ok {
		d.ApplyDefaults()
	}
	k, ok := any(v).(Keyed)
	if !ok {
		return fmt.Errorf("store: %T has no primary key accessor", v)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rv := reflect.ValueOf(v).Elem()
	if err := r.checkUnique(rv, 0); err != nil {
		return err
	}
	r.nextID++
	k.SetPrimaryKey(r.nextID)
	now := time.Now()
	r.setTime(rv, "CreatedAt", now, true)
	r.setTime(rv, "UpdatedAt", now, true)

	row := *v
	r.rows[r.nextID] = &row
	return nil
}

func (r *memRepo[T]) Get(_ context.Context, id uint) (*T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	v := *row
	return &v, nil
}

func (r *memRepo[T]) First(ctx context.Context, q Query) (*T, error) {
	q.Offset, q.Limit = 0, 1
	rows, _, err := r.List(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func (r *memRepo[T]) filter(q Query) ([]*T, error) {
	fields := make([]*schema.Field, len(q.Filters))
	for i, f := range q.Filters {
		col, err := r.column(f.Column)
		if err != nil {
			return nil, err
		}
		fields[i] = col
	}

	out := make([]*T, 0, len(r.rows))
	for _, row := range r.rows {
		rv := reflect.ValueOf(row).Elem()
		match := true
		for i, f := range q.Filters {
			if !f.Op.holds(fieldValue(fields[i], rv), reflect.ValueOf(f.Value)) {
				match = false
				break
			}
		}
		if match {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *memRepo[T]) sorted(rows []*T, q Query) error {
	idOf := func(row *T) uint { return any(row).(Keyed).PrimaryKey() }
	if q.OrderBy == "" {
		sort.Slice(rows, func(i, j int) bool { return idOf(rows[i]) < idOf(rows[j]) })
		return nil
	}
	col, err := r.column(q.OrderBy)
	if err != nil {
		return err
	}
	sort.Slice(rows, func(i, j int) bool {
		a := fieldValue(col, reflect.ValueOf(rows[i]).Elem())
		b := fieldValue(col, reflect.ValueOf(rows[j]).Elem())
		c, _ := compare(a, b)
		if c == 0 {
			return idOf(rows[i]) < idOf(rows[j])
		}
		if q.Desc {
			return c > 0
		}
		return c < 0
	})
	return nil
}

func (r *memRepo[T]) List(_ context.Context, q Query) ([]T, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, err := r.filter(q)
	if err != nil {
		return nil, 0, err
	}
	if err := r.sorted(rows, q); err != nil {
		return nil, 0, err
	}
	total := int64(len(rows))
	if q.Offset > 0 {
		if q.Offset >= len(rows) {
			rows = nil
		} else {
			rows = rows[q.Offset:]
		}
	}
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	out := make([]T, len(rows))
	for i, row := range rows {
		out[i] = *row
	}
	return out, total, nil
}

func (r *memRepo[T]) Count(_ context.Context, q Query) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rows, err := r.filter(q)
	return int64(len(rows)), err
}

func (r *memRepo[T]) Update(_ context.Context, v *T) error {
	id := primaryKey(v)

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.rows[id]
	if !ok {
		return ErrNotFound
	}
	rv := reflect.ValueOf(v).Elem()
	if err := r.checkUnique(rv, id); err != nil {
		return err
	}
	if f := r.schema.LookUpField("CreatedAt"); f != nil {
		fieldValue(f, rv).Set(fieldValue(f, reflect.ValueOf(stored).Elem()))
	}
	r.setTime(rv, "UpdatedAt", time.Now(), false)

	row := *v
	r.rows[id] = &row
	return nil
}

func (r *memRepo[T]) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *memRepo[T]) DeleteWhere(_ context.Context, q Query) (int64, error) {
	if len(q.Filters) == 0 {
		return 0, fmt.Errorf("store: refusing to delete without filters")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rows, err := r.filter(q)
	if err != nil {
		return 0, err
	}
	for _, row := range rows {
		delete(r.rows, any(row).(Keyed).PrimaryKey())
	}
	return int64(len(rows)), nil
}

func (r *memRepo[T]) UpdateWhere(_ context.Context, q Query, values map[string]interface{}) (int64, error) {
	if len(q.Filters) == 0 {
		return 0, fmt.Errorf("store: refusing to update without filters")
	}
	fields := make(map[*schema.Field]reflect.Value, len(values))
	for name, v := range values {
		f, err := r.column(name)
		if err != nil {
			return 0, err
		}
		fields[f] = reflect.ValueOf(v)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	rows, err := r.filter(q)
	if err != nil {
		return 0, err
	}
	now := time.Now()
	for _, row := range rows {
		updated := *row
		rv := reflect.ValueOf(&updated).Elem()
		for f, v := range fields {
			if err := assign(fieldValue(f, rv), v); err != nil {
				return 0, fmt.Errorf("store: set %s: %w", f.DBName, err)
			}
		}
		id := any(row).(Keyed).PrimaryKey()
		if err := r.checkUnique(rv, id); err != nil {
			return 0, err
		}
		r.setTime(rv, "UpdatedAt", now, false)
		r.rows[id] = &updated
	}
	return int64(len(rows)), nil
}

// assign stores v in dst, taking the address for pointer columns and
// clearing the column for nil.
func assign(dst, v reflect.Value) error {
	switch {
	case !v.IsValid():
		dst.Set(reflect.Zero(dst.Type()))
	case v.Type().AssignableTo(dst.Type()):
		dst.Set(v)
	case dst.Kind() == reflect.Ptr && v.Type().AssignableTo(dst.Type().Elem()):
		p := reflect.New(dst.Type().Elem())
		p.Elem().Set(v)
		dst.Set(p)
	case v.Type().ConvertibleTo(dst.Type()):
		dst.Set(v.Convert(dst.Type()))
	default:
		return fmt.Errorf("cannot use %s as %s", v.Type(), dst.Type())
	}
	return nil
}

func (r *memRepo[T]) snapshot() interface{} {
	rows, _, _ := r.List(context.Background(), Query{})
	return rows
}
