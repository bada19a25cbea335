package crud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/gosimple/slug"
	"github.com/impactbridge/platform/internal/modules/admin/activity"
	"github.com/impactbridge/platform/internal/pkg/pagination"
	"github.com/impactbridge/platform/internal/pkg/response"
	"github.com/impactbridge/platform/internal/store"
	"gorm.io/gorm/schema"
)

const maxBodyBytes = 1 << 20

// immutable keys are ignored in request bodies.
var immutable = []string{"id", "created_at", "updated_at"}

var schemaCache = &sync.Map{}

// Resource is one entity exposed under /admin.
type Resource interface {
	Path() string
	Count(ctx context.Context, s *store.Storage) (int64, error)
	Mount(rg *gin.RouterGroup, s *store.Storage, audit *activity.Recorder)
}

// Options tune an Entity.
type Options[T any] struct {
	// Filters are columns that may be matched exactly from the query string.
	Filters []string
	// Prepare runs after the body is merged and validated, before the write.
	Prepare func(ctx context.Context, s *store.Storage, v *T) error
}

// Entity serves list/get/create/update/delete for model T.
type Entity[T any] struct {
	path   string
	opts   Options[T]
	schema *schema.Schema
	unique []*schema.Field
	slug   *schema.Field
	title  *schema.Field
}

// New describes model T served at /admin/<path>.
func New[T any](path string, opts Options[T]) *Entity[T] {
	sch, err := schema.Parse(new(T), schemaCache, schema.NamingStrategy{})
	if err != nil {
		panic(fmt.Sprintf("crud: parse schema for %s: %v", path, err))
	}
	e := &Entity[T]{path: path, opts: opts, schema: sch}
	for _, f := range sch.Fields {
		if f.DBName == "" {
			continue
		}
		if _, ok := f.TagSettings["UNIQUEINDEX"]; ok || f.Unique {
			e.unique = append(e.unique, f)
		}
	}
	if f := sch.LookUpField("slug"); f != nil && f.FieldType.Kind() == reflect.String {
		e.slug = f
	}
	for _, name := range []string{"title", "name"} {
		if f := sch.LookUpField(name); f != nil && f.FieldType.Kind() == reflect.String {
			e.title = f
			break
		}
	}
	return e
}

func (e *Entity[T]) Path() string { return e.path }

func (e *Entity[T]) Count(ctx context.Context, s *store.Storage) (int64, error) {
	return store.Repo[T](s).Count(ctx, store.Query{})
}

func (e *Entity[T]) Mount(rg *gin.RouterGroup, s *store.Storage, audit *activity.Recorder) {
	h := &entityHandler[T]{Entity: e, store: s, audit: audit}
	g := rg.Group("/" + e.path)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

// column returns the schema field for a query-string column, or nil.
func (e *Entity[T]) column(name string) *schema.Field {
	f := e.schema.LookUpField(name)
	if f == nil || f.DBName == "" || f.DBName != name {
		return nil
	}
	return f
}

// query builds the list query from ?<filter>=, ?sort= and ?order=.
func (e *Entity[T]) query(c *gin.Context) (store.Query, error) {
	q := store.Query{}
	for _, name := range e.opts.Filters {
		raw, ok := c.GetQuery(name)
		if !ok || raw == "" {
			continue
		}
		f := e.column(name)
		if f == nil {
			continue
		}
		v, err := parseValue(f.FieldType, raw)
		if err != nil {
			return q, fmt.Errorf("invalid %s: %w", name, err)
		}
		q = q.And(store.Eq(name, v))
	}

	sortBy := c.DefaultQuery("sort", "created_at")
	if e.column(sortBy) == nil {
		return q, fmt.Errorf("cannot sort by %q", sortBy)
	}
	return q.Order(sortBy, !strings.EqualFold(c.Query("order"), "asc")), nil
}

func parseValue(t reflect.Type, raw string) (interface{}, error) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool:
		return strconv.ParseBool(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.ParseInt(raw, 10, 64)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.ParseUint(raw, 10, 64)
	case reflect.Float32, reflect.Float64:
		return strconv.ParseFloat(raw, 64)
	case reflect.String:
		return raw, nil
	}
	return nil, fmt.Errorf("column of type %s is not filterable", t)
}

func (e *Entity[T]) field(v *T, f *schema.Field) reflect.Value {
	return reflect.ValueOf(v).Elem().FieldByIndex(f.StructField.Index)
}

// applySlug fills an empty slug from the title, normalises a given one, and
// suffixes generated slugs until they are free.
func (e *Entity[T]) applySlug(ctx context.Context, s *store.Storage, v *T, self uint) error {
	if e.slug == nil {
		return nil
	}
	sv := e.field(v, e.slug)
	if given := strings.TrimSpace(sv.String()); given != "" {
		sv.SetString(slug.Make(given))
		return nil
	}
	if e.title == nil {
		return nil
	}
	base := slug.Make(e.field(v, e.title).String())
	if base == "" {
		return nil
	}
	candidate := base
	for i := 2; ; i++ {
		taken, err := e.taken(ctx, s, e.slug.DBName, candidate, self)
		if err != nil {
			return err
		}
		if !taken {
			sv.SetString(candidate)
			return nil
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
}

func (e *Entity[T]) taken(ctx context.Context, s *store.Storage, column string, value interface{}, self uint) (bool, error) {
	row, err := store.Repo[T](s).First(ctx, store.Where(store.Eq(column, value)))
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return primaryKey(row) != self, nil
}

// checkUnique reports the first unique column whose value another row holds.
func (e *Entity[T]) checkUnique(ctx context.Context, s *store.Storage, v *T, self uint) error {
	for _, f := range e.unique {
		fv := e.field(v, f)
		if fv.IsZero() {
			continue
		}
		taken, err := e.taken(ctx, s, f.DBName, fv.Interface(), self)
		if err != nil {
			return err
		}
		if taken {
			return &store.ConflictError{Column: f.DBName}
		}
	}
	return nil
}

func primaryKey(v interface{}) uint {
	if k, ok := v.(store.Keyed); ok {
		return k.PrimaryKey()
	}
	return 0
}

// readBody returns the request JSON object without immutable keys.
func readBody(c *gin.Context) ([]byte, []string, error) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, err
	}
	var fields map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&fields); err != nil {
		return nil, nil, err
	}
	if fields == nil {
		return nil, nil, errors.New("body must be a JSON object")
	}
	for _, key := range immutable {
		delete(fields, key)
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	out, err := json.Marshal(fields)
	return out, keys, err
}

type entityHandler[T any] struct {
	*Entity[T]
	store *store.Storage
	audit *activity.Recorder
}

func (h *entityHandler[T]) repo() store.Repository[T] { return store.Repo[T](h.store) }

// GET /admin/<path>
func (h *entityHandler[T]) list(c *gin.Context) {
	q, err := h.query(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	items, pag, err := pagination.Paginate(c.Request.Context(), h.repo(), q, pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

// GET /admin/<path>/:id
func (h *entityHandler[T]) get(c *gin.Context) {
	id, ok := response.ParamID(c)
	if !ok {
		return
	}
	v, err := h.repo().Get(c.Request.Context(), id)
	if err != nil {
		response.StoreError(c, err)
		return
	}
	response.OK(c, v)
}

// save merges body onto v, validates, and runs the shared pre-write steps.
func (h *entityHandler[T]) save(c *gin.Context, v *T, self uint) ([]string, bool) {
	body, keys, err := readBody(c)
	if err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return nil, false
	}
	if err := json.Unmarshal(body, v); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return nil, false
	}
	ctx := c.Request.Context()
	if err := h.applySlug(ctx, h.store, v, self); err != nil {
		response.InternalError(c, err)
		return nil, false
	}
	if err := binding.Validator.ValidateStruct(v); err != nil {
		response.Invalid(c, err)
		return nil, false
	}
	if h.opts.Prepare != nil {
		if err := h.opts.Prepare(ctx, h.store, v); err != nil {
			response.BadRequest(c, err.Error())
			return nil, false
		}
	}
	if err := h.checkUnique(ctx, h.store, v, self); err != nil {
		response.StoreError(c, err)
		return nil, false
	}
	return keys, true
}

// POST /admin/<path>
func (h *entityHandler[T]) create(c *gin.Context) {
	v := new(T)
	keys, ok := h.save(c, v, 0)
	if !ok {
		return
	}
	if err := h.repo().Create(c.Request.Context(), v); err != nil {
		response.StoreError(c, err)
		return
	}
	h.audit.Record(c, activity.ActionCreate, h.path, primaryKey(v), gin.H{"fields": keys})
	response.Created(c, v)
}

// PUT|PATCH /admin/<path>/:id merges the given keys onto the stored row.
func (h *entityHandler[T]) update(c *gin.Context) {
	id, ok := response.ParamID(c)
	if !ok {
		return
	}
	v, err := h.repo().Get(c.Request.Context(), id)
	if err != nil {
		response.StoreError(c, err)
		return
	}
	keys, ok := h.save(c, v, id)
	if !ok {
		return
	}
	if err := h.repo().Update(c.Request.Context(), v); err != nil {
		response.StoreError(c, err)
		return
	}
	h.audit.Record(c, activity.ActionUpdate, h.path, id, gin.H{"fields": keys})
	response.OK(c, v)
}

// DELETE /admin/<path>/:id
func (h *entityHandler[T]) delete(c *gin.Context) {
	id, ok := response.ParamID(c)
	if !ok {
		return
	}
	if err := h.repo().Delete(c.Request.Context(), id); err != nil {
		response.StoreError(c, err)
		return
	}
	h.audit.Record(c, activity.ActionDelete, h.path, id, nil)
	response.NoContent(c)
}
