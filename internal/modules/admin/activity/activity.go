package activity

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/impactbridge/platform/internal/middleware"
	"github.com/impactbridge/platform/internal/models"
	"github.com/impactbridge/platform/internal/pkg/pagination"
	"github.com/impactbridge/platform/internal/pkg/redis"
	"github.com/impactbridge/platform/internal/pkg/response"
	"github.com/impactbridge/platform/internal/store"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Recorder writes the audit trail of admin writes and invalidates the public
// response cache afterwards.
type Recorder struct {
	store *store.Storage
	rc    *redis.Client
	log   *zap.Logger
}

func NewRecorder(s *store.Storage, rc *redis.Client, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{store: s, rc: rc, log: log.Named("activity")}
}

// Record logs action on entityType/entityID by the caller of c. Failures are
// logged only; the write it describes has already happened.
func (r *Recorder) Record(c *gin.Context, action, entityType string, entityID uint, details interface{}) {
	entry := &models.ActivityLog{
		Action:     action,
		EntityType: entityType,
		IPAddress:  c.ClientIP(),
	}
	if uid := middleware.CurrentUserID(c); uid != 0 {
		entry.UserID = &uid
	}
	if entityID != 0 {
		entry.EntityID = &entityID
	}
	if details != nil {
		if raw, err := json.Marshal(details); err == nil {
			entry.Details = datatypes.JSON(raw)
		}
	}

	ctx := c.Request.Context()
	if err := store.Repo[models.ActivityLog](r.store).Create(ctx, entry); err != nil {
		r.log.Warn("record failed", zap.String("action", action), zap.String("entity", entityType), zap.Error(err))
	}
	r.Purge(ctx)
}

// Purge drops cached public responses and returns how many were removed.
func (r *Recorder) Purge(ctx context.Context) int {
	n, err := middleware.PurgeHTTPCache(ctx, r.rc)
	if err != nil {
		r.log.Warn("cache purge failed", zap.Error(err))
	}
	return n
}

type Handler struct {
	store *store.Storage
}

func NewHandler(s *store.Storage) *Handler {
	return &Handler{store: s}
}

func (h *Handler) repo() store.Repository[models.ActivityLog] {
	return store.Repo[models.ActivityLog](h.store)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/activity-logs")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.DELETE("/:id", h.delete)
}

// GET /activity-logs?entity_type=&action=&user_id=
func (h *Handler) list(c *gin.Context) {
	q := store.Query{}.Order("created_at", true)
	for _, col := range []string{"entity_type", "action"} {
		if v := c.Query(col); v != "" {
			q = q.And(store.Eq(col, v))
		}
	}
	if v := c.Query("user_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			response.BadRequest(c, "invalid user_id")
			return
		}
		q = q.And(store.Eq("user_id", uint(id)))
	}
	items, pag, err := pagination.Paginate(c.Request.Context(), h.repo(), q, pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

// GET /activity-logs/:id
func (h *Handler) get(c *gin.Context) {
	id, ok := response.ParamID(c)
	if !ok {
		return
	}
	entry, err := h.repo().Get(c.Request.Context(), id)
	if err != nil {
		response.StoreError(c, err)
		return
	}
	response.OK(c, entry)
}

// DELETE /activity-logs/:id
func (h *Handler) delete(c *gin.Context) {
	id, ok := response.ParamID(c)
	if !ok {
		return
	}
	if err := h.repo().Delete(c.Request.Context(), id); err != nil {
		response.StoreError(c, err)
		return
	}
	response.NoContent(c)
}

// RegisterCacheRoutes mounts POST /cache/purge on rg.
func (r *Recorder) RegisterCacheRoutes(rg *gin.RouterGroup) {
	rg.POST("/cache/purge", func(c *gin.Context) {
		response.OK(c, gin.H{"purged": r.Purge(c.Request.Context())})
	})
}
