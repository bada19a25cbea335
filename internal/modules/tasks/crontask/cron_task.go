package crontask

import (
	"net/http"

	"github.com/gin-gonic/gin"
	pkgcron "github.com/impactbridge/platform/internal/pkg/cron"
	"github.com/impactbridge/platform/internal/pkg/response"
)

// Handler exposes the background scheduler to admins.
type Handler struct {
	sched *pkgcron.Scheduler
}

func NewHandler(sched *pkgcron.Scheduler) *Handler {
	return &Handler{sched: sched}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/tasks")
	g.GET("", h.list)
	g.GET("/:name", h.get)
	g.POST("/:name/run", h.run)
}

// GET /admin/tasks
func (h *Handler) list(c *gin.Context) {
	response.OK(c, h.sched.List())
}

// GET /admin/tasks/:name
func (h *Handler) get(c *gin.Context) {
	result, err := h.sched.GetTask(c.Param("name"))
	if err != nil {
		response.NotFoundMsg(c, "task not found")
		return
	}
	response.OK(c, result)
}

// POST /admin/tasks/:name/run triggers the job without waiting for it.
func (h *Handler) run(c *gin.Context) {
	if err := h.sched.Run(c.Request.Context(), c.Param("name")); err != nil {
		response.NotFoundMsg(c, "task not found")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "task triggered", "name": c.Param("name")})
}
