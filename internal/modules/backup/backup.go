package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/impactbridge/platform/internal/models"
	"github.com/impactbridge/platform/internal/pkg/response"
	"github.com/impactbridge/platform/internal/store"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
)

const (
	contentType = "application/gzip"
	extension   = ".json.gz"
)

// Archive is the document written into every backup.
type Archive struct {
	Version   int                    `json:"version"`
	Storage   string                 `json:"storage"`
	CreatedAt time.Time              `json:"created_at"`
	Tables    map[string]interface{} `json:"tables"`
}

// Result describes a finished backup.
type Result struct {
	Key       string    `json:"key"`
	Location  string    `json:"location"`
	Size      int       `json:"size"`
	Tables    int       `json:"tables"`
	CreatedAt time.Time `json:"created_at"`
}

type Item struct {
	Filename  string    `json:"filename"`
	Size      string    `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Service exports every table as gzipped JSON. Archives go to the uploader
// when one is set and to dir otherwise.
type Service struct {
	store  *store.Storage
	up     Uploader
	dir    string
	prefix string
	log    *zap.Logger
	now    func() time.Time
}

func NewService(s *store.Storage, up Uploader, dir, prefix string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: s, up: up, dir: dir, prefix: prefix, log: log.Named("backup"), now: time.Now}
}

// Export builds the compressed archive in memory.
func (s *Service) Export(ctx context.Context) ([]byte, int, error) {
	tables, err := s.store.Dump(ctx, models.All()...)
	if err != nil {
		return nil, 0, fmt.Errorf("dump tables: %w", err)
	}
	doc := Archive{Version: 1, Storage: s.store.Kind(), CreatedAt: s.now().UTC(), Tables: tables}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if err := json.NewEncoder(zw).Encode(doc); err != nil {
		return nil, 0, err
	}
	if err := zw.Close(); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), len(tables), nil
}

// Run exports and stores one archive.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	now := s.now()
	data, tables, err := s.Export(ctx)
	if err != nil {
		return nil, err
	}
	filename := "backup-" + now.UTC().Format("2006-01-02T15-04-05") + extension
	res := &Result{Size: len(data), Tables: tables, CreatedAt: now}

	if s.up != nil {
		res.Key = normalizeObjectKey(s.prefix + now.UTC().Format("2006/01/") + filename)
		res.Location = "s3"
		if err := s.up.Upload(ctx, res.Key, data, contentType); err != nil {
			return nil, err
		}
	} else {
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return nil, err
		}
		res.Key = filename
		res.Location = "local"
		if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0o600); err != nil {
			return nil, err
		}
	}
	s.log.Info("backup stored",
		zap.String("location", res.Location),
		zap.String("key", res.Key),
		zap.Int("bytes", res.Size),
	)
	return res, nil
}

// List returns the local archives, newest first.
func (s *Service) List() ([]Item, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return []Item{}, nil
	}
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), extension) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		items = append(items, Item{Filename: e.Name(), Size: formatSize(info.Size()), CreatedAt: info.ModTime()})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Filename > items[j].Filename })
	return items, nil
}

func formatSize(size int64) string {
	switch {
	case size >= 1<<20:
		return fmt.Sprintf("%.2f MB", float64(size)/(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.2f KB", float64(size)/(1<<10))
	default:
		return fmt.Sprintf("%d B", size)
	}
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/backup", h.create)
	rg.GET("/backups", h.list)
	rg.GET("/backups/:filename", h.download)
}

// POST /admin/backup
func (h *Handler) create(c *gin.Context) {
	res, err := h.svc.Run(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, res)
}

// GET /admin/backups
func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

// GET /admin/backups/:filename
func (h *Handler) download(c *gin.Context) {
	filename := filepath.Base(c.Param("filename"))
	if !strings.HasSuffix(filename, extension) {
		response.BadRequest(c, "invalid filename")
		return
	}
	data, err := os.ReadFile(filepath.Join(h.svc.dir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, data)
}
