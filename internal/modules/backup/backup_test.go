package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/impactbridge/platform/internal/config"
	"github.com/impactbridge/platform/internal/models"
	"github.com/impactbridge/platform/internal/store"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	key         string
	body        []byte
	contentType string
}

func (f *fakeUploader) Upload(_ context.Context, key string, body []byte, contentType string) error {
	f.key, f.body, f.contentType = key, body, contentType
	return nil
}

func seeded(t *testing.T) *store.Storage {
	t.Helper()
	s := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, store.Repo[models.Partner](s).Create(ctx, &models.Partner{Name: "Acme"}))
	require.NoError(t, store.Repo[models.FAQ](s).Create(ctx, &models.FAQ{Question: "Q", Answer: "A"}))
	return s
}

func decodeArchive(t *testing.T, data []byte) map[string]json.RawMessage {
	t.Helper()
	zr, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	raw, err := io.ReadAll(zr)
	require.NoError(t, err)
	var doc struct {
		Version int                        `json:"version"`
		Storage string                     `json:"storage"`
		Tables  map[string]json.RawMessage `json:"tables"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, 1, doc.Version)
	assert.Equal(t, "memory", doc.Storage)
	return doc.Tables
}

func TestRunWritesLocalArchive(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "backups")
	svc := NewService(seeded(t), nil, dir, "", nil)
	svc.now = func() time.Time { return time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC) }

	res, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "local", res.Location)
	assert.Equal(t, "backup-2025-03-04T05-06-07.json.gz", res.Key)
	assert.Equal(t, len(models.All()), res.Tables)

	data, err := os.ReadFile(filepath.Join(dir, res.Key))
	require.NoError(t, err)
	tables := decodeArchive(t, data)

	var partners []models.Partner
	require.NoError(t, json.Unmarshal(tables["partners"], &partners))
	require.Len(t, partners, 1)
	assert.Equal(t, "Acme", partners[0].Name)
	assert.Contains(t, tables, "users")

	items, err := svc.List()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, res.Key, items[0].Filename)
}

func TestRunUploadsWhenConfigured(t *testing.T) {
	up := &fakeUploader{}
	svc := NewService(seeded(t), up, t.TempDir(), "backups/", nil)
	svc.now = func() time.Time { return time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC) }

	res, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "s3", res.Location)
	assert.Equal(t, "backups/2025/11/backup-2025-11-02T00-00-00.json.gz", res.Key)
	assert.Equal(t, res.Key, up.key)
	assert.Equal(t, contentType, up.contentType)
	assert.Contains(t, decodeArchive(t, up.body), "faqs")

	items, err := svc.List()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := NewService(seeded(t), nil, t.TempDir(), "", nil)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/admin"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/admin/backup", nil))
	require.Equal(t, http.StatusCreated, w.Code)
	var res Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/backups/"+res.Key, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), res.Key)
	assert.Contains(t, decodeArchive(t, w.Body.Bytes()), "partners")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/backups/passwd", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/backups/missing.json.gz", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewS3Uploader(t *testing.T) {
	_, err := NewS3Uploader(context.Background(), config.S3Config{})
	assert.Error(t, err)

	u, err := NewS3Uploader(context.Background(), config.S3Config{
		Bucket:          "site",
		Region:          "eu-west-2",
		Endpoint:        "minio.local:9000",
		AccessKeyID:     "id",
		SecretAccessKey: "secret",
	})
	require.NoError(t, err)
	opts := u.client.Options()
	assert.True(t, opts.UsePathStyle)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "https://minio.local:9000", *opts.BaseEndpoint)
}

func TestNormalizeObjectKey(t *testing.T) {
	assert.Equal(t, "a/b/c.gz", normalizeObjectKey(` /a//b\c.gz `))
	assert.Equal(t, "", normalizeObjectKey("/"))
}
