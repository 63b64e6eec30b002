package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/shipdocs/pkg/internal/router"
)

type stubHandlers struct{}

func named(name string) gin.HandlerFunc {
	return func(c *gin.Context) { c.String(http.StatusOK, name) }
}

func (stubHandlers) Upload() gin.HandlerFunc   { return named("upload") }
func (stubHandlers) List() gin.HandlerFunc     { return named("list") }
func (stubHandlers) Link() gin.HandlerFunc     { return named("link") }
func (stubHandlers) Download() gin.HandlerFunc { return named("download") }
func (stubHandlers) Delete() gin.HandlerFunc   { return named("delete") }
func (stubHandlers) Report() gin.HandlerFunc   { return named("orphans") }

func TestRegisterDocumentRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	deny := func(c *gin.Context) {
		if c.GetHeader("X-Role") != "operator" {
			c.AbortWithStatus(http.StatusForbidden)
		}
	}

	v1 := r.Group("/api/v1")
	router.RegisterDocumentRoutes(v1, stubHandlers{}, deny)
	router.RegisterAdminRoutes(v1.Group("/admin"), stubHandlers{}, nil)

	tests := []struct {
		method, path, role string
		code               int
		body               string
	}{
		{http.MethodPost, "/api/v1/jobs/7/documents", "operator", 200, "upload"},
		{http.MethodPost, "/api/v1/jobs/7/documents", "", 403, ""},
		{http.MethodGet, "/api/v1/jobs/7/documents", "", 200, "list"},
		{http.MethodGet, "/api/v1/documents/3/url", "", 200, "link"},
		{http.MethodGet, "/api/v1/documents/3/download", "", 200, "download"},
		{http.MethodDelete, "/api/v1/documents/3", "operator", 200, "delete"},
		{http.MethodDelete, "/api/v1/documents/3", "", 403, ""},
		{http.MethodGet, "/api/v1/admin/documents/orphans", "", 200, "orphans"},
		{http.MethodGet, "/api/v1/admin/scheduler/jobs", "", 404, ""},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		if tt.role != "" {
			req.Header.Set("X-Role", tt.role)
		}

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != tt.code || (tt.body != "" && w.Body.String() != tt.body) {
			t.Errorf("%s %s: status = %d body = %q", tt.method, tt.path, w.Code, w.Body.String())
		}
	}
}
