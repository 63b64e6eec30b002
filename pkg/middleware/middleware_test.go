package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/shipdocs/pkg/configs"
	appctx "github.com/yeisme/shipdocs/pkg/context"
	"github.com/yeisme/shipdocs/pkg/middleware"
)

func newEngine(mw ...gin.HandlerFunc) (*gin.Engine, *appctx.Caller) {
	gin.SetMode(gin.TestMode)

	seen := &appctx.Caller{}
	r := gin.New()
	r.Use(mw...)
	r.GET("/api/v1/ping", func(c *gin.Context) {
		if caller, ok := appctx.GetCaller(c.Request.Context()); ok {
			*seen = caller
		}

		c.Status(http.StatusOK)
	})
	r.GET("/api/v1/admin/ping", middleware.RequireMinRole(middleware.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.POST("/api/v1/upload", func(c *gin.Context) {
		if _, err := c.GetRawData(); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}

		c.Status(http.StatusOK)
	})

	return r, seen
}

func TestAuthMiddleware(t *testing.T) {
	conf := configs.AuthConfig{Enabled: true, DefaultRole: "operator", SkipPaths: []string{"/api/v1/health"}}

	tests := []struct {
		name     string
		headers  map[string]string
		wantCode int
		wantID   string
		wantRole string
	}{
		{"no identity", nil, http.StatusUnauthorized, "", ""},
		{"proxy email", map[string]string{"X-Auth-Request-Email": "ops@example.com"}, http.StatusOK, "ops@example.com", "operator"},
		{"forwarded email", map[string]string{"X-Forwarded-Email": "a@example.com"}, http.StatusOK, "a@example.com", "operator"},
		{"user id wins", map[string]string{"X-Forwarded-Email": "a@example.com", "X-User-ID": "42"}, http.StatusOK, "42", "operator"},
		{"explicit role", map[string]string{"X-User-ID": "7", "X-Role": "Viewer"}, http.StatusOK, "7", "viewer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, seen := newEngine(middleware.AuthMiddleware(conf))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantCode)
			}

			if seen.ID != tt.wantID || seen.Role != tt.wantRole {
				t.Errorf("caller = %+v, want id %q role %q", *seen, tt.wantID, tt.wantRole)
			}
		})
	}
}

func TestAuthMiddlewareDevQuery(t *testing.T) {
	r, seen := newEngine(middleware.AuthMiddleware(configs.AuthConfig{Enabled: true, DevAllowQuery: true, DefaultRole: "viewer"}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping?user=dev", nil))

	if w.Code != http.StatusOK || seen.ID != "dev" {
		t.Fatalf("status = %d caller = %+v", w.Code, *seen)
	}
}

func TestRequireMinRole(t *testing.T) {
	r, _ := newEngine(middleware.AuthMiddleware(configs.AuthConfig{Enabled: true, DefaultRole: "operator"}))

	for role, want := range map[string]int{"": http.StatusForbidden, "operator": http.StatusForbidden, "admin": http.StatusOK} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/ping", nil)
		req.Header.Set("X-User-ID", "1")

		if role != "" {
			req.Header.Set("X-Role", role)
		}

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != want {
			t.Errorf("role %q: status = %d, want %d", role, w.Code, want)
		}
	}
}

func TestParseRole(t *testing.T) {
	if middleware.ParseRole(" ADMIN ") != middleware.RoleAdmin {
		t.Error("admin not parsed")
	}

	if middleware.ParseRole("root") != middleware.RoleViewer {
		t.Error("unknown role should degrade to viewer")
	}

	if middleware.RoleOperator.String() != "operator" {
		t.Errorf("String() = %q", middleware.RoleOperator.String())
	}
}

func TestBodyLimitMiddleware(t *testing.T) {
	r, _ := newEngine(middleware.BodyLimitMiddleware(8))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/upload", strings.NewReader("0123456789")))

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/upload", strings.NewReader("small")))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestRateLimitMiddlewareGlobal(t *testing.T) {
	r, _ := newEngine(middleware.RateLimitMiddleware(t.Context(), configs.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1, Key: "global"}))

	codes := make([]int, 0, 2)

	for range 2 {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}
}

func TestRateLimitMiddlewareByHeader(t *testing.T) {
	r, _ := newEngine(middleware.RateLimitMiddleware(t.Context(), configs.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1, Key: "header:X-Tenant"}))

	for _, tenant := range []string{"a", "b"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
		req.Header.Set("X-Tenant", tenant)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("tenant %s: status = %d", tenant, w.Code)
		}
	}
}

func TestCircuitBreakerMiddlewareOpens(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.CircuitBreakerMiddleware(configs.CircuitBreakerConfig{
		Enabled: true, FailureRate: 0.5, MinRequests: 2, IntervalSeconds: 60, TimeoutSeconds: 60, MaxRequestsInHalf: 1,
	}))
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	var last int

	for range 3 {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
		last = w.Code
	}

	if last != http.StatusServiceUnavailable {
		t.Fatalf("last status = %d, want 503", last)
	}
}
