package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kunkoder/Cor1/internal/api/middleware"
	"github.com/kunkoder/Cor1/internal/auth"
	"github.com/kunkoder/Cor1/internal/models"
)

// routeRegistrar is implemented by every handler mounted under /api/v1.
type routeRegistrar interface {
	RegisterRoutes(r *gin.RouterGroup)
}

// testUser creates a SessionUser holding the given roles.
func testUser(roles ...models.RoleName) *auth.SessionUser {
	return &auth.SessionUser{
		ID:         uuid.New(),
		EmployeeID: "E-0001",
		Name:       "Test User",
		Roles:      roles,
	}
}

// setupTestRouter mounts h under /api/v1 with user injected into the context.
// A nil user leaves the request unauthenticated.
func setupTestRouter(h routeRegistrar, user *auth.SessionUser) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if user != nil {
			c.Set(string(middleware.UserContextKey), user)
		}
		c.Next()
	})
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

// doRequest performs a request with an optional JSON body.
func doRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, w.Code, w.Body.String())
	}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
}
