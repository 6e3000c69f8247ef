package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"ingestdesk/internal/middleware"
)

func serveCORS(origins []string, method, origin string) *httptest.ResponseRecorder {
	r := gin.New()
	r.Use(middleware.CORS(origins))
	r.Handle(method, "/api/v1/projects", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, "/api/v1/projects", http.NoBody)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestCORS_Origins(t *testing.T) {
	console := []string{"https://console.example.com", "http://localhost:5173"}

	tests := []struct {
		name       string
		origins    []string
		origin     string
		wantOrigin string
	}{
		{"allowed", console, "https://console.example.com", "https://console.example.com"},
		{"second allowed", console, "http://localhost:5173", "http://localhost:5173"},
		{"disallowed", console, "https://evil.example.com", ""},
		{"no origin header", console, "", ""},
		{"empty allow list", []string{}, "https://console.example.com", ""},
		{"wildcard echoes origin", []string{"*"}, "https://anything.example.com", "https://anything.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveCORS(tt.origins, http.MethodGet, tt.origin)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			if tt.wantOrigin != "" {
				assert.Equal(t, "Origin", w.Header().Get("Vary"))
				assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
			}
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	w := serveCORS([]string{"http://localhost:5173"}, http.MethodOptions, "http://localhost:5173")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PUT")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestCORS_PreflightDisallowedStillShortCircuits(t *testing.T) {
	w := serveCORS([]string{"http://localhost:5173"}, http.MethodOptions, "https://evil.example.com")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_ExposesDownloadHeaders(t *testing.T) {
	w := serveCORS([]string{"http://localhost:5173"}, http.MethodGet, "http://localhost:5173")

	exposed := w.Header().Get("Access-Control-Expose-Headers")
	assert.Contains(t, exposed, "Content-Disposition")
	assert.Contains(t, exposed, "X-Request-ID")
}
