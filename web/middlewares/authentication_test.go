package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitelink.com/sitelink/model"
	"sitelink.com/sitelink/model/role"
	"sitelink.com/sitelink/security"
)

var secret = []byte("middleware-secret")

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Authentication(secret))
	r.GET("/me", func(c *gin.Context) {
		identity := Identity(c)
		c.String(http.StatusOK, "%s:%d", identity.UniqueName, identity.UserID)
	})
	r.GET("/budgets", RequireRole(role.ProjectManager), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func tokenFor(t *testing.T, r role.Role) string {
	t.Helper()
	token, err := security.CreateIdentityToken(&model.User{ID: 5, Username: string(r), Role: r}, secret, time.Hour)
	require.NoError(t, err)
	return token
}

func TestAuthentication(t *testing.T) {
	r := newEngine()
	valid := tokenFor(t, role.Worker)

	tests := []struct {
		name   string
		header string
		cookie string
		status int
		body   string
	}{
		{name: "Bearer token", header: "Bearer " + valid, status: http.StatusOK, body: "worker:5"},
		{name: "Lower case scheme", header: "bearer " + valid, status: http.StatusOK, body: "worker:5"},
		{name: "Cookie", cookie: valid, status: http.StatusOK, body: "worker:5"},
		{name: "Missing", status: http.StatusUnauthorized},
		{name: "Wrong scheme", header: "Basic " + valid, status: http.StatusUnauthorized},
		{name: "Garbage", header: "Bearer abc.def.ghi", status: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"detail"`)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	r := newEngine()

	tests := []struct {
		role   role.Role
		status int
	}{
		{role.Admin, http.StatusNoContent},
		{role.ProjectManager, http.StatusNoContent},
		{role.SiteEngineer, http.StatusForbidden},
		{role.Worker, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/budgets", nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(t, tt.role))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
