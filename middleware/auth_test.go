package middleware_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/21f2000143/grocery-app2-backend/auth"
	"github.com/21f2000143/grocery-app2-backend/middleware"
	"github.com/21f2000143/grocery-app2-backend/models"
)

var testSecret = []byte("test-secret")

func setupGuardedRouter(t *testing.T) (*gin.Engine, *auth.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Role{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	svc := auth.NewService(db, testSecret)

	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/me",
		middleware.RequireAuth(svc, testSecret),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"email": middleware.Principal(c).Email})
		})
	r.GET("/admin-only",
		middleware.RequireAuth(svc, testSecret),
		middleware.RequireRole("admin"),
		func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.GET("/can-delete",
		middleware.RequireAuth(svc, testSecret),
		middleware.RequireAnyPermission("user-delete"),
		func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	return r, svc
}

func login(t *testing.T, svc *auth.Service, email, password string) string {
	t.Helper()
	_, token, err := svc.Login(email, password, "127.0.0.1")
	if err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	return token
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	r, svc := setupGuardedRouter(t)
	_, err := svc.Register("alice@example.com", "", "s3cret")
	assert.NoError(t, err)
	token := login(t, svc, "alice@example.com", "s3cret")

	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "not-a-token").Code)

	rec := get(r, "/me", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice@example.com")
}

func TestRequireAuthViaCookie(t *testing.T) {
	r, svc := setupGuardedRouter(t)
	_, err := svc.Register("bob@example.com", "", "s3cret")
	assert.NoError(t, err)
	token := login(t, svc, "bob@example.com", "s3cret")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole(t *testing.T) {
	r, svc := setupGuardedRouter(t)
	assert.NoError(t, svc.Seed("admin@example.com", "password"))
	_, err := svc.Register("carol@example.com", "", "s3cret")
	assert.NoError(t, err)

	adminToken := login(t, svc, "admin@example.com", "password")
	customerToken := login(t, svc, "carol@example.com", "s3cret")

	assert.Equal(t, http.StatusOK, get(r, "/admin-only", adminToken).Code)
	assert.Equal(t, http.StatusForbidden, get(r, "/admin-only", customerToken).Code)
}

func TestRequireAnyPermission(t *testing.T) {
	r, svc := setupGuardedRouter(t)
	assert.NoError(t, svc.Seed("admin@example.com", "password"))
	_, err := svc.Register("dave@example.com", "", "s3cret")
	assert.NoError(t, err)

	adminToken := login(t, svc, "admin@example.com", "password")
	customerToken := login(t, svc, "dave@example.com", "s3cret")

	assert.Equal(t, http.StatusOK, get(r, "/can-delete", adminToken).Code)
	assert.Equal(t, http.StatusForbidden, get(r, "/can-delete", customerToken).Code)
}
