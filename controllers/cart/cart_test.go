package cartControllers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/21f2000143/grocery-app2-backend/cart"
	cartControllers "github.com/21f2000143/grocery-app2-backend/controllers/cart"
	"github.com/21f2000143/grocery-app2-backend/models"
)

func setupCartTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	store := cookie.NewStore([]byte("test-secret-key"))
	r.Use(sessions.Sessions("grocsess", store))

	r.GET("/user", cartControllers.UserHome(db))
	r.POST("/user/cart/add/:product_id", cartControllers.AddToCart(db))
	r.GET("/mycart", cartControllers.MyCart(db))

	return r, db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, stock int, rate float64) models.Product {
	t.Helper()
	p := models.Product{
		Name:            name,
		Stock:           stock,
		RatePerUnit:     rate,
		ManufactureDate: time.Now().AddDate(0, -1, 0),
		ExpiryDate:      time.Now().AddDate(0, 1, 0),
		Unit:            "Rs/Kg",
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

func multiset(t *testing.T, raw string) *cart.Multiset {
	t.Helper()
	m, err := cart.Decode(raw)
	if err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
	return m
}

func TestReconcileWithinStock(t *testing.T) {
	_, db := setupCartTest(t)
	p := seedProduct(t, db, "Milk", 5, 10.0)

	m := multiset(t, fmt.Sprintf("%d,%d,%d", p.ID, p.ID, p.ID))
	items, total, err := cartControllers.Reconcile(db, m)

	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 3, items[0].RequestedQty)
	assert.Equal(t, 3, items[0].GrantedQty)
	assert.False(t, items[0].Capped)
	assert.Equal(t, 30.0, total)
}

func TestReconcileCapsAtStock(t *testing.T) {
	_, db := setupCartTest(t)
	p := seedProduct(t, db, "Milk", 5, 10.0)

	raw := ""
	for i := 0; i < 6; i++ {
		if i > 0 {
			raw += ","
		}
		raw += fmt.Sprint(p.ID)
	}
	items, total, err := cartControllers.Reconcile(db, multiset(t, raw))

	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 6, items[0].RequestedQty)
	assert.Equal(t, 5, items[0].GrantedQty)
	assert.True(t, items[0].Capped)
	assert.Equal(t, 50.0, total)
}

func TestReconcileEqualStockCountsAsCapped(t *testing.T) {
	_, db := setupCartTest(t)
	p := seedProduct(t, db, "Eggs", 3, 6.0)

	items, _, err := cartControllers.Reconcile(db, multiset(t, fmt.Sprintf("%d,%d,%d", p.ID, p.ID, p.ID)))

	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 3, items[0].GrantedQty)
	assert.True(t, items[0].Capped)
}

func TestReconcileIgnoresUnknownIDs(t *testing.T) {
	_, db := setupCartTest(t)
	p := seedProduct(t, db, "Milk", 5, 10.0)

	items, total, err := cartControllers.Reconcile(db, multiset(t, fmt.Sprintf("%d,424242", p.ID)))

	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, p.ID, items[0].Product.ID)
	assert.Equal(t, 10.0, total)
}

func TestUserHomeClearsCartCookie(t *testing.T) {
	r, db := setupCartTest(t)
	seedProduct(t, db, "Milk", 5, 10.0)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	req.AddCookie(&http.Cookie{Name: cart.CookieName, Value: "1,1"})
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == cart.CookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "expected the cart cookie to be expired")
}

func TestUserHomeSearchKeepsCartCookie(t *testing.T) {
	r, db := setupCartTest(t)
	seedProduct(t, db, "Milk", 5, 10.0)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/user?search_query=Mil", nil)
	req.AddCookie(&http.Cookie{Name: cart.CookieName, Value: "1,1"})
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	for _, c := range rec.Result().Cookies() {
		assert.NotEqual(t, cart.CookieName, c.Name)
	}
}

func TestAddToCartAppends(t *testing.T) {
	r, db := setupCartTest(t)
	milk := seedProduct(t, db, "Milk", 5, 10.0)
	bread := seedProduct(t, db, "Bread", 5, 35.0)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/user/cart/add/%d", milk.ID), nil)
	req.AddCookie(&http.Cookie{Name: cart.CookieName, Value: fmt.Sprintf("%d,%d", milk.ID, bread.ID)})
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var updated string
	for _, c := range rec.Result().Cookies() {
		if c.Name == cart.CookieName {
			// gin url-escapes cookie values on write.
			updated, _ = url.QueryUnescape(c.Value)
		}
	}
	assert.Equal(t, fmt.Sprintf("%d,%d,%d", milk.ID, bread.ID, milk.ID), updated)
}

func TestAddToCartUnknownProduct(t *testing.T) {
	r, _ := setupCartTest(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/user/cart/add/424242", nil)
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "redirect")
}

func TestMyCartEmptyRedirectsWithWarning(t *testing.T) {
	r, _ := setupCartTest(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/mycart", nil)
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "warning")
	assert.Contains(t, rec.Body.String(), "/user")
}

func TestMyCartReconcilesAndPrimesSession(t *testing.T) {
	r, db := setupCartTest(t)
	p := seedProduct(t, db, "Milk", 5, 10.0)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/mycart", nil)
	req.AddCookie(&http.Cookie{Name: cart.CookieName, Value: fmt.Sprintf("%d,%d", p.ID, p.ID)})
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_price":20`)

	primed := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "grocsess" && c.Value != "" {
			primed = true
		}
	}
	assert.True(t, primed, "expected the session cookie to be written")
}
