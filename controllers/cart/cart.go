package cartControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/21f2000143/grocery-app2-backend/cart"
	catalogcontroller "github.com/21f2000143/grocery-app2-backend/controllers/catalog"
	"github.com/21f2000143/grocery-app2-backend/models"
)

// LineItem is one reconciled cart entry. GrantedQty is the requested
// quantity capped at current stock; Capped marks lines where stock did not
// strictly exceed the request.
type LineItem struct {
	Product      models.Product `json:"product"`
	RequestedQty int            `json:"requested_qty"`
	GrantedQty   int            `json:"granted_qty"`
	Capped       bool           `json:"capped"`
}

// Reconcile maps the cart multiset onto live product rows. IDs with no
// product row are ignored. The total is computed from granted quantities, so
// the displayed price never exceeds what can actually be fulfilled.
func Reconcile(db *gorm.DB, m *cart.Multiset) ([]LineItem, float64, error) {
	var products []models.Product
	if err := db.Where("id IN ?", m.Distinct()).Find(&products).Error; err != nil {
		return nil, 0, err
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]LineItem, 0, len(products))
	total := 0.0
	for _, id := range m.Distinct() {
		product, ok := byID[id]
		if !ok {
			continue
		}
		requested := m.Count(id)
		granted := requested
		capped := product.Stock <= requested
		if capped {
			granted = product.Stock
		}
		items = append(items, LineItem{
			Product:      product,
			RequestedQty: requested,
			GrantedQty:   granted,
			Capped:       capped,
		})
		total += float64(granted) * product.RatePerUnit
	}
	return items, total, nil
}

// UserHome serves the customer storefront. Entering it starts a fresh
// shopping trip: the cart cookie is expired unless the visit is a search.
func UserHome(db *gorm.DB) gin.HandlerFunc {
	browse := catalogcontroller.Browse(db)
	return func(c *gin.Context) {
		if c.Query("search_query") == "" {
			c.SetCookie(cart.CookieName, "", -1, "/", "", false, false)
		}
		browse(c)
	}
}

// AddToCart appends one product ID to the cart cookie: decode the previous
// value, append, re-encode. Repetition encodes quantity.
func AddToCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id64, err := strconv.ParseUint(c.Param("product_id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
			return
		}

		var product models.Product
		if err := db.First(&product, uint(id64)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"warning": "Product not found!", "redirect": "/user"})
			return
		}

		raw, _ := c.Cookie(cart.CookieName)
		m, err := cart.Decode(raw)
		if err != nil {
			// Unreadable cookie; start over rather than erroring the request.
			m = cart.NewMultiset()
		}
		m.Add(product.ID)

		// Session cookie on purpose: no expiry, cleared on the next /user visit.
		c.SetCookie(cart.CookieName, m.Encode(), 0, "/", "", false, false)
		c.JSON(http.StatusOK, gin.H{
			"message": "Added to cart",
			"cart":    m.Encode(),
			"count":   m.Len(),
		})
	}
}

// MyCart reconciles the cart cookie against live stock and primes the
// session with the pending multiset for /pay.
func MyCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, _ := c.Cookie(cart.CookieName)
		m, err := cart.Decode(raw)
		if err != nil || m.Len() == 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"warning":  "Please add at least one item into your cart!",
				"redirect": "/user",
			})
			return
		}

		items, total, err := Reconcile(db, m)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
			return
		}

		// Prime /pay with the reconciled multiset only: an ID that no longer
		// resolves to a product would make every checkout attempt abort.
		pending := cart.NewMultiset()
		for _, item := range items {
			for i := 0; i < item.RequestedQty; i++ {
				pending.Add(item.Product.ID)
			}
		}

		sess := sessions.Default(c)
		sess.Set(cart.SessionKey, pending.Encode())
		if err := sess.Save(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"items":       items,
			"total_price": total,
		})
	}
}
