package orderControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/21f2000143/grocery-app2-backend/cart"
	"github.com/21f2000143/grocery-app2-backend/middleware"
	"github.com/21f2000143/grocery-app2-backend/models"
)

// ErrProductGone aborts a checkout whose pending cart references a product
// that no longer exists; the whole transaction rolls back.
var ErrProductGone = errors.New("a product in your cart is no longer available")

func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// Checkout turns the pending multiset into immutable order rows and
// decrements stock, all inside one transaction. Every product row is locked
// and the granted quantity is re-capped against current stock at commit
// time, so stock can never go negative even when the reconciled view has
// gone stale. All-or-nothing: any failure rolls back every line item.
func Checkout(db *gorm.DB, userID uint, m *cart.Multiset) ([]models.Order, error) {
	var orders []models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, id := range m.Distinct() {
			var product models.Product
			q := tx
			// SQLite (tests) has no FOR UPDATE; its writers are serialized anyway.
			if tx.Dialector.Name() == "postgres" {
				q = q.Clauses(clause.Locking{Strength: "UPDATE"})
			}
			if err := q.First(&product, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProductGone
				}
				return err
			}

			quantity := m.Count(id)
			if product.Stock < quantity {
				quantity = product.Stock
			}
			if quantity == 0 {
				continue
			}

			order := models.Order{
				OrderRef:    generateOrderRef(),
				AmountPaid:  product.RatePerUnit * float64(quantity),
				ProductName: product.Name,
				Quantity:    quantity,
				OrderDate:   time.Now(),
				UserID:      userID,
			}
			if err := tx.Create(&order).Error; err != nil {
				return err
			}

			product.Stock -= quantity
			if err := tx.Save(&product).Error; err != nil {
				return err
			}

			orders = append(orders, order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// Pay executes the checkout for the multiset primed by /mycart. On success
// the pending session key is cleared; on failure it is left in place so the
// customer can retry.
func Pay(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.Principal(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		sess := sessions.Default(c)
		raw, _ := sess.Get(cart.SessionKey).(string)
		m, err := cart.Decode(raw)
		if err != nil || m.Len() == 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"warning":  "Nothing to check out!",
				"redirect": "/user",
			})
			return
		}

		orders, err := Checkout(db, user.ID, m)
		if err != nil {
			// Pending cart stays in the session for a retry.
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":    "Something went wrong!",
				"redirect": "/user",
			})
			return
		}

		sess.Delete(cart.SessionKey)
		_ = sess.Save()

		if len(orders) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"warning":  "Nothing in your cart is in stock!",
				"redirect": "/user",
			})
			return
		}

		for _, order := range orders {
			broadcastNewOrder(order)
		}

		c.JSON(http.StatusOK, gin.H{
			"message":  "Thank you for your purchase!",
			"orders":   orders,
			"redirect": "/user",
		})
	}
}

// MyOrders lists the authenticated customer's order history, newest first.
func MyOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.Principal(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		var orders []models.Order
		if err := db.
			Where("user_id = ?", user.ID).
			Order("order_date DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GetAllOrders is the admin view of every order, newest first.
func GetAllOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("User").
			Order("order_date DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}
