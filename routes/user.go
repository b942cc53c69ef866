package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/21f2000143/grocery-app2-backend/auth"
	cartControllers "github.com/21f2000143/grocery-app2-backend/controllers/cart"
	orderControllers "github.com/21f2000143/grocery-app2-backend/controllers/order"
	"github.com/21f2000143/grocery-app2-backend/middleware"
)

// SetupUserRoutes registers the customer endpoints. All of them require an
// authenticated principal carrying the "user" role (granted on login).
func SetupUserRoutes(r *gin.Engine, db *gorm.DB, svc *auth.Service, secret []byte) {
	guarded := []gin.HandlerFunc{
		middleware.RequireAuth(svc, secret),
		middleware.RequireRole("user"),
	}

	userGroup := r.Group("/user", guarded...)
	{
		// Entering the storefront clears the cart cookie.
		userGroup.GET("", cartControllers.UserHome(db))
		userGroup.POST("/cart/add/:product_id", cartControllers.AddToCart(db))
	}

	r.GET("/mycart", append(guarded, cartControllers.MyCart(db))...)
	r.POST("/pay", append(guarded, orderControllers.Pay(db))...)
	r.GET("/orders/mine", append(guarded, orderControllers.MyOrders(db))...)
}
