package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/21f2000143/grocery-app2-backend/auth"
	catalogcontroller "github.com/21f2000143/grocery-app2-backend/controllers/catalog"
	orderControllers "github.com/21f2000143/grocery-app2-backend/controllers/order"
	userControllers "github.com/21f2000143/grocery-app2-backend/controllers/user"
	"github.com/21f2000143/grocery-app2-backend/middleware"
)

// SetupAdminRoutes registers the manager console. Everything here requires
// the "admin" role.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB, svc *auth.Service, secret []byte) {
	guarded := []gin.HandlerFunc{
		middleware.RequireAuth(svc, secret),
		middleware.RequireRole("admin"),
	}

	adminGroup := r.Group("/admin", guarded...)
	{
		adminGroup.GET("", catalogcontroller.Browse(db))
		// Not nested under /products: a static "under" segment cannot share a
		// level with the ":id" wildcard in gin's route tree.
		adminGroup.GET("/products-under/:name", catalogcontroller.GetCategoryByName(db))

		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", catalogcontroller.CreateProduct(db))
			productAdmin.GET("/:id", catalogcontroller.GetProductByID(db))
			productAdmin.PUT("/:id", catalogcontroller.UpdateProduct(db))
			productAdmin.DELETE("/:id", catalogcontroller.DeleteProduct(db))
			productAdmin.POST("/import-excel", catalogcontroller.ImportProductsFromExcel(db))
			productAdmin.GET("/export-excel", catalogcontroller.ExportProductsToExcel(db))
		}

		categoryAdmin := adminGroup.Group("/categories")
		{
			categoryAdmin.POST("", catalogcontroller.CreateCategory(db))
			categoryAdmin.GET("", catalogcontroller.GetAllCategories(db))
			categoryAdmin.PUT("/:id", catalogcontroller.UpdateCategory(db))
			categoryAdmin.DELETE("/:id", catalogcontroller.DeleteCategory(db))
		}

		adminGroup.GET("/orders", orderControllers.GetAllOrders(db))
		adminGroup.GET("/orders/ws", orderControllers.OrderFeed)
		adminGroup.GET("/users", userControllers.GetAllUsers(db))
	}

	// Legacy form-post paths, kept for compatibility with the original UI.
	r.POST("/add_category", append(guarded, catalogcontroller.CreateCategory(db))...)
	r.POST("/add_product", append(guarded, catalogcontroller.CreateProduct(db))...)
	r.POST("/update_product/:id", append(guarded, catalogcontroller.UpdateProduct(db))...)
	r.POST("/delete_product/:id", append(guarded, catalogcontroller.DeleteProduct(db))...)
	r.POST("/update_category/:id", append(guarded, catalogcontroller.UpdateCategory(db))...)
	r.POST("/delete_category/:id", append(guarded, catalogcontroller.DeleteCategory(db))...)
}
