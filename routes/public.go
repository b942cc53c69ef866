package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/21f2000143/grocery-app2-backend/auth"
	catalogcontroller "github.com/21f2000143/grocery-app2-backend/controllers/catalog"
	userControllers "github.com/21f2000143/grocery-app2-backend/controllers/user"
	"github.com/21f2000143/grocery-app2-backend/middleware"
)

// SetupPublicRoutes registers the open storefront and the auth endpoints.
func SetupPublicRoutes(r *gin.Engine, db *gorm.DB, svc *auth.Service, secret []byte) {
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	// Public catalog browse + search.
	r.GET("/", catalogcontroller.Browse(db))

	r.POST("/register", userControllers.Register(svc))
	r.POST("/login", userControllers.Login(svc))
	r.POST("/logout", userControllers.Logout())

	r.GET("/authorizing",
		middleware.RequireAuth(svc, secret),
		userControllers.Authorizing())
}
