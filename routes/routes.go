package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/21f2000143/grocery-app2-backend/auth"
)

// SetupRoutes is the single entry-point that wires up the public, user and
// admin route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, svc *auth.Service, secret []byte) {
	SetupPublicRoutes(r, db, svc, secret)
	SetupUserRoutes(r, db, svc, secret)
	SetupAdminRoutes(r, db, svc, secret)
}
