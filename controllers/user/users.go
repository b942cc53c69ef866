package userControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/21f2000143/grocery-app2-backend/auth"
	"github.com/21f2000143/grocery-app2-backend/middleware"
	"github.com/21f2000143/grocery-app2-backend/models"
)

type RegisterInput struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password" binding:"required"`
}

type LoginInput struct {
	Email    string `form:"email" json:"email" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// POST /register
func Register(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, err := svc.Register(input.Email, input.Username, input.Password)
		if err != nil {
			switch err {
			case auth.ErrEmailTaken:
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			case auth.ErrPasswordTooShort:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
			}
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Registered successfully!", "user": user})
	}
}

// POST /login — on success the token is set as a cookie and returned in the
// body, and the caller is pointed at /authorizing for the role-based landing.
func Login(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, token, err := svc.Login(input.Email, input.Password, c.ClientIP())
		if err != nil {
			switch err {
			case auth.ErrInvalidCredentials, auth.ErrInactiveUser:
				c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
			}
			return
		}

		c.SetCookie(auth.CookieName, token, 0, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{
			"token":    token,
			"user":     user,
			"redirect": "/authorizing",
		})
	}
}

// POST /logout expires the token cookie.
func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"message": "Logged out", "redirect": "/"})
	}
}

// GET /authorizing routes a fresh login to the right console by role.
func Authorizing() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.Principal(c)
		if user != nil && user.HasRole("admin") {
			c.Redirect(http.StatusFound, "/admin")
			return
		}
		c.Redirect(http.StatusFound, "/user")
	}
}

// GET /admin/users lists users without credential or telemetry fields.
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.
			Select("id", "email", "username", "active", "login_count").
			Preload("Roles").
			Order("id").
			Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		c.JSON(http.StatusOK, users)
	}
}
