package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/21f2000143/grocery-app2-backend/auth"
	"github.com/21f2000143/grocery-app2-backend/models"
	"github.com/21f2000143/grocery-app2-backend/routes"
)

const sessionName = "grocsess"

func main() {
	log.Println("Starting application...")

	// Load environment variables
	_ = godotenv.Load()

	// Init DB
	db := initDatabase()

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
	); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	// Identity service + one-time admin seeding
	secret := []byte(getEnv("JWT_SECRET", "change-me"))
	authService := auth.NewService(db, secret)
	if err := authService.Seed(
		getEnv("ADMIN_EMAIL", "test@me.com"),
		getEnv("ADMIN_PASSWORD", "password"),
	); err != nil {
		log.Fatalf("Admin seeding failed: %v", err)
	}

	// Gin setup
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Cookie-backed session store for the pending-checkout state
	store := cookie.NewStore([]byte(getEnv("SESSION_SECRET", "change-me-too")))
	r.Use(sessions.Sessions(sessionName, store))

	// Setup routes
	routes.SetupRoutes(r, db, authService, secret)

	// Start server
	port := getEnv("PORT", "8080")
	log.Printf("Server running on port %s...", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase() *gorm.DB {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
		if err != nil {
			log.Fatalf("DB connection failed: %v", err)
		}
		return db
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_USER", "grocery"),
		getEnv("DB_PASSWORD", "grocery"),
		getEnv("DB_NAME", "grocery"),
		getEnv("DB_PORT", "5432"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect DB: %v", err)
	}
	return db
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
