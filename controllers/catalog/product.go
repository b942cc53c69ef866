package catalogcontroller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/21f2000143/grocery-app2-backend/models"
)

// dateFormat matches the browser's datetime-local inputs on the admin forms.
const dateFormat = "2006-01-02T15:04"

type ProductInput struct {
	Name            string `form:"name" json:"name" binding:"required"`
	ManufactureDate string `form:"manufacture_date" json:"manufacture_date" binding:"required"`
	ExpiryDate      string `form:"expiry_date" json:"expiry_date" binding:"required"`
	RatePerUnit     string `form:"rate_per_unit" json:"rate_per_unit" binding:"required"`
	Stock           string `form:"stock" json:"stock" binding:"required"`
	Unit            string `form:"unit" json:"unit" binding:"required"`
	CategoryID      string `form:"category_id" json:"category_id"`
}

// parse validates the raw form values and builds a product, resolving the
// optional category reference against the store.
func (in ProductInput) parse(db *gorm.DB) (models.Product, string) {
	manufactureDate, err := time.Parse(dateFormat, in.ManufactureDate)
	if err != nil {
		return models.Product{}, "Invalid manufacture_date"
	}
	expiryDate, err := time.Parse(dateFormat, in.ExpiryDate)
	if err != nil {
		return models.Product{}, "Invalid expiry_date"
	}
	rate, err := strconv.ParseFloat(in.RatePerUnit, 64)
	if err != nil {
		return models.Product{}, "Invalid rate_per_unit"
	}
	stock, err := strconv.Atoi(in.Stock)
	if err != nil || stock < 0 {
		return models.Product{}, "Invalid stock"
	}

	product := models.Product{
		Name:            in.Name,
		ManufactureDate: manufactureDate,
		ExpiryDate:      expiryDate,
		RatePerUnit:     rate,
		Stock:           stock,
		Unit:            in.Unit,
	}

	if in.CategoryID != "" {
		id64, err := strconv.ParseUint(in.CategoryID, 10, 32)
		if err != nil {
			return models.Product{}, "Invalid category_id"
		}
		var category models.Category
		if err := db.First(&category, uint(id64)).Error; err != nil {
			return models.Product{}, "Category does not exist"
		}
		product.CategoryID = &category.ID
	}

	return product, ""
}

func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		product, msg := input.parse(db)
		if msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}

		tx := db.Begin()
		if tx.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
			return
		}
		if err := tx.Create(&product).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while adding the product."})
			return
		}
		if err := tx.Commit().Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Product added successfully!", "product": product})
	}
}

func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var product models.Product
		if err := db.Preload("Category").First(&product, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"warning": "Product not found!", "redirect": "/"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"warning": "Product not found!", "redirect": "/"})
			return
		}

		var input ProductInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updated, msg := input.parse(db)
		if msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		updated.ID = product.ID

		tx := db.Begin()
		if tx.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
			return
		}
		if err := tx.Save(&updated).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while updating the product."})
			return
		}
		if err := tx.Commit().Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully!", "product": updated})
	}
}

func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"warning": "Product not found!", "redirect": "/"})
			return
		}

		tx := db.Begin()
		if tx.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
			return
		}
		if err := tx.Delete(&product).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while deleting the product."})
			return
		}
		if err := tx.Commit().Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully!"})
	}
}
