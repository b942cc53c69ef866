package catalogcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/21f2000143/grocery-app2-backend/models"
)

type CategoryInput struct {
	Name string `form:"name" json:"name" binding:"required"`
}

// CreateCategory adds a category. The name is unique; a violated constraint
// comes back as a recoverable 409, never a crash.
func CreateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CategoryInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}

		category := models.Category{Name: input.Name}
		if err := db.Create(&category).Error; err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Category with the same name already exists!"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Category added successfully!", "category": category})
	}
}

// GetAllCategories returns all categories with their products.
func GetAllCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.Category
		if err := db.Preload("Products").Find(&categories).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// GetCategoryByName serves the admin "products under category" view.
func GetCategoryByName(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")

		var category models.Category
		if err := db.Preload("Products").Where("name = ?", name).First(&category).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"warning": "Category not found!", "redirect": "/"})
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func UpdateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var category models.Category
		if err := db.First(&category, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"warning": "Category not found!", "redirect": "/"})
			return
		}

		var input CategoryInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}

		category.Name = input.Name
		if err := db.Save(&category).Error; err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "An error occurred while updating the category."})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Category updated successfully!", "category": category})
	}
}

// DeleteCategory removes a category and nullifies category_id on any product
// that referenced it, inside one transaction, so no dangling references
// survive.
func DeleteCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var category models.Category
		if err := db.First(&category, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"warning": "Category not found!", "redirect": "/"})
			return
		}

		tx := db.Begin()
		if tx.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
			return
		}

		if err := tx.Model(&models.Product{}).
			Where("category_id = ?", category.ID).
			Update("category_id", nil).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while deleting the category."})
			return
		}

		if err := tx.Delete(&category).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while deleting the category."})
			return
		}

		if err := tx.Commit().Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully!"})
	}
}
