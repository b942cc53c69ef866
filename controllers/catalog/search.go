package catalogcontroller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/21f2000143/grocery-app2-backend/models"
)

// SearchProducts returns every product matching the query under any of four
// predicates, OR-ed together: name substring, category-name substring,
// manufacture-date string substring, or exact unit-price equality. The price
// predicate is skipped entirely for non-numeric queries (fails closed).
// Results come back in natural storage order.
func SearchProducts(db *gorm.DB, query string) ([]models.Product, error) {
	like := "%" + query + "%"

	where := `products.name LIKE ? OR categories.name LIKE ? OR CAST(products.manufacture_date AS TEXT) LIKE ?`
	args := []interface{}{like, like, like}

	if rate, err := strconv.ParseFloat(query, 64); err == nil {
		where += ` OR products.rate_per_unit = ?`
		args = append(args, rate)
	}

	var products []models.Product
	err := db.Model(&models.Product{}).
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Where(where, args...).
		Preload("Category").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Browse serves the storefront listing: with a search_query parameter it
// searches, otherwise it returns all products plus all categories. Shared by
// "/", "/admin" and "/user".
func Browse(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		searchQuery := c.Query("search_query")
		if searchQuery != "" {
			products, err := SearchProducts(db, searchQuery)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search products"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"products": products, "search_query": searchQuery})
			return
		}

		var products []models.Product
		if err := db.Preload("Category").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		var categories []models.Category
		if err := db.Find(&categories).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products, "categories": categories})
	}
}
