package catalogcontroller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/21f2000143/grocery-app2-backend/models"
)

const excelDateFormat = "2006-01-02 15:04"

// ExportProductsToExcel streams the full catalog as an xlsx download for the
// admin console.
func ExportProductsToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Preload("Category").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Products")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headers := []string{
			"ID", "Name", "Stock", "ManufactureDate", "ExpiryDate",
			"RatePerUnit", "Unit", "Category",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, p := range products {
			row := sheet.AddRow()
			row.AddCell().SetValue(p.ID)
			row.AddCell().SetValue(p.Name)
			row.AddCell().SetValue(p.Stock)
			row.AddCell().SetValue(p.ManufactureDate.Format(excelDateFormat))
			row.AddCell().SetValue(p.ExpiryDate.Format(excelDateFormat))
			row.AddCell().SetValue(p.RatePerUnit)
			row.AddCell().SetValue(p.Unit)
			if p.Category != nil {
				row.AddCell().SetValue(p.Category.Name)
			} else {
				row.AddCell().SetValue("")
			}
		}

		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}

// ImportProductsFromExcel bulk-creates products from an uploaded sheet with
// the same columns the export produces (ID column ignored on insert; category
// resolved by name, created on demand). Rows that fail validation are skipped
// and counted.
func ImportProductsFromExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse Excel file"})
			return
		}

		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		sheet := xlFile.Sheets[0]
		createdCount, skippedCount := 0, 0

		for i := 1; i < sheet.MaxRow; i++ {
			row := sheet.Rows[i]

			get := func(index int) string {
				if index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			name := get(1)
			stock, err1 := strconv.Atoi(get(2))
			manufactureDate, err2 := time.Parse(excelDateFormat, get(3))
			expiryDate, err3 := time.Parse(excelDateFormat, get(4))
			rate, err4 := strconv.ParseFloat(get(5), 64)
			unit := get(6)
			categoryName := get(7)

			if name == "" || err1 != nil || stock < 0 || err2 != nil || err3 != nil || err4 != nil {
				skippedCount++
				continue
			}

			product := models.Product{
				Name:            name,
				Stock:           stock,
				ManufactureDate: manufactureDate,
				ExpiryDate:      expiryDate,
				RatePerUnit:     rate,
				Unit:            unit,
			}

			if categoryName != "" {
				var category models.Category
				err := db.Where("name = ?", categoryName).First(&category).Error
				if errors.Is(err, gorm.ErrRecordNotFound) {
					category = models.Category{Name: categoryName}
					err = db.Create(&category).Error
				}
				if err != nil {
					skippedCount++
					continue
				}
				product.CategoryID = &category.ID
			}

			if err := db.Create(&product).Error; err == nil {
				createdCount++
			} else {
				skippedCount++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": createdCount,
			"skipped_count": skippedCount,
		})
	}
}
