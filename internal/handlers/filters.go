package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comparekart/catalog-service/internal/catalog"
	"github.com/comparekart/catalog-service/internal/database"
)

// BrandsRequest represents query parameters for brand listing
type BrandsRequest struct {
	Category string `form:"category"`
}

// Categories handles GET /categories
func Categories(c *gin.Context) {
	repo := catalog.NewRepository(database.Pool())
	categories, err := repo.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Brands handles GET /brands?category=
func Brands(c *gin.Context) {
	var req BrandsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	repo := catalog.NewRepository(database.Pool())
	brands, err := repo.Brands(c.Request.Context(), req.Category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch brands"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"brands": brands})
}
