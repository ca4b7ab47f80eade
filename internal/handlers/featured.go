package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comparekart/catalog-service/internal/catalog"
	"github.com/comparekart/catalog-service/internal/database"
)

// FeaturedRequest represents query parameters for featured lists
type FeaturedRequest struct {
	Limit int `form:"limit" binding:"min=0,max=50"`
}

// FeaturedResponse wraps a featured product list
type FeaturedResponse struct {
	Products []catalog.Product `json:"products"`
}

// featured builds a handler for one featured list
func featured(list string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req FeaturedRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		repo := catalog.NewRepository(database.Pool())
		products, err := repo.Featured(c.Request.Context(), list, req.Limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch " + list})
			return
		}

		c.JSON(http.StatusOK, FeaturedResponse{Products: products})
	}
}

// LatestPopular handles GET /products/latest-popular?limit=
var LatestPopular = featured(catalog.ListLatestPopular)

// HotDeals handles GET /products/hot-deals?limit=
var HotDeals = featured(catalog.ListHotDeals)

// BestSelling handles GET /products/best-selling?limit=
var BestSelling = featured(catalog.ListBestSelling)
