package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comparekart/catalog-service/internal/catalog"
	"github.com/comparekart/catalog-service/internal/database"
)

// SearchProductsRequest represents query parameters for product search
type SearchProductsRequest struct {
	Query    string   `form:"query"`
	Category string   `form:"category"`
	Brands   []string `form:"brands[]"`
	MinPrice float64  `form:"min_price" binding:"min=0"`
	MaxPrice float64  `form:"max_price" binding:"min=0"`
	SortBy   string   `form:"sort_by" binding:"omitempty,oneof=latest price_asc price_desc"`
	Page     int      `form:"page" binding:"min=0"`
	Limit    int      `form:"limit" binding:"min=0,max=100"`
}

// SearchProducts searches the catalog with filters and pagination
// GET /products?query=&category=&brands[]=&min_price=&max_price=&sort_by=&page=&limit=
func SearchProducts(c *gin.Context) {
	var req SearchProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.MaxPrice > 0 && req.MinPrice > req.MaxPrice {
		c.JSON(http.StatusBadRequest, gin.H{"error": "min_price must not exceed max_price"})
		return
	}

	repo := catalog.NewRepository(database.Pool())
	result, err := repo.Search(c.Request.Context(), catalog.SearchQuery{
		Query:    req.Query,
		Category: req.Category,
		Brands:   req.Brands,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
		SortBy:   req.SortBy,
		Page:     req.Page,
		Limit:    req.Limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search products"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProduct returns one product by id
// GET /products/:id (also mounted at /product/:id for the legacy path)
func GetProduct(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	repo := catalog.NewRepository(database.Pool())
	product, err := repo.GetProduct(c.Request.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	c.JSON(http.StatusOK, product)
}
