package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/comparekart/catalog-service/config"
	"github.com/comparekart/catalog-service/internal/catalog"
	"github.com/comparekart/catalog-service/internal/compare"
	"github.com/comparekart/catalog-service/internal/database"
	"github.com/comparekart/catalog-service/internal/kvstore"
)

// CompareRequest carries the candidate product ids for a comparison
type CompareRequest struct {
	IDs []string `json:"ids" binding:"required,min=2,max=4,dive,required"`
}

// Compare handles POST /compare. It re-fetches the submitted candidate
// ids, filters products that lost their vendor data or were removed by
// the caller, and returns the fully rendered comparison document.
func Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		compare.RecordSubmission(compare.ErrInsufficientSelection)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	compare.RecordSubmission(nil)

	var compareCfg config.CompareConfig
	if cfg := config.Get(); cfg != nil {
		compareCfg = cfg.Compare
	}

	repo := catalog.NewRepository(database.Pool())
	removed := compare.NewRemovedSet(kvstore.NewPostgres(database.Pool()))

	assembler := compare.NewAssembler(repo, removed, compare.AssemblerConfig{
		SlotCount:  compareCfg.SlotCount,
		FetchLimit: compareCfg.FetchLimit,
	}, log.Logger)

	if err := assembler.Load(c.Request.Context(), req.IDs); err != nil {
		log.Error().Err(err).Strs("ids", req.IDs).Msg("Comparison assembly failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assemble comparison"})
		return
	}

	priceVendors := compareCfg.PriceVendors
	if len(priceVendors) == 0 {
		priceVendors = compare.DefaultPriceVendors
	}

	doc := compare.BuildDocument(
		assembler.Entries(),
		compare.DefaultSections(),
		compare.PriceSection{Vendors: priceVendors},
	)

	c.JSON(http.StatusOK, gin.H{
		"state":    assembler.State(),
		"document": doc,
	})
}

// RemoveComparedRequest identifies a product excluded from future comparisons
type RemoveComparedRequest struct {
	ID string `json:"id" binding:"required"`
}

// RemoveCompared handles POST /compare/removed. The id is persisted so
// subsequent assemblies skip it even when it is submitted again.
func RemoveCompared(c *gin.Context) {
	var req RemoveComparedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	removed := compare.NewRemovedSet(kvstore.NewPostgres(database.Pool()))
	if err := removed.Load(c.Request.Context()); err != nil {
		log.Error().Err(err).Msg("Failed to load removed ids")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record removal"})
		return
	}
	if err := removed.Add(c.Request.Context(), req.ID); err != nil {
		log.Error().Err(err).Str("id", req.ID).Msg("Failed to persist removed id")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record removal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "removed", "id": req.ID})
}
