package dataset

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/comparekart/catalog-service/internal/catalog"
	"github.com/comparekart/catalog-service/internal/normalize"
)

// SeedStats summarizes one import run
type SeedStats struct {
	Imported int
	Rejected int
}

// SeedFromFile loads a workbook from disk and upserts every parsed
// product. Row errors are logged and counted but do not stop the run.
func SeedFromFile(ctx context.Context, repo *catalog.Repository, path string) (*SeedStats, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}
	return Seed(ctx, repo, content)
}

// Seed parses workbook bytes and upserts the products
func Seed(ctx context.Context, repo *catalog.Repository, content []byte) (*SeedStats, error) {
	result, err := NewLoader().Load(content)
	if err != nil {
		return nil, err
	}

	for _, loadErr := range result.Errors {
		log.Warn().
			Int("row", loadErr.Row).
			Str("reason", loadErr.Message).
			Msg("Skipping dataset row")
	}

	stats := &SeedStats{Rejected: len(result.Errors)}
	for i := range result.Products {
		p := &result.Products[i]

		var minPrice *float64
		if v, ok := normalize.MinVendorPrice(p); ok {
			minPrice = &v
		}

		if err := repo.Upsert(ctx, p, minPrice); err != nil {
			return stats, fmt.Errorf("upserting product %s: %w", p.ID, err)
		}
		stats.Imported++
	}

	log.Info().
		Int("imported", stats.Imported).
		Int("rejected", stats.Rejected).
		Msg("Dataset import finished")
	return stats, nil
}
