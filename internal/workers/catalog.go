package workers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/comparekart/catalog-service/internal/catalog"
	"github.com/comparekart/catalog-service/internal/dataset"
	"github.com/comparekart/catalog-service/internal/normalize"
	"github.com/comparekart/catalog-service/internal/taskqueue"
)

// NewSyncHandler re-imports a vendor dataset file into the catalog
func NewSyncHandler(repo *catalog.Repository) Handler {
	return func(ctx context.Context, payload []byte) error {
		var req taskqueue.SyncPayload
		if err := json.Unmarshal(payload, &req); err != nil {
			return fmt.Errorf("unmarshaling sync payload: %w", err)
		}
		if req.Path == "" {
			return fmt.Errorf("sync task for %q has no dataset path", req.Source)
		}

		stats, err := dataset.SeedFromFile(ctx, repo, req.Path)
		if err != nil {
			return err
		}

		log.Info().
			Str("source", req.Source).
			Int("imported", stats.Imported).
			Int("rejected", stats.Rejected).
			Msg("Catalog sync completed")
		return nil
	}
}

// NewReindexHandler recomputes the derived search text and minimum
// price columns for every product. Scheduled after bulk imports so
// filtering and sorting stay consistent with the vendor payloads.
func NewReindexHandler(repo *catalog.Repository) Handler {
	return func(ctx context.Context, _ []byte) error {
		ids, err := repo.AllIDs(ctx)
		if err != nil {
			return fmt.Errorf("listing product ids: %w", err)
		}

		reindexed := 0
		for _, id := range ids {
			product, err := repo.GetProduct(ctx, id)
			if err != nil {
				log.Warn().Err(err).Str("product_id", id).Msg("Skipping product during reindex")
				continue
			}

			var minPrice *float64
			if v, ok := normalize.MinVendorPrice(product); ok {
				minPrice = &v
			}

			if err := repo.UpdateDerived(ctx, id, catalog.SearchText(product), minPrice); err != nil {
				return fmt.Errorf("updating product %s: %w", id, err)
			}
			reindexed++
		}

		log.Info().Int("products", reindexed).Msg("Catalog reindex completed")
		return nil
	}
}

// NewCleanupHandler purges old completed tasks
func NewCleanupHandler(queue *taskqueue.TaskQueue, daysToKeep int) Handler {
	return func(ctx context.Context, _ []byte) error {
		count, err := queue.CleanupOldTasks(ctx, daysToKeep)
		if err != nil {
			return fmt.Errorf("cleaning up old tasks: %w", err)
		}
		log.Info().Int("removed", count).Msg("Task queue cleanup completed")
		return nil
	}
}
