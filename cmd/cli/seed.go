package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/comparekart/catalog-service/internal/catalog"
	"github.com/comparekart/catalog-service/internal/database"
	"github.com/comparekart/catalog-service/internal/dataset"
	"github.com/comparekart/catalog-service/internal/normalize"
)

var seedCmd = &cobra.Command{
	Use:   "seed <dataset.xlsx>",
	Short: "Import a product dataset workbook into the catalog",
	Long: `Parse a seed workbook and upsert every product row. Row errors are
reported and skipped; the import continues. Derived search text and
minimum prices are computed during the upsert.`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Recompute derived search text and minimum prices",
	RunE:  runReindex,
}

func init() {
	rootCmd.AddCommand(seedCmd, reindexCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	defer database.Close()

	repo := catalog.NewRepository(database.Pool())
	stats, err := dataset.SeedFromFile(cmd.Context(), repo, args[0])
	if err != nil {
		return fmt.Errorf("seeding catalog: %w", err)
	}

	fmt.Printf("Imported %d products (%d rows rejected)\n", stats.Imported, stats.Rejected)
	return nil
}

func runReindex(cmd *cobra.Command, _ []string) error {
	defer database.Close()

	ctx := cmd.Context()
	repo := catalog.NewRepository(database.Pool())

	ids, err := repo.AllIDs(ctx)
	if err != nil {
		return fmt.Errorf("listing products: %w", err)
	}

	for _, id := range ids {
		product, err := repo.GetProduct(ctx, id)
		if err != nil {
			logger.Warn().Err(err).Str("product_id", id).Msg("Skipping product")
			continue
		}

		var minPrice *float64
		if v, ok := normalize.MinVendorPrice(product); ok {
			minPrice = &v
		}
		if err := repo.UpdateDerived(ctx, id, catalog.SearchText(product), minPrice); err != nil {
			return fmt.Errorf("updating product %s: %w", id, err)
		}
	}

	fmt.Printf("Reindexed %d products\n", len(ids))
	return nil
}
