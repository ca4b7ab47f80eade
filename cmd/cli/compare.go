package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/comparekart/catalog-service/internal/compare"
)

var compareCmd = &cobra.Command{
	Use:   "compare <id> <id> [id] [id]",
	Short: "Compare 2-4 products side by side",
	Long: `Fill the comparison slots with the given product ids and render the
full comparison document: the product row, every feature section, and the
per-vendor price table. Products removed with "compare remove" stay
excluded until the local state file is cleared.`,
	Args: cobra.RangeArgs(2, compare.DefaultSlotCount),
	RunE: runCompare,
}

var compareRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Exclude a product from future comparisons",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompareRemove,
}

func init() {
	compareCmd.AddCommand(compareRemoveCmd)
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	api := apiClient()

	store, err := stateStore()
	if err != nil {
		return fmt.Errorf("opening state store: %w", err)
	}
	defer store.Close()

	removed := compare.NewRemovedSet(store)

	vendorPriority := compare.DefaultVendorPriority
	priceVendors := compare.DefaultPriceVendors
	slotCount := compare.DefaultSlotCount
	fetchLimit := 0
	if cfg != nil {
		if len(cfg.Compare.VendorPriority) > 0 {
			vendorPriority = cfg.Compare.VendorPriority
		}
		if len(cfg.Compare.PriceVendors) > 0 {
			priceVendors = cfg.Compare.PriceVendors
		}
		if cfg.Compare.SlotCount > 0 {
			slotCount = cfg.Compare.SlotCount
		}
		fetchLimit = cfg.Compare.FetchLimit
	}

	slots := compare.NewSlotManager(slotCount, vendorPriority, removed)
	for i, id := range args {
		product, err := api.GetProduct(ctx, id)
		if err != nil {
			return fmt.Errorf("fetching product %s: %w", id, err)
		}
		if err := slots.SelectForSlot(i, product); err != nil {
			return err
		}
	}

	ids, err := slots.Submit()
	if err != nil {
		return err
	}

	assembler := compare.NewAssembler(api, removed, compare.AssemblerConfig{
		SlotCount:  slotCount,
		FetchLimit: fetchLimit,
	}, *logger)
	if err := assembler.Load(ctx, ids); err != nil {
		return fmt.Errorf("assembling comparison: %w", err)
	}

	switch assembler.State() {
	case compare.StateEmpty:
		fmt.Println("Nothing to compare: every selected product is unavailable or removed")
		return nil
	case compare.StateError:
		return fmt.Errorf("comparison failed: %w", assembler.Err())
	}

	doc := compare.BuildDocument(
		assembler.Entries(),
		compare.DefaultSections(),
		compare.PriceSection{Vendors: priceVendors},
	)
	printDocument(doc)
	return nil
}

func runCompareRemove(cmd *cobra.Command, args []string) error {
	store, err := stateStore()
	if err != nil {
		return fmt.Errorf("opening state store: %w", err)
	}
	defer store.Close()

	removed := compare.NewRemovedSet(store)
	if err := removed.Load(cmd.Context()); err != nil {
		return err
	}
	if err := removed.Add(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Printf("Removed %s from comparisons\n", args[0])
	return nil
}

func printDocument(doc compare.Document) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprint(w, "PRODUCT")
	for _, entry := range doc.Entries {
		fmt.Fprintf(w, "\t%s", entry.Name)
	}
	fmt.Fprintln(w)
	w.Flush()

	for _, section := range doc.Sections {
		fmt.Printf("\n== %s ==\n", section.Title)
		w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, row := range section.Rows {
			fmt.Fprint(w, row.Label)
			for _, cell := range row.Cells {
				fmt.Fprintf(w, "\t%s", cell)
			}
			fmt.Fprintln(w)
		}
		w.Flush()
	}

	if doc.Price != nil {
		fmt.Printf("\n== %s ==\n", doc.Price.Title)
		w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, row := range doc.Price.Rows {
			fmt.Fprint(w, row.Vendor)
			for _, cell := range row.Cells {
				fmt.Fprintf(w, "\t%s", cell.Display)
			}
			fmt.Fprintln(w)
		}
		w.Flush()
	}
}
