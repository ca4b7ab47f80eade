package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/comparekart/catalog-service/internal/catalog"
	"github.com/comparekart/catalog-service/internal/normalize"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one product with its vendor offers",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var featuredList string

var featuredCmd = &cobra.Command{
	Use:   "featured",
	Short: "List a featured product collection",
	RunE:  runFeatured,
}

func init() {
	featuredCmd.Flags().StringVar(&featuredList, "list", catalog.ListLatestPopular,
		"collection: latest-popular, hot-deals, best-selling")
	rootCmd.AddCommand(showCmd, featuredCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	product, err := apiClient().GetProduct(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", product.Title)
	fmt.Printf("Brand: %s  Category: %s\n", product.Brand, product.Category)
	if len(product.Tags) > 0 {
		fmt.Printf("Tags: %v\n", product.Tags)
	}

	if !product.HasVendorData() {
		fmt.Println("\nNo vendor offers")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\nVENDOR\tPRICE\tDISCOUNT\tRATING\tLINK")
	for _, vendor := range product.VendorNames() {
		offer := product.Vendors[vendor]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			vendor,
			orDash(offer.Price.String()),
			orDash(offer.DiscountPrice.String()),
			orDash(offer.Rating.String()),
			offer.AffiliateLink)
	}
	w.Flush()

	if best, _, ok := normalize.BestRatedVendor(product); ok {
		fmt.Printf("\nBest rated vendor: %s\n", best)
	}
	return nil
}

func runFeatured(cmd *cobra.Command, _ []string) error {
	products, err := apiClient().Featured(cmd.Context(), featuredList, 0)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tBRAND\tMIN PRICE")
	for i := range products {
		p := &products[i]
		price := "-"
		if v, ok := normalize.MinVendorPrice(p); ok {
			price = fmt.Sprintf("%.2f", v)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Title, p.Brand, price)
	}
	w.Flush()
	return nil
}

func orDash(s string) string {
	if s == "" {
		return normalize.Missing
	}
	return s
}
