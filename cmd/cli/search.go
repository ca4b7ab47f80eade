package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/comparekart/catalog-service/internal/client"
	"github.com/comparekart/catalog-service/internal/normalize"
)

var (
	searchCategory string
	searchBrands   []string
	searchMinPrice float64
	searchMaxPrice float64
	searchSortBy   string
	searchPage     int
	searchLimit    int
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the product catalog",
	Long: `Search the catalog with optional category, brand, price range, and
sort filters. Prints one row per product with the minimum vendor price.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "filter by category")
	searchCmd.Flags().StringSliceVar(&searchBrands, "brand", nil, "filter by brand (repeatable)")
	searchCmd.Flags().Float64Var(&searchMinPrice, "min-price", 0, "minimum price")
	searchCmd.Flags().Float64Var(&searchMaxPrice, "max-price", 0, "maximum price")
	searchCmd.Flags().StringVar(&searchSortBy, "sort", "latest", "sort order: latest, price_asc, price_desc")
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "result page")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 12, "page size")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	api := apiClient()
	result, err := api.Search(cmd.Context(), client.SearchParams{
		Query:    query,
		Category: searchCategory,
		Brands:   searchBrands,
		MinPrice: searchMinPrice,
		MaxPrice: searchMaxPrice,
		SortBy:   searchSortBy,
		Page:     searchPage,
		Limit:    searchLimit,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(result.Products) == 0 {
		fmt.Println("No products found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tBRAND\tCATEGORY\tMIN PRICE\tVENDORS")
	for i := range result.Products {
		p := &result.Products[i]
		price := "-"
		if v, ok := normalize.MinVendorPrice(p); ok {
			price = fmt.Sprintf("%.2f", v)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Title, p.Brand, p.Category, price, strings.Join(p.VendorNames(), ","))
	}
	w.Flush()

	fmt.Printf("\nPage %d, %d of %d products\n",
		result.Pagination.Page, len(result.Products), result.Pagination.Total)
	return nil
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List product categories",
	RunE: func(cmd *cobra.Command, _ []string) error {
		categories, err := apiClient().Categories(cmd.Context())
		if err != nil {
			return err
		}
		for _, c := range categories {
			fmt.Println(c)
		}
		return nil
	},
}

var brandsCategory string

var brandsCmd = &cobra.Command{
	Use:   "brands",
	Short: "List brands, optionally for one category",
	RunE: func(cmd *cobra.Command, _ []string) error {
		brands, err := apiClient().Brands(cmd.Context(), brandsCategory)
		if err != nil {
			return err
		}
		for _, b := range brands {
			fmt.Println(b)
		}
		return nil
	},
}

func init() {
	brandsCmd.Flags().StringVar(&brandsCategory, "category", "", "restrict to one category")
	rootCmd.AddCommand(categoriesCmd, brandsCmd)
}
