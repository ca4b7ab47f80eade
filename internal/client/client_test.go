package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comparekart/catalog-service/internal/catalog"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server, New(server.URL, nil)
}

func TestClientSearch(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "iphone", q.Get("query"))
		assert.Equal(t, "mobiles", q.Get("category"))
		assert.Equal(t, []string{"apple", "samsung"}, q["brands[]"])
		assert.Equal(t, "50000", q.Get("min_price"))
		assert.Equal(t, "2", q.Get("page"))

		json.NewEncoder(w).Encode(catalog.SearchResult{
			Products:   []catalog.Product{{ID: "p1", Title: "iPhone 15"}},
			Pagination: catalog.Pagination{Total: 1, Page: 2, PageSize: 12},
		})
	})

	result, err := c.Search(context.Background(), SearchParams{
		Query:    "iphone",
		Category: "mobiles",
		Brands:   []string{"apple", "samsung"},
		MinPrice: 50000,
		Page:     2,
	})
	require.NoError(t, err)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "iPhone 15", result.Products[0].Title)
	assert.Equal(t, 1, result.Pagination.Total)
}

func TestClientGetProduct(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/p42", r.URL.Path)
		json.NewEncoder(w).Encode(catalog.Product{ID: "p42", Title: "Galaxy S24"})
	})

	p, err := c.GetProduct(context.Background(), "p42")
	require.NoError(t, err)
	assert.Equal(t, "Galaxy S24", p.Title)
}

func TestClientGetProductNotFound(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.GetProduct(context.Background(), "missing")
	assert.Error(t, err)
}

func TestClientFeatured(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/hot-deals", r.URL.Path)
		assert.Equal(t, "8", r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode(map[string]any{
			"products": []catalog.Product{{ID: "d1"}, {ID: "d2"}},
		})
	})

	products, err := c.Featured(context.Background(), "hot-deals", 8)
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestClientFilters(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/categories":
			json.NewEncoder(w).Encode(map[string]any{"categories": []string{"mobiles", "laptops"}})
		case "/brands":
			assert.Equal(t, "mobiles", r.URL.Query().Get("category"))
			json.NewEncoder(w).Encode(map[string]any{"brands": []string{"apple", "samsung"}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	categories, err := c.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"mobiles", "laptops"}, categories)

	brands, err := c.Brands(context.Background(), "mobiles")
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "samsung"}, brands)
}

func TestSearchSessionLatestWins(t *testing.T) {
	var served atomic.Int32
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		served.Add(1)
		json.NewEncoder(w).Encode(catalog.SearchResult{
			Products: []catalog.Product{{Title: r.URL.Query().Get("query")}},
		})
	})

	session := NewSearchSession(c, 20*time.Millisecond)
	defer session.Close()

	var mu sync.Mutex
	var results []string
	onResult := func(r *catalog.SearchResult) {
		mu.Lock()
		results = append(results, r.Products[0].Title)
		mu.Unlock()
	}

	ctx := context.Background()
	// Three rapid updates: only the last should reach the server
	session.Update(ctx, SearchParams{Query: "i"}, onResult, nil)
	session.Update(ctx, SearchParams{Query: "ip"}, onResult, nil)
	session.Update(ctx, SearchParams{Query: "iphone"}, onResult, nil)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(results) == 1 && results[0] == "iphone"
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), served.Load())
}
