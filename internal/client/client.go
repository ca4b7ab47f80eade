// Package client is the typed catalog REST client: every UI surface
// (CLI commands, comparison assembly) talks to the catalog service
// through it rather than issuing raw HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/comparekart/catalog-service/internal/catalog"
	"github.com/comparekart/catalog-service/internal/httpx"
)

// Client wraps the catalog service endpoints
type Client struct {
	baseURL string
	http    *httpx.Client
}

// New creates a client for the service at baseURL
func New(baseURL string, httpClient *httpx.Client) *Client {
	if httpClient == nil {
		httpClient = httpx.NewClientDefault()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// SearchParams carries the full filter surface of the search endpoint
type SearchParams struct {
	Query    string
	Category string
	Brands   []string
	MinPrice float64
	MaxPrice float64
	SortBy   string
	Page     int
	Limit    int
}

func (p SearchParams) encode() string {
	values := url.Values{}
	if p.Query != "" {
		values.Set("query", p.Query)
	}
	if p.Category != "" {
		values.Set("category", p.Category)
	}
	for _, brand := range p.Brands {
		values.Add("brands[]", brand)
	}
	if p.MinPrice > 0 {
		values.Set("min_price", strconv.FormatFloat(p.MinPrice, 'f', -1, 64))
	}
	if p.MaxPrice > 0 {
		values.Set("max_price", strconv.FormatFloat(p.MaxPrice, 'f', -1, 64))
	}
	if p.SortBy != "" {
		values.Set("sort_by", p.SortBy)
	}
	if p.Page > 0 {
		values.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		values.Set("limit", strconv.Itoa(p.Limit))
	}
	return values.Encode()
}

// Search queries the paginated product search endpoint
func (c *Client) Search(ctx context.Context, params SearchParams) (*catalog.SearchResult, error) {
	endpoint := c.baseURL + "/products/search"
	if qs := params.encode(); qs != "" {
		endpoint += "?" + qs
	}

	var result catalog.SearchResult
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return nil, fmt.Errorf("searching products: %w", err)
	}
	return &result, nil
}

// GetProduct fetches one product by id. Satisfies compare.ProductGetter.
func (c *Client) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	var product catalog.Product
	if err := c.getJSON(ctx, c.baseURL+"/products/"+url.PathEscape(id), &product); err != nil {
		return nil, fmt.Errorf("fetching product %s: %w", id, err)
	}
	return &product, nil
}

type productList struct {
	Products []catalog.Product `json:"products"`
}

// Featured fetches one of the featured product lists: "latest-popular",
// "hot-deals", or "best-selling".
func (c *Client) Featured(ctx context.Context, list string, limit int) ([]catalog.Product, error) {
	endpoint := c.baseURL + "/products/" + url.PathEscape(list)
	if limit > 0 {
		endpoint += "?limit=" + strconv.Itoa(limit)
	}

	var result productList
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return nil, fmt.Errorf("fetching %s list: %w", list, err)
	}
	return result.Products, nil
}

// Categories fetches the category filter values
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var result struct {
		Categories []string `json:"categories"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/categories", &result); err != nil {
		return nil, fmt.Errorf("fetching categories: %w", err)
	}
	return result.Categories, nil
}

// Brands fetches the brand filter values, optionally scoped to a category
func (c *Client) Brands(ctx context.Context, category string) ([]string, error) {
	endpoint := c.baseURL + "/brands"
	if category != "" {
		endpoint += "?category=" + url.QueryEscape(category)
	}

	var result struct {
		Brands []string `json:"brands"`
	}
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return nil, fmt.Errorf("fetching brands: %w", err)
	}
	return result.Brands, nil
}

// ContactSubmission is the contact form payload
type ContactSubmission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// SubmitContact posts a contact form submission
func (c *Client) SubmitContact(ctx context.Context, submission ContactSubmission) error {
	payload, err := json.Marshal(submission)
	if err != nil {
		return fmt.Errorf("marshaling contact submission: %w", err)
	}

	resp, err := c.http.Do(ctx, http.MethodPost, c.baseURL+"/contact-us", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("submitting contact form: %w", err)
	}
	resp.Body.Close()
	return nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	data, err := c.http.GetBytes(ctx, endpoint)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
