// Package products looks up food products in the Open Food Facts database.
//
// The database is treated as unreliable: network and decoding failures are
// logged and turned into empty results, never returned to the caller.
package products

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/reginaldodesouza61/listas-compras/internal/metrics"
	"github.com/reginaldodesouza61/listas-compras/internal/models"
)

const (
	DefaultSearchURL  = "https://br.openfoodfacts.org/cgi/search.pl"
	DefaultBarcodeURL = "https://world.openfoodfacts.org/api/v0/product/"
	DefaultPageSize   = 20
	DefaultTimeout    = 10 * time.Second

	// MinQueryLength is the shortest text query that is sent to the database.
	MinQueryLength = 2

	searchFields = "code,product_name,brands,quantity,image_url"
)

// Config configures a Client. Zero values select the defaults.
type Config struct {
	SearchURL  string
	BarcodeURL string
	PageSize   int
	Timeout    time.Duration
	HTTPClient *http.Client
	Metrics    *metrics.Metrics
}

// Client queries the product database.
type Client struct {
	http       *http.Client
	searchURL  string
	barcodeURL string
	pageSize   int
	metrics    *metrics.Metrics
}

// NewClient creates a Client from cfg.
func NewClient(cfg Config) *Client {
	c := &Client{
		http:       cfg.HTTPClient,
		searchURL:  cfg.SearchURL,
		barcodeURL: cfg.BarcodeURL,
		pageSize:   cfg.PageSize,
		metrics:    cfg.Metrics,
	}
	if c.searchURL == "" {
		c.searchURL = DefaultSearchURL
	}
	if c.barcodeURL == "" {
		c.barcodeURL = DefaultBarcodeURL
	}
	if c.pageSize <= 0 {
		c.pageSize = DefaultPageSize
	}
	if c.http == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.http = &http.Client{Timeout: timeout}
	}
	return c
}

type offProduct struct {
	Code        string `json:"code"`
	ProductName string `json:"product_name"`
	Brands      string `json:"brands"`
	Quantity    string `json:"quantity"`
	ImageURL    string `json:"image_url"`
}

func (p offProduct) toModel(fallbackCode string) models.Product {
	code := p.Code
	if code == "" {
		code = fallbackCode
	}
	return models.Product{
		Code:     code,
		Name:     p.ProductName,
		Brand:    p.Brands,
		Quantity: p.Quantity,
		ImageURL: p.ImageURL,
	}
}

type searchResponse struct {
	Products []offProduct `json:"products"`
}

type barcodeResponse struct {
	Status  int         `json:"status"`
	Product *offProduct `json:"product"`
}

// Search returns products whose name or brand contains query, best matches
// first. Queries shorter than MinQueryLength return nothing without a request.
//
// Two searches run concurrently: the plain terms and the terms with a
// trailing wildcard. Their results are merged and deduplicated by code.
func (c *Client) Search(ctx context.Context, query string) []models.Product {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinQueryLength {
		return nil
	}

	terms := []string{query, query + "*"}
	responses := make([][]offProduct, len(terms))

	var wg sync.WaitGroup
	for i, term := range terms {
		wg.Add(1)
		go func() {
			defer wg.Done()
			products, err := c.search(ctx, term)
			if err != nil {
				slog.Warn("Product search failed", "terms", term, "error", err)
				return
			}
			responses[i] = products
		}()
	}
	wg.Wait()

	needle := strings.ToLower(query)
	seen := make(map[string]bool)
	var results []models.Product
	for _, products := range responses {
		for _, p := range products {
			// Products without a code cannot be matched across responses
			if strings.TrimSpace(p.ProductName) == "" || (p.Code != "" && seen[p.Code]) {
				continue
			}
			name := strings.ToLower(p.ProductName)
			brand := strings.ToLower(p.Brands)
			if !strings.Contains(name, needle) && !strings.Contains(brand, needle) {
				continue
			}
			if p.Code != "" {
				seen[p.Code] = true
			}
			results = append(results, p.toModel(""))
		}
	}

	Rank(results, query)
	if len(results) > c.pageSize {
		results = results[:c.pageSize]
	}

	outcome := "ok"
	if len(results) == 0 {
		outcome = "empty"
	}
	c.metrics.ProductLookup("search", outcome)
	return results
}

func (c *Client) search(ctx context.Context, terms string) ([]offProduct, error) {
	params := url.Values{}
	params.Set("search_terms", terms)
	params.Set("json", "1")
	params.Set("page_size", fmt.Sprint(c.pageSize))
	params.Set("fields", searchFields)
	params.Set("search_simple", "1")
	params.Set("action", "process")

	var resp searchResponse
	if err := c.getJSON(ctx, c.searchURL+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// LookupBarcode returns the product registered under code. The second result
// is false when the product is unknown or the lookup failed.
func (c *Client) LookupBarcode(ctx context.Context, code string) (models.Product, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return models.Product{}, false
	}

	var resp barcodeResponse
	if err := c.getJSON(ctx, c.barcodeURL+url.PathEscape(code)+".json", &resp); err != nil {
		slog.Warn("Barcode lookup failed", "code", code, "error", err)
		c.metrics.ProductLookup("barcode", "error")
		return models.Product{}, false
	}
	if resp.Status != 1 || resp.Product == nil {
		c.metrics.ProductLookup("barcode", "not_found")
		return models.Product{}, false
	}

	c.metrics.ProductLookup("barcode", "found")
	return resp.Product.toModel(code), true
}

func (c *Client) getJSON(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Rank orders products for query: exact name matches first, then names
// starting with the query, then names containing it earlier, then products
// whose brand contains it. Ties keep their input order.
func Rank(products []models.Product, query string) {
	needle := strings.ToLower(strings.TrimSpace(query))
	slices.SortStableFunc(products, func(a, b models.Product) int {
		ka, kb := rankKey(a, needle), rankKey(b, needle)
		for i := range ka {
			if ka[i] != kb[i] {
				return ka[i] - kb[i]
			}
		}
		return 0
	})
}

func rankKey(p models.Product, needle string) [4]int {
	name := strings.ToLower(p.Name)
	brand := strings.ToLower(p.Brand)

	var key [4]int
	if name != needle {
		key[0] = 1
	}
	if !strings.HasPrefix(name, needle) {
		key[1] = 1
	}
	key[2] = strings.Index(name, needle)
	if key[2] < 0 {
		key[2] = math.MaxInt32
	}
	if !strings.Contains(brand, needle) {
		key[3] = 1
	}
	return key
}
