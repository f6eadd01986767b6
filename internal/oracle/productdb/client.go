// Package productdb resolves barcodes against public product databases:
// Open Food Facts first (EAN-8/EAN-13 codes), then UPC Item DB if an API
// key is configured, then Barcode Lookup. The first hit wins.
package productdb

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/homestash/internal/oracle"
)

const (
	openFoodFactsURL = "https://world.openfoodfacts.org/api/v0/product/%s.json"
	upcItemDBURL     = "https://api.upcitemdb.com/prod/trial/lookup?upc=%s"
	barcodeLookupURL = "https://api.barcodelookup.com/v3/products?barcode=%s&formatted=y&key=%s"

	lookupTimeout = 5 * time.Second
)

// Client aggregates the external barcode databases
type Client struct {
	upcItemDBKey     string
	barcodeLookupKey string
	http             *http.Client
}

// NewClient creates a product lookup client. Keys may be empty; sources
// without a key are skipped (Barcode Lookup falls back to its demo key,
// as the free tier allows).
func NewClient(upcItemDBKey, barcodeLookupKey string) *Client {
	return &Client{
		upcItemDBKey:     upcItemDBKey,
		barcodeLookupKey: barcodeLookupKey,
		http:             &http.Client{Timeout: lookupTimeout},
	}
}

// Lookup implements oracle.ProductLookup
func (c *Client) Lookup(ctx context.Context, barcode string) (*oracle.Product, error) {
	tried, failed := 0, 0

	if len(barcode) == 13 || len(barcode) == 8 {
		tried++
		if p, err := c.lookupOpenFoodFacts(ctx, barcode); err != nil {
			failed++
			log.Printf("[ProductDB] Open Food Facts lookup failed: %v", err)
		} else if p != nil {
			return p, nil
		}
	}

	if c.upcItemDBKey != "" {
		tried++
		if p, err := c.lookupUPCItemDB(ctx, barcode); err != nil {
			failed++
			log.Printf("[ProductDB] UPC Item DB lookup failed: %v", err)
		} else if p != nil {
			return p, nil
		}
	}

	tried++
	if p, err := c.lookupBarcodeLookup(ctx, barcode); err != nil {
		failed++
		log.Printf("[ProductDB] Barcode Lookup failed: %v", err)
	} else if p != nil {
		return p, nil
	}

	if failed == tried {
		// Every source we could ask errored out; a "not found" from at
		// least one database is an authoritative miss instead.
		return nil, fmt.Errorf("productdb: all sources failed: %w", oracle.ErrUnavailable)
	}
	return nil, nil // no database knows this code
}

func (c *Client) get(ctx context.Context, rawURL string, headers map[string]string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) lookupOpenFoodFacts(ctx context.Context, barcode string) (*oracle.Product, error) {
	var out struct {
		Status  int `json:"status"`
		Product struct {
			ProductName   string `json:"product_name"`
			ProductNameEn string `json:"product_name_en"`
			Brands        string `json:"brands"`
			Categories    string `json:"categories"`
			GenericName   string `json:"generic_name"`
			ImageURL      string `json:"image_url"`
		} `json:"product"`
	}
	if err := c.get(ctx, fmt.Sprintf(openFoodFactsURL, url.PathEscape(barcode)), nil, &out); err != nil {
		return nil, err
	}
	if out.Status != 1 {
		return nil, nil
	}

	p := out.Product
	name := p.ProductName
	if name == "" {
		name = p.ProductNameEn
	}
	description := p.GenericName
	if description == "" {
		description = name
	}
	barcodeType := "EAN-13"
	if len(barcode) == 8 {
		barcodeType = "EAN-8"
	}
	return &oracle.Product{
		Name:        name,
		Brand:       p.Brands,
		Category:    p.Categories,
		Description: description,
		ImageURL:    p.ImageURL,
		Barcode:     barcode,
		BarcodeType: barcodeType,
		Source:      "Open Food Facts",
	}, nil
}

func (c *Client) lookupUPCItemDB(ctx context.Context, barcode string) (*oracle.Product, error) {
	var out struct {
		Items []struct {
			Title       string   `json:"title"`
			Brand       string   `json:"brand"`
			Category    string   `json:"category"`
			Description string   `json:"description"`
			Images      []string `json:"images"`
		} `json:"items"`
	}
	headers := map[string]string{
		"user_key": c.upcItemDBKey,
		"key_type": "3scale",
	}
	if err := c.get(ctx, fmt.Sprintf(upcItemDBURL, url.QueryEscape(barcode)), headers, &out); err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, nil
	}

	item := out.Items[0]
	var image string
	if len(item.Images) > 0 {
		image = item.Images[0]
	}
	return &oracle.Product{
		Name:        item.Title,
		Brand:       item.Brand,
		Category:    item.Category,
		Description: item.Description,
		ImageURL:    image,
		Barcode:     barcode,
		BarcodeType: "UPC",
		Source:      "UPC Item DB",
	}, nil
}

func (c *Client) lookupBarcodeLookup(ctx context.Context, barcode string) (*oracle.Product, error) {
	key := c.barcodeLookupKey
	if key == "" {
		key = "demo"
	}

	var out struct {
		Products []struct {
			Title       string   `json:"title"`
			ProductName string   `json:"product_name"`
			Brand       string   `json:"brand"`
			Category    string   `json:"category"`
			Description string   `json:"description"`
			BarcodeType string   `json:"barcode_type"`
			Images      []string `json:"images"`
		} `json:"products"`
	}
	if err := c.get(ctx, fmt.Sprintf(barcodeLookupURL, url.QueryEscape(barcode), url.QueryEscape(key)), nil, &out); err != nil {
		return nil, err
	}
	if len(out.Products) == 0 {
		return nil, nil
	}

	product := out.Products[0]
	name := product.Title
	if name == "" {
		name = product.ProductName
	}
	var image string
	if len(product.Images) > 0 {
		image = product.Images[0]
	}
	return &oracle.Product{
		Name:        name,
		Brand:       product.Brand,
		Category:    product.Category,
		Description: product.Description,
		ImageURL:    image,
		Barcode:     barcode,
		BarcodeType: product.BarcodeType,
		Source:      "Barcode Lookup",
	}, nil
}
