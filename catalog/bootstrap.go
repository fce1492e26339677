// Package catalog loads the product catalog from the remote source on first
// start.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"shop-api/models"
)

type Store interface {
	CountProducts(ctx context.Context) (int, error)
	InsertProducts(ctx context.Context, products []models.Product) error
}

type remoteProduct struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	InStock     *bool   `json:"in_stock"`
	Weight      int     `json:"weight"`
	Image       string  `json:"image"`
}

type catalogDocument struct {
	Products []remoteProduct `json:"products"`
}

// Bootstrap fetches the remote catalog and loads it into the store. It is
// idempotent: a non-empty catalog is left untouched.
func Bootstrap(ctx context.Context, store Store, url string) error {
	count, err := store.CountProducts(ctx)
	if err != nil {
		return fmt.Errorf("counting products: %w", err)
	}
	if count > 0 {
		log.Printf("Catalog already loaded (%d products), skipping bootstrap", count)
		return nil
	}

	client := &http.Client{Timeout: 30 * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching catalog: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			return
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog source returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading catalog response: %w", err)
	}

	var doc catalogDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("decoding catalog: %w", err)
	}

	products := make([]models.Product, 0, len(doc.Products))
	for _, p := range doc.Products {
		inStock := true
		if p.InStock != nil {
			inStock = *p.InStock
		}
		products = append(products, models.Product{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			InStock:     inStock,
			Weight:      p.Weight,
			Image:       p.Image,
		})
	}

	if err := store.InsertProducts(ctx, products); err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	log.Printf("Catalog bootstrap loaded %d products", len(products))
	return nil
}
