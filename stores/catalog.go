package stores

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"shop-api/models"
)

const (
	catalogCacheKey = "catalog:products"
	catalogCacheTTL = 5 * time.Minute
)

// CatalogStore reads the immutable product catalog. An optional redis client
// fronts the full product list; products never change after bootstrap so the
// cache needs no invalidation.
type CatalogStore struct {
	db    *sql.DB
	cache *redis.Client
}

func NewCatalogStore(db *sql.DB, cache *redis.Client) *CatalogStore {
	return &CatalogStore{db: db, cache: cache}
}

func (s *CatalogStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, catalogCacheKey).Bytes(); err == nil {
			var products []models.Product
			if err := json.Unmarshal(cached, &products); err == nil {
				return products, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Printf("Catalog cache read failed: %v", err)
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, price, in_stock, weight, image
		FROM products
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("Failed to close product rows: %v", err)
		}
	}()

	products := make([]models.Product, 0)
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.InStock, &p.Weight, &p.Image); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(products); err == nil {
			if err := s.cache.Set(ctx, catalogCacheKey, encoded, catalogCacheTTL).Err(); err != nil {
				log.Printf("Catalog cache write failed: %v", err)
			}
		}
	}

	return products, nil
}

// GetProduct returns nil without error when no product has the given id.
func (s *CatalogStore) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	var p models.Product
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, price, in_stock, weight, image
		FROM products
		WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.InStock, &p.Weight, &p.Image)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *CatalogStore) CountProducts(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&count)
	return count, err
}

// InsertProducts loads the catalog in one transaction; used by the bootstrap
// import only.
func (s *CatalogStore) InsertProducts(ctx context.Context, products []models.Product) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	for _, p := range products {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO products (id, name, description, price, in_stock, weight, image)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, p.ID, p.Name, p.Description, p.Price, p.InStock, p.Weight, p.Image)
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Printf("Rollback failed: %v", rbErr)
			}
			return err
		}
	}

	return tx.Commit()
}
