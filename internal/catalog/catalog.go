// Package catalog holds the page controllers for product browsing:
// category listing, product detail and search. Each controller owns its
// page-local state; only the cart store is shared across pages.
package catalog

import (
	"context"

	"github.com/vitrine/storefront/internal/backend"
	"github.com/vitrine/storefront/internal/domain"
)

// Backend is the catalog slice of the commerce API.
type Backend interface {
	ListProducts(ctx context.Context, q backend.ProductQuery) (*backend.ProductList, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListCollections(ctx context.Context) ([]domain.Collection, error)
	GetCollection(ctx context.Context, id string) (*domain.Collection, error)
}
