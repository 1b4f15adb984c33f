package usecase

import (
	"context"

	"github.com/DRSN-tech/supply-registry/internal/domain"
)

type ProductUC interface {
	AddProduct(ctx context.Context, payload domain.ProductPayload) (*domain.Product, error)
	GetProduct(ctx context.Context, id uint64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, id uint64, payload domain.ProductPayload) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uint64) (*domain.Product, error)
}

type SnapshotUC interface {
	Restore(ctx context.Context) error
	Flush(ctx context.Context) (bool, error)
}
