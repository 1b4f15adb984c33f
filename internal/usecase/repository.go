package usecase

import (
	"context"

	"github.com/DRSN-tech/supply-registry/internal/domain"
)

// ProductRegistry хранилище товаров в памяти процесса.
type ProductRegistry interface {
	Add(payload domain.ProductPayload) (domain.Product, bool)
	Get(id uint64) (domain.Product, error)
	Update(id uint64, payload domain.ProductPayload) (domain.Product, error)
	Delete(id uint64) (domain.Product, error)
	List() []domain.Product
}

// SnapshotSource часть реестра, которую использует слой сохранения.
type SnapshotSource interface {
	Snapshot() domain.Snapshot
	Restore(snapshot domain.Snapshot) error
}

// SnapshotRepository сохраняет срез реестра между перезапусками.
type SnapshotRepository interface {
	Load(ctx context.Context) (*domain.Snapshot, error)
	Save(ctx context.Context, snapshot *domain.Snapshot) error
}

// CacheRepository публикует актуальное состояние товаров для внешних читателей.
type CacheRepository interface {
	SetProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id uint64) error
}
