// Package noop содержит заглушки внешних зависимостей, которые подставляются, когда бэкенд выключен в конфигурации.
package noop

import (
	"context"

	"github.com/DRSN-tech/supply-registry/internal/domain"
	"github.com/DRSN-tech/supply-registry/internal/usecase"
)

var (
	_ usecase.CacheRepository = CacheRepo{}
	_ usecase.EventProducer   = Producer{}
)

type CacheRepo struct{}

func (CacheRepo) SetProduct(context.Context, *domain.Product) error { return nil }

func (CacheRepo) DeleteProduct(context.Context, uint64) error { return nil }

type Producer struct{}

func (Producer) WriteEvent(context.Context, *usecase.ProductChangeEvent) error { return nil }
