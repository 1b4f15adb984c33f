package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/supply-registry/internal/clock"
	"github.com/DRSN-tech/supply-registry/internal/domain"
	"github.com/DRSN-tech/supply-registry/pkg/e"
	"github.com/DRSN-tech/supply-registry/pkg/logger"
)

// sideEffectTimeout ограничивает публикацию в кэш и шину событий, чтобы она не тормозила ответ.
const sideEffectTimeout = 500 * time.Millisecond

// ProductUseCase реализует операции над товарами поверх реестра.
// Кэш и события являются побочными эффектами: их ошибки логируются и не меняют результат операции.
// Изменения сериализуются вместе с побочными эффектами, поэтому кэш и поток событий
// видят изменения товара в том же порядке, что и реестр.
type ProductUseCase struct {
	writeMu sync.Mutex

	registry  ProductRegistry
	cacheRepo CacheRepository
	producer  EventProducer
	clock     clock.Clock
	logger    logger.Logger
}

func NewProductUC(
	registry ProductRegistry,
	cacheRepo CacheRepository,
	producer EventProducer,
	clk clock.Clock,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		registry:  registry,
		cacheRepo: cacheRepo,
		producer:  producer,
		clock:     clk,
		logger:    logger,
	}
}

// AddProduct регистрирует новый товар.
func (p *ProductUseCase) AddProduct(ctx context.Context, payload domain.ProductPayload) (*domain.Product, error) {
	const op = "ProductUseCase.AddProduct"

	if err := p.validatePayload(payload); err != nil {
		return nil, e.Wrap(op, err)
	}

	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	product, ok := p.registry.Add(payload)
	if !ok {
		p.logger.Errorf(e.ErrIDSpaceExhausted, "%s: registry refused to mint an id", op)
		return nil, e.Wrap(op, e.ErrIDSpaceExhausted)
	}

	p.publishProduct(ctx, op, &product)
	p.publishEvent(ctx, op, NewProductChangeEvent(ProductCreated, product, product.Timestamp))

	return &product, nil
}

// GetProduct возвращает товар по идентификатору. Состояние не меняется.
func (p *ProductUseCase) GetProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	const op = "ProductUseCase.GetProduct"

	product, err := p.registry.Get(id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &product, nil
}

// ListProducts возвращает все товары, упорядоченные по id.
func (p *ProductUseCase) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return p.registry.List(), nil
}

// UpdateProduct полностью заменяет изменяемые поля товара.
func (p *ProductUseCase) UpdateProduct(ctx context.Context, id uint64, payload domain.ProductPayload) (*domain.Product, error) {
	const op = "ProductUseCase.UpdateProduct"

	if err := p.validatePayload(payload); err != nil {
		return nil, e.Wrap(op, err)
	}

	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	product, err := p.registry.Update(id, payload)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	updatedAt := product.LastUpdate.OrElse(product.Timestamp)

	p.publishProduct(ctx, op, &product)
	p.publishEvent(ctx, op, NewProductChangeEvent(ProductUpdated, product, updatedAt))

	return &product, nil
}

// DeleteProduct удаляет товар и возвращает его последнее состояние.
func (p *ProductUseCase) DeleteProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	const op = "ProductUseCase.DeleteProduct"

	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	product, err := p.registry.Delete(id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.evictProduct(ctx, op, id)
	p.publishEvent(ctx, op, NewProductChangeEvent(ProductDeleted, product, clock.UnixNano(p.clock.Now())))

	return &product, nil
}

// publishProduct обновляет опубликованное состояние товара в кэше
func (p *ProductUseCase) publishProduct(ctx context.Context, op string, product *domain.Product) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	if err := p.cacheRepo.SetProduct(ctx, product); err != nil {
		p.logger.Warnf("Failed to cache product (Product ID: %d): %v", product.ID, e.Wrap(op, err))
	}
}

// evictProduct удаляет товар из кэша
func (p *ProductUseCase) evictProduct(ctx context.Context, op string, id uint64) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	if err := p.cacheRepo.DeleteProduct(ctx, id); err != nil {
		p.logger.Warnf("Failed to evict product from cache (Product ID: %d): %v", id, e.Wrap(op, err))
	}
}

// publishEvent отправляет событие об изменении товара
func (p *ProductUseCase) publishEvent(ctx context.Context, op string, event *ProductChangeEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	if err := p.producer.WriteEvent(ctx, event); err != nil {
		p.logger.Warnf("Failed to publish %s event (Product ID: %d): %v", event.EventType, event.ProductID, e.Wrap(op, err))
	}
}

// validatePayload проверяет обязательные поля товара. Поля проверяются по порядку, возвращается первая ошибка.
func (p *ProductUseCase) validatePayload(payload domain.ProductPayload) error {
	required := []struct {
		value string
		msg   string
	}{
		{payload.Name, "Product name cannot be empty"},
		{payload.Origin, "Product origin cannot be empty"},
		{payload.CurrentLocation, "Current location cannot be empty"},
		{payload.Status, "Status cannot be empty"},
	}

	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return domain.NewInvalidInputError(field.msg)
		}
	}

	return nil
}
