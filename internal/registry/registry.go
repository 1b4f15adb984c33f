// Package registry хранит товары в памяти и выдаёт им идентификаторы.
//
// Счётчик идентификаторов стартует с 0 и увеличивается до выдачи, поэтому первый товар
// получает id=1, а 0 никогда не бывает валидным идентификатором. Выданный id не
// переиспользуется, даже если товар удалён.
package registry

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/DRSN-tech/supply-registry/internal/clock"
	"github.com/DRSN-tech/supply-registry/internal/domain"
	"github.com/DRSN-tech/supply-registry/pkg/e"
)

// Registry потокобезопасное хранилище товаров со счётчиком идентификаторов.
type Registry struct {
	mu       sync.RWMutex
	products map[uint64]domain.Product
	lastID   uint64
	version  uint64 // растёт на каждой успешной мутации
	clock    clock.Clock
}

func New(clk clock.Clock) *Registry {
	return &Registry{
		products: make(map[uint64]domain.Product),
		clock:    clk,
	}
}

// Add создаёт товар с новым идентификатором и временем создания.
// Второе значение false только если пространство идентификаторов исчерпано.
func (r *Registry) Add(payload domain.ProductPayload) (domain.Product, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.lastID == math.MaxUint64 {
		return domain.Product{}, false
	}

	r.lastID++
	id := r.lastID
	if _, exists := r.products[id]; exists {
		panic(fmt.Sprintf("registry: id %d issued twice", id))
	}

	product := domain.NewProduct(id, payload, r.now())
	r.products[id] = product
	r.version++

	return product, true
}

// Get возвращает товар по идентификатору.
func (r *Registry) Get(id uint64) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return domain.Product{}, domain.NewNotFoundError(fmt.Sprintf("a product with id=%d not found", id))
	}

	return product, nil
}

// Update заменяет все изменяемые поля товара и проставляет LastUpdate.
func (r *Registry) Update(id uint64, payload domain.ProductPayload) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return domain.Product{}, domain.NewNotFoundError(
			fmt.Sprintf("couldn't update a product with id=%d. product not found", id),
		)
	}

	product = product.Apply(payload, r.now())
	r.products[id] = product
	r.version++

	return product, nil
}

// Delete удаляет товар и возвращает его последнее состояние.
func (r *Registry) Delete(id uint64) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return domain.Product{}, domain.NewNotFoundError(
			fmt.Sprintf("couldn't delete a product with id=%d. product not found", id),
		)
	}

	delete(r.products, id)
	r.version++

	return product, nil
}

// List возвращает все товары, упорядоченные по id.
func (r *Registry) List() []domain.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedProducts()
}

// Version возвращает номер последней мутации.
func (r *Registry) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.version
}

// Snapshot снимает согласованный срез состояния.
func (r *Registry) Snapshot() domain.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return domain.Snapshot{
		LastID:   r.lastID,
		Version:  r.version,
		Products: r.sortedProducts(),
	}
}

// Restore заменяет содержимое реестра сохранённым срезом.
// Счётчик никогда не уменьшается: берётся максимум из текущего и сохранённого LastID.
func (r *Registry) Restore(snapshot domain.Snapshot) error {
	products := make(map[uint64]domain.Product, len(snapshot.Products))
	for _, product := range snapshot.Products {
		if product.ID == 0 || product.ID > snapshot.LastID {
			return e.Wrap(fmt.Sprintf("product id=%d, last id=%d", product.ID, snapshot.LastID), e.ErrCorruptedSnapshot)
		}

		if _, dup := products[product.ID]; dup {
			return e.Wrap(fmt.Sprintf("duplicate product id=%d", product.ID), e.ErrCorruptedSnapshot)
		}

		products[product.ID] = product
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.products = products
	r.lastID = max(r.lastID, snapshot.LastID)
	r.version = 0

	return nil
}

func (r *Registry) sortedProducts() []domain.Product {
	result := make([]domain.Product, 0, len(r.products))
	for _, product := range r.products {
		result = append(result, product)
	}

	slices.SortFunc(result, func(a, b domain.Product) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return result
}

func (r *Registry) now() uint64 {
	return clock.UnixNano(r.clock.Now())
}
