package usecase

import (
	"github.com/DRSN-tech/supply-registry/internal/domain"
	"github.com/google/uuid"
)

// ProductEventType тип изменения товара, о котором сообщается во внешнюю шину.
type ProductEventType string

const (
	ProductCreated ProductEventType = "product.created"
	ProductUpdated ProductEventType = "product.updated"
	ProductDeleted ProductEventType = "product.deleted"
)

// ProductChangeEvent событие об изменении товара.
type ProductChangeEvent struct {
	EventID    string
	EventType  ProductEventType
	ProductID  uint64
	OccurredAt uint64         // Unix-наносекунды
	Product    domain.Product // Состояние после изменения, для удаления это последнее состояние
}

// MAPPERS

func NewProductChangeEvent(eventType ProductEventType, product domain.Product, occurredAt uint64) *ProductChangeEvent {
	return &ProductChangeEvent{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		ProductID:  product.ID,
		OccurredAt: occurredAt,
		Product:    product,
	}
}
