package kafka

import (
	"github.com/DRSN-tech/supply-registry/internal/domain"
	"github.com/DRSN-tech/supply-registry/internal/usecase"
	"github.com/DRSN-tech/supply-registry/pkg/opt"
)

// ProductEventMessage тело сообщения в топике изменений товаров.
type ProductEventMessage struct {
	EventID    string         `json:"event_id"`
	EventType  string         `json:"event_type"`
	ProductID  uint64         `json:"product_id"`
	OccurredAt uint64         `json:"occurred_at"`
	Product    ProductMessage `json:"product"`
}

type ProductMessage struct {
	ID              uint64             `json:"id"`
	Status          string             `json:"status"`
	Name            string             `json:"name"`
	Origin          string             `json:"origin"`
	CurrentLocation string             `json:"current_location"`
	Certification   opt.Option[string] `json:"certification"`
	IoTData         opt.Option[string] `json:"iot_data"`
	Timestamp       uint64             `json:"timestamp"`
	LastUpdate      opt.Option[uint64] `json:"last_update"`
}

func toProductEventMessage(event *usecase.ProductChangeEvent) *ProductEventMessage {
	return &ProductEventMessage{
		EventID:    event.EventID,
		EventType:  string(event.EventType),
		ProductID:  event.ProductID,
		OccurredAt: event.OccurredAt,
		Product:    toProductMessage(&event.Product),
	}
}

func toProductMessage(p *domain.Product) ProductMessage {
	return ProductMessage{
		ID:              p.ID,
		Status:          p.Status,
		Name:            p.Name,
		Origin:          p.Origin,
		CurrentLocation: p.CurrentLocation,
		Certification:   p.Certification,
		IoTData:         p.IoTData,
		Timestamp:       p.Timestamp,
		LastUpdate:      p.LastUpdate,
	}
}
