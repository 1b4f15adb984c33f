package domain

import "github.com/DRSN-tech/supply-registry/pkg/opt"

// Product описывает отслеживаемый товар в цепочке поставок
type Product struct {
	ID              uint64
	Status          string
	Name            string
	Origin          string
	CurrentLocation string
	Certification   opt.Option[string]
	IoTData         opt.Option[string] // Данные датчиков IoT в произвольном формате
	Timestamp       uint64             // Время создания, Unix-наносекунды
	LastUpdate      opt.Option[uint64] // Время последнего изменения, None до первого Update
}

// ProductPayload изменяемые поля товара, которые передаёт клиент при создании и обновлении.
type ProductPayload struct {
	Status          string
	Name            string
	Origin          string
	CurrentLocation string
	Certification   opt.Option[string]
	IoTData         opt.Option[string]
}

func NewProduct(id uint64, payload ProductPayload, timestamp uint64) Product {
	return Product{
		ID:              id,
		Status:          payload.Status,
		Name:            payload.Name,
		Origin:          payload.Origin,
		CurrentLocation: payload.CurrentLocation,
		Certification:   payload.Certification,
		IoTData:         payload.IoTData,
		Timestamp:       timestamp,
		LastUpdate:      opt.None[uint64](),
	}
}

// Apply полностью заменяет изменяемые поля значениями из payload и фиксирует время изменения.
// ID и Timestamp не меняются. LastUpdate не бывает раньше Timestamp, даже если часы ушли назад.
func (p Product) Apply(payload ProductPayload, updatedAt uint64) Product {
	p.Status = payload.Status
	p.Name = payload.Name
	p.Origin = payload.Origin
	p.CurrentLocation = payload.CurrentLocation
	p.Certification = payload.Certification
	p.IoTData = payload.IoTData
	p.LastUpdate = opt.Some(max(updatedAt, p.Timestamp))

	return p
}

// Payload возвращает изменяемую часть товара.
func (p Product) Payload() ProductPayload {
	return ProductPayload{
		Status:          p.Status,
		Name:            p.Name,
		Origin:          p.Origin,
		CurrentLocation: p.CurrentLocation,
		Certification:   p.Certification,
		IoTData:         p.IoTData,
	}
}

func NewProductPayload(status, name, origin, location string, certification, iotData opt.Option[string]) ProductPayload {
	return ProductPayload{
		Status:          status,
		Name:            name,
		Origin:          origin,
		CurrentLocation: location,
		Certification:   certification,
		IoTData:         iotData,
	}
}
