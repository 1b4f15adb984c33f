package http

import (
	"github.com/DRSN-tech/supply-registry/internal/domain"
	"github.com/DRSN-tech/supply-registry/pkg/opt"
)

// ProductRequest тело запроса на создание и полное обновление товара.
// Отсутствующее или null поле certification/iot_data означает «нет значения».
type ProductRequest struct {
	Status          string             `json:"status" example:"in_transit"`
	Name            string             `json:"name" example:"Widget"`
	Origin          string             `json:"origin" example:"Factory A"`
	CurrentLocation string             `json:"current_location" example:"Warehouse B"`
	Certification   opt.Option[string] `json:"certification" swaggertype:"string" extensions:"x-nullable"`
	IoTData         opt.Option[string] `json:"iot_data" swaggertype:"string" extensions:"x-nullable"`
}

func (r *ProductRequest) toPayload() domain.ProductPayload {
	return domain.NewProductPayload(r.Status, r.Name, r.Origin, r.CurrentLocation, r.Certification, r.IoTData)
}

type ProductResponse struct {
	ID              uint64             `json:"id" example:"1"`
	Status          string             `json:"status" example:"in_transit"`
	Name            string             `json:"name" example:"Widget"`
	Origin          string             `json:"origin" example:"Factory A"`
	CurrentLocation string             `json:"current_location" example:"Warehouse B"`
	Certification   opt.Option[string] `json:"certification" swaggertype:"string" extensions:"x-nullable"`
	IoTData         opt.Option[string] `json:"iot_data" swaggertype:"string" extensions:"x-nullable"`
	Timestamp       uint64             `json:"timestamp" example:"1700000000000000000"`
	LastUpdate      opt.Option[uint64] `json:"last_update" swaggertype:"integer" extensions:"x-nullable"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
}

func toProductResponse(p *domain.Product) *ProductResponse {
	return &ProductResponse{
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

func toProductListResponse(products []domain.Product) *ProductListResponse {
	res := make([]ProductResponse, len(products))
	for i := range products {
		res[i] = *toProductResponse(&products[i])
	}

	return &ProductListResponse{Products: res}
}
