package converter

import (
	"github.com/DRSN-tech/supply-registry/internal/domain"
)

// ProductConverter преобразует товар в модель Redis. Кэш только публикуется, обратно не читается.
type ProductConverter interface {
	ToRedisModel(entity *domain.Product) *ProductRedisModel
}

type ProductConverterImpl struct{}

func NewProductConverterImpl() *ProductConverterImpl {
	return &ProductConverterImpl{}
}

func (c *ProductConverterImpl) ToRedisModel(entity *domain.Product) *ProductRedisModel {
	if entity == nil {
		return nil
	}

	return &ProductRedisModel{
		ID:              entity.ID,
		Status:          entity.Status,
		Name:            entity.Name,
		Origin:          entity.Origin,
		CurrentLocation: entity.CurrentLocation,
		Certification:   entity.Certification,
		IoTData:         entity.IoTData,
		Timestamp:       entity.Timestamp,
		LastUpdate:      entity.LastUpdate,
	}
}
