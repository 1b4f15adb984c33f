package converter

import (
	"github.com/DRSN-tech/supply-registry/internal/domain"
	"github.com/DRSN-tech/supply-registry/pkg/opt"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
	ToArrEntity(models []ProductModel) []domain.Product
}

type ProductConverterImpl struct{}

func NewProductConverterImpl() *ProductConverterImpl {
	return &ProductConverterImpl{}
}

func (c *ProductConverterImpl) ToModel(entity *domain.Product) *ProductModel {
	if entity == nil {
		return nil
	}

	return &ProductModel{
		ID:              int64(entity.ID),
		Status:          entity.Status,
		Name:            entity.Name,
		Origin:          entity.Origin,
		CurrentLocation: entity.CurrentLocation,
		Certification:   entity.Certification.Ptr(),
		IoTData:         entity.IoTData.Ptr(),
		CreatedAtNs:     int64(entity.Timestamp),
		LastUpdateNs:    ConvertUint64ToPtrInt64(entity.LastUpdate),
	}
}

func (c *ProductConverterImpl) ToEntity(model *ProductModel) *domain.Product {
	if model == nil {
		return nil
	}

	return &domain.Product{
		ID:              uint64(model.ID),
		Status:          model.Status,
		Name:            model.Name,
		Origin:          model.Origin,
		CurrentLocation: model.CurrentLocation,
		Certification:   opt.FromPtr(model.Certification),
		IoTData:         opt.FromPtr(model.IoTData),
		Timestamp:       uint64(model.CreatedAtNs),
		LastUpdate:      ConvertPtrInt64ToUint64(model.LastUpdateNs),
	}
}

func (c *ProductConverterImpl) ToArrEntity(models []ProductModel) []domain.Product {
	result := make([]domain.Product, 0, len(models))
	for i := range models {
		result = append(result, *c.ToEntity(&models[i]))
	}

	return result
}

func ConvertUint64ToPtrInt64(v opt.Option[uint64]) *int64 {
	u, ok := v.Get()
	if !ok {
		return nil
	}

	i := int64(u)
	return &i
}

func ConvertPtrInt64ToUint64(p *int64) opt.Option[uint64] {
	if p == nil {
		return opt.None[uint64]()
	}

	return opt.Some(uint64(*p))
}
