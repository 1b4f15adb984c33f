package grpc

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/DRSN-tech/supply-registry/internal/domain"
	"github.com/DRSN-tech/supply-registry/internal/usecase"
	"github.com/DRSN-tech/supply-registry/pkg/e"
	"github.com/DRSN-tech/supply-registry/pkg/logger"
	"github.com/DRSN-tech/supply-registry/pkg/opt"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var _ ProductRegistryServer = (*ProductService)(nil)

// Поля товара в google.protobuf.Struct.
const (
	fieldID              = "id"
	fieldStatus          = "status"
	fieldName            = "name"
	fieldOrigin          = "origin"
	fieldCurrentLocation = "current_location"
	fieldCertification   = "certification"
	fieldIoTData         = "iot_data"
	fieldTimestamp       = "timestamp"
	fieldLastUpdate      = "last_update"
)

// Схема запросов AddProduct и UpdateProduct. Лишние поля отклоняются так же, как в HTTP API.
var (
	payloadFields = []string{
		fieldStatus, fieldName, fieldOrigin, fieldCurrentLocation, fieldCertification, fieldIoTData,
	}
	updateFields = append([]string{fieldID}, payloadFields...)
)

type ProductService struct {
	prUC   usecase.ProductUC
	logger logger.Logger
}

func NewProductService(prUC usecase.ProductUC, logger logger.Logger) *ProductService {
	return &ProductService{prUC: prUC, logger: logger}
}

func (g *ProductService) AddProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.AddProduct"

	if err := checkFields(req, payloadFields); err != nil {
		return nil, g.fail(op, err)
	}

	payload, err := toPayload(req)
	if err != nil {
		return nil, g.fail(op, err)
	}

	product, err := g.prUC.AddProduct(ctx, payload)
	if err != nil {
		return nil, g.fail(op, err)
	}

	return g.respond(op, product)
}

func (g *ProductService) GetProduct(ctx context.Context, req *wrapperspb.UInt64Value) (*structpb.Struct, error) {
	const op = "grpc.GetProduct"

	product, err := g.prUC.GetProduct(ctx, req.GetValue())
	if err != nil {
		return nil, g.fail(op, err)
	}

	return g.respond(op, product)
}

func (g *ProductService) ListProducts(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	const op = "grpc.ListProducts"

	products, err := g.prUC.ListProducts(ctx)
	if err != nil {
		return nil, g.fail(op, err)
	}

	values := make([]*structpb.Value, 0, len(products))
	for i := range products {
		s, err := toGRPCProduct(&products[i])
		if err != nil {
			return nil, g.fail(op, err)
		}
		values = append(values, structpb.NewStructValue(s))
	}

	return &structpb.ListValue{Values: values}, nil
}

// UpdateProduct ждёт в запросе поле id и полный набор изменяемых полей.
func (g *ProductService) UpdateProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.UpdateProduct"

	if err := checkFields(req, updateFields); err != nil {
		return nil, g.fail(op, err)
	}

	id, err := uint64Field(req, fieldID)
	if err != nil {
		return nil, g.fail(op, err)
	}

	payload, err := toPayload(req)
	if err != nil {
		return nil, g.fail(op, err)
	}

	product, err := g.prUC.UpdateProduct(ctx, id, payload)
	if err != nil {
		return nil, g.fail(op, err)
	}

	return g.respond(op, product)
}

func (g *ProductService) DeleteProduct(ctx context.Context, req *wrapperspb.UInt64Value) (*structpb.Struct, error) {
	const op = "grpc.DeleteProduct"

	product, err := g.prUC.DeleteProduct(ctx, req.GetValue())
	if err != nil {
		return nil, g.fail(op, err)
	}

	return g.respond(op, product)
}

func (g *ProductService) respond(op string, product *domain.Product) (*structpb.Struct, error) {
	res, err := toGRPCProduct(product)
	if err != nil {
		return nil, g.fail(op, err)
	}

	return res, nil
}

func (g *ProductService) fail(op string, err error) error {
	grpcErr := GRPCErrorResponse(err)
	if isServerError(grpcErr) {
		g.logger.Errorf(e.Wrap(op, err), "%s", op)
	} else {
		g.logger.Warnf("%s: %v", op, err)
	}

	return grpcErr
}

func toGRPCProduct(p *domain.Product) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		fieldID:              strconv.FormatUint(p.ID, 10),
		fieldStatus:          p.Status,
		fieldName:            p.Name,
		fieldOrigin:          p.Origin,
		fieldCurrentLocation: p.CurrentLocation,
		fieldCertification:   optionalString(p.Certification),
		fieldIoTData:         optionalString(p.IoTData),
		fieldTimestamp:       strconv.FormatUint(p.Timestamp, 10),
		fieldLastUpdate:      optionalUint64(p.LastUpdate),
	})
}

// FromGRPCProduct разбирает товар из ответа сервиса.
func FromGRPCProduct(s *structpb.Struct) (*domain.Product, error) {
	payload, err := toPayload(s)
	if err != nil {
		return nil, err
	}

	id, err := uint64Field(s, fieldID)
	if err != nil {
		return nil, err
	}

	timestamp, err := uint64Field(s, fieldTimestamp)
	if err != nil {
		return nil, err
	}

	product := domain.NewProduct(id, payload, timestamp)
	if v, ok := s.GetFields()[fieldLastUpdate]; ok {
		if _, isNull := v.GetKind().(*structpb.Value_NullValue); !isNull {
			lastUpdate, err := uint64Value(v)
			if err != nil {
				return nil, e.Wrap(fieldLastUpdate, err)
			}
			product.LastUpdate = opt.Some(lastUpdate)
		}
	}

	return &product, nil
}

// ToGRPCPayload кодирует изменяемые поля товара для AddProduct и UpdateProduct.
// Для UpdateProduct id передаётся отдельно.
func ToGRPCPayload(id opt.Option[uint64], payload domain.ProductPayload) (*structpb.Struct, error) {
	fields := map[string]any{
		fieldStatus:          payload.Status,
		fieldName:            payload.Name,
		fieldOrigin:          payload.Origin,
		fieldCurrentLocation: payload.CurrentLocation,
		fieldCertification:   optionalString(payload.Certification),
		fieldIoTData:         optionalString(payload.IoTData),
	}
	if v, ok := id.Get(); ok {
		fields[fieldID] = strconv.FormatUint(v, 10)
	}

	return structpb.NewStruct(fields)
}

func toPayload(s *structpb.Struct) (domain.ProductPayload, error) {
	var (
		payload domain.ProductPayload
		err     error
	)

	if payload.Status, err = stringField(s, fieldStatus); err != nil {
		return payload, err
	}
	if payload.Name, err = stringField(s, fieldName); err != nil {
		return payload, err
	}
	if payload.Origin, err = stringField(s, fieldOrigin); err != nil {
		return payload, err
	}
	if payload.CurrentLocation, err = stringField(s, fieldCurrentLocation); err != nil {
		return payload, err
	}
	if payload.Certification, err = optionalStringField(s, fieldCertification); err != nil {
		return payload, err
	}
	if payload.IoTData, err = optionalStringField(s, fieldIoTData); err != nil {
		return payload, err
	}

	return payload, nil
}

func checkFields(s *structpb.Struct, allowed []string) error {
	for key := range s.GetFields() {
		if !slices.Contains(allowed, key) {
			return e.Wrap(fmt.Sprintf("unknown field %q", key), e.ErrInvalidBody)
		}
	}

	return nil
}

// stringField возвращает строковое поле, отсутствующее поле даёт пустую строку.
func stringField(s *structpb.Struct, key string) (string, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return "", nil
	}

	str, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", e.Wrap(fmt.Sprintf("field %q must be a string", key), e.ErrInvalidBody)
	}

	return str.StringValue, nil
}

// optionalStringField различает отсутствие значения (нет поля или null) и пустую строку.
func optionalStringField(s *structpb.Struct, key string) (opt.Option[string], error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return opt.None[string](), nil
	}

	switch kind := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return opt.None[string](), nil
	case *structpb.Value_StringValue:
		return opt.Some(kind.StringValue), nil
	default:
		return opt.None[string](), e.Wrap(fmt.Sprintf("field %q must be a string or null", key), e.ErrInvalidBody)
	}
}

func uint64Field(s *structpb.Struct, key string) (uint64, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, e.Wrap(fmt.Sprintf("field %q is required", key), e.ErrInvalidProductID)
	}

	id, err := uint64Value(v)
	if err != nil {
		return 0, e.Wrap(key, err)
	}

	return id, nil
}

// uint64Value принимает десятичную строку или целое число, точно представимое в double.
func uint64Value(v *structpb.Value) (uint64, error) {
	const maxExactFloat = 1 << 53

	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		n, err := strconv.ParseUint(kind.StringValue, 10, 64)
		if err != nil {
			return 0, e.ErrInvalidProductID
		}
		return n, nil
	case *structpb.Value_NumberValue:
		f := kind.NumberValue
		if f < 0 || f > maxExactFloat || f != math.Trunc(f) {
			return 0, e.ErrInvalidProductID
		}
		return uint64(f), nil
	default:
		return 0, e.ErrInvalidProductID
	}
}

func optionalString(o opt.Option[string]) any {
	if v, ok := o.Get(); ok {
		return v
	}
	return nil
}

func optionalUint64(o opt.Option[uint64]) any {
	if v, ok := o.Get(); ok {
		return strconv.FormatUint(v, 10)
	}
	return nil
}
