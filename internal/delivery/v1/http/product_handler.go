package http

import (
	"net/http"

	"github.com/DRSN-tech/supply-registry/internal/usecase"
	"github.com/DRSN-tech/supply-registry/pkg/logger"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger}
}

// addProduct
//
//	@Summary		Регистрация нового товара
//	@Description	Создаёт товар в реестре и выдаёт ему новый идентификатор
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			product	body		ProductRequest	true	"Данные товара"
//	@Success		201		{object}	ProductResponse	"Товар создан"
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		503		{object}	ErrorResponse	"Исчерпано пространство идентификаторов"
//	@Router			/products [post]
func (p *ProductHandler) addProduct(w http.ResponseWriter, r *http.Request) {
	req, err := decodeProductRequest(w, r)
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	product, err := p.productUsecase.AddProduct(r.Context(), req.toPayload())
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toProductResponse(product))
}

// listProducts
//
//	@Summary	Список товаров
//	@Tags		products
//	@Produce	json
//	@Success	200	{object}	ProductListResponse
//	@Router		/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := p.productUsecase.ListProducts(r.Context())
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductListResponse(products))
}

// getProduct
//
//	@Summary	Получение товара по идентификатору
//	@Tags		products
//	@Produce	json
//	@Param		id	path		integer	true	"Идентификатор товара"
//	@Success	200	{object}	ProductResponse
//	@Failure	400	{object}	ErrorResponse	"Некорректный идентификатор"
//	@Failure	404	{object}	ErrorResponse	"Товар не найден"
//	@Router		/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	product, err := p.productUsecase.GetProduct(r.Context(), id)
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// updateProduct
//
//	@Summary		Обновление товара
//	@Description	Полностью заменяет изменяемые поля товара и проставляет last_update
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			id		path		integer			true	"Идентификатор товара"
//	@Param			product	body		ProductRequest	true	"Новые данные товара"
//	@Success		200		{object}	ProductResponse
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		404		{object}	ErrorResponse	"Товар не найден"
//	@Router			/products/{id} [put]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	req, err := decodeProductRequest(w, r)
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	product, err := p.productUsecase.UpdateProduct(r.Context(), id, req.toPayload())
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// deleteProduct
//
//	@Summary	Удаление товара
//	@Tags		products
//	@Produce	json
//	@Param		id	path		integer	true	"Идентификатор товара"
//	@Success	200	{object}	ProductResponse	"Последнее состояние удалённого товара"
//	@Failure	400	{object}	ErrorResponse	"Некорректный идентификатор"
//	@Failure	404	{object}	ErrorResponse	"Товар не найден"
//	@Router		/products/{id} [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	product, err := p.productUsecase.DeleteProduct(r.Context(), id)
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

func (p *ProductHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := WriteError(w, err)
	if code >= http.StatusInternalServerError {
		p.logger.Errorf(err, "%s %s: %d", r.Method, r.URL.Path, code)
		return
	}

	p.logger.Warnf("%s %s: %d %s", r.Method, r.URL.Path, code, err.Error())
}
