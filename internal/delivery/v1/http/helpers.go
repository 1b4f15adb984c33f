package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/DRSN-tech/supply-registry/internal/domain"
	"github.com/DRSN-tech/supply-registry/pkg/e"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const maxRequestBodySize = 1 << 20

type ErrorResponse struct {
	Code    int           `json:"code"`
	Message string        `json:"message"`
	Error   *domain.Error `json:"error,omitempty" swaggertype:"object"`
}

func NewErrorResponse(code int, message string, domainErr *domain.Error) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
		Error:   domainErr,
	}
}

// ToHTTPResponse сопоставляет ошибку со статусом ответа.
// Ошибка реестра возвращается клиенту целиком, остальные сводятся к безопасному сообщению.
func ToHTTPResponse(err error) (int, string, *domain.Error) {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		switch domainErr.Kind {
		case domain.KindNotFound:
			return http.StatusNotFound, domainErr.Msg, domainErr
		case domain.KindInvalidInput:
			return http.StatusBadRequest, domainErr.Msg, domainErr
		}
	}

	switch {
	case errors.Is(err, e.ErrInvalidProductID):
		return http.StatusBadRequest, e.ErrInvalidProductID.Error(), nil
	case errors.Is(err, e.ErrInvalidBody):
		return http.StatusBadRequest, e.ErrInvalidBody.Error(), nil
	case errors.Is(err, e.ErrIDSpaceExhausted):
		return http.StatusServiceUnavailable, e.ErrIDSpaceExhausted.Error(), nil
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error(), nil
	}
}

func WriteError(w http.ResponseWriter, err error) int {
	code, msg, domainErr := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg, domainErr))

	return code
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// parseProductID читает {id} из пути. Допустим любой uint64, включая 0.
func parseProductID(r *http.Request) (uint64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), e.ErrInvalidProductID)
	}

	return id, nil
}

func decodeProductRequest(w http.ResponseWriter, r *http.Request) (*ProductRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req ProductRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, e.Wrap(err.Error(), e.ErrInvalidBody)
	}

	return &req, nil
}
