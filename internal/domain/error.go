package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorKind вариант ошибки реестра.
type ErrorKind string

const (
	KindNotFound     ErrorKind = "NotFound"
	KindInvalidInput ErrorKind = "InvalidInput"
)

// Шаблоны для errors.Is, совпадают с любой ошибкой своего варианта вне зависимости от сообщения.
var (
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrInvalidInput = &Error{Kind: KindInvalidInput}
)

// Error ошибка, которую реестр возвращает клиенту как есть.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func NewNotFoundError(msg string) *Error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

func NewInvalidInputError(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Msg: msg}
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return string(e.Kind)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Is сравнивает ошибки по варианту.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

type errorBody struct {
	Msg string `json:"msg"`
}

// MarshalJSON кодирует ошибку как вариант: {"NotFound":{"msg":"..."}}.
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[ErrorKind]errorBody{e.Kind: {Msg: e.Msg}})
}

func (e *Error) UnmarshalJSON(data []byte) error {
	var variant map[ErrorKind]errorBody
	if err := json.Unmarshal(data, &variant); err != nil {
		return err
	}

	if len(variant) != 1 {
		return fmt.Errorf("error variant: expected exactly one kind, got %d", len(variant))
	}

	for kind, body := range variant {
		e.Kind = kind
		e.Msg = body.Msg
	}

	return nil
}
