// Package opt реализует контейнер наличия значения (Some/None).
// В отличие от nil-указателя, Option различает «значение не задано» и «задано пустое значение».
package opt

import (
	"bytes"
	"encoding/json"
)

var jsonNull = []byte("null")

// Option хранит значение типа T либо его отсутствие. Нулевое значение Option равно None.
type Option[T any] struct {
	value T
	ok    bool
}

// Some возвращает Option с заданным значением.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, ok: true}
}

// None возвращает пустой Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// FromPtr конвертирует указатель в Option: nil -> None.
func FromPtr[T any](p *T) Option[T] {
	if p == nil {
		return None[T]()
	}

	return Some(*p)
}

// Get возвращает значение и признак его наличия.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.ok
}

func (o Option[T]) IsSome() bool {
	return o.ok
}

func (o Option[T]) IsNone() bool {
	return !o.ok
}

// OrElse возвращает значение или def, если значения нет.
func (o Option[T]) OrElse(def T) T {
	if !o.ok {
		return def
	}

	return o.value
}

// Ptr возвращает копию значения по указателю либо nil. Удобно для драйверов БД.
func (o Option[T]) Ptr() *T {
	if !o.ok {
		return nil
	}

	v := o.value
	return &v
}

// MarshalJSON кодирует None как null.
func (o Option[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return jsonNull, nil
	}

	return json.Marshal(o.value)
}

// UnmarshalJSON декодирует null как None, любое другое значение как Some.
// Отсутствующий ключ оставляет нулевое значение, то есть тоже None.
func (o *Option[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*o = None[T]()
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	*o = Some(v)
	return nil
}
