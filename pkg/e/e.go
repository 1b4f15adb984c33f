package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Внутренние ошибки реестра
	ErrIDSpaceExhausted  = fmt.Errorf("product id space exhausted")
	ErrCorruptedSnapshot = fmt.Errorf("corrupted registry snapshot")

	// Ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// 400 Bad Request
	ErrInvalidProductID = fmt.Errorf("invalid product id")
	ErrInvalidBody      = fmt.Errorf("invalid request body")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
