package domain

// Snapshot согласованный срез состояния реестра для сохранения и восстановления.
type Snapshot struct {
	LastID   uint64 // Последний выданный идентификатор, включая удалённые товары
	Version  uint64 // Номер мутации, на которой снят срез. Не сохраняется
	Products []Product
}
