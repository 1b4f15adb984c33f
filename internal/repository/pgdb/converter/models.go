package converter

// ProductModel представляет запись таблицы products в PostgreSQL.
// uint64-значения хранятся в BIGINT с сохранением битового представления.
type ProductModel struct {
	ID              int64   `db:"id"`
	Status          string  `db:"status"`
	Name            string  `db:"name"`
	Origin          string  `db:"origin"`
	CurrentLocation string  `db:"current_location"`
	Certification   *string `db:"certification"`
	IoTData         *string `db:"iot_data"`
	CreatedAtNs     int64   `db:"created_at_ns"`
	LastUpdateNs    *int64  `db:"last_update_ns"`
}

// RegistryStateModel представляет единственную запись таблицы registry_state.
type RegistryStateModel struct {
	LastID int64 `db:"last_id"`
}
