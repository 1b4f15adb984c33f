package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/supply-registry/internal/domain"
	"github.com/DRSN-tech/supply-registry/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/supply-registry/pkg/e"
	"github.com/DRSN-tech/supply-registry/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// ProductRepo хранит срезы реестра товаров в PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// Load читает последний сохранённый срез. Пустая база даёт пустой срез.
func (p *ProductRepo) Load(ctx context.Context) (*domain.Snapshot, error) {
	var state converter.RegistryStateModel
	err := p.pool.QueryRow(ctx, `SELECT last_id FROM registry_state WHERE id = 1`).Scan(&state.LastID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		SELECT id, status, name, origin, current_location,
		       certification, iot_data, created_at_ns, last_update_ns
		FROM products
		ORDER BY id
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	models := make([]converter.ProductModel, 0)
	for rows.Next() {
		var model converter.ProductModel
		if err := rows.Scan(
			&model.ID, &model.Status, &model.Name, &model.Origin, &model.CurrentLocation,
			&model.Certification, &model.IoTData, &model.CreatedAtNs, &model.LastUpdateNs,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		models = append(models, model)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &domain.Snapshot{
		LastID:   uint64(state.LastID),
		Products: p.conv.ToArrEntity(models),
	}, nil
}

// Save записывает срез в рамках транзакции из контекста:
// счётчик идентификаторов, удаление отсутствующих товаров и upsert остальных.
// Строка товара переписывается только если она действительно изменилась.
func (p *ProductRepo) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	stateQuery := `
		INSERT INTO registry_state (id, last_id)
		VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET last_id = EXCLUDED.last_id
	`
	if _, err := tx.Exec(ctx, stateQuery, int64(snapshot.LastID)); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	ids := make([]int64, 0, len(snapshot.Products))
	for i := range snapshot.Products {
		ids = append(ids, int64(snapshot.Products[i].ID))
	}

	if _, err := tx.Exec(ctx, `DELETE FROM products WHERE NOT (id = ANY($1))`, ids); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if len(snapshot.Products) == 0 {
		return nil
	}

	upsertQuery := `
		INSERT INTO products (
			id, status, name, origin, current_location,
			certification, iot_data, created_at_ns, last_update_ns
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id)
		DO UPDATE SET
			status = EXCLUDED.status,
			name = EXCLUDED.name,
			origin = EXCLUDED.origin,
			current_location = EXCLUDED.current_location,
			certification = EXCLUDED.certification,
			iot_data = EXCLUDED.iot_data,
			last_update_ns = EXCLUDED.last_update_ns
		WHERE (
			products.status, products.name, products.origin, products.current_location,
			products.certification, products.iot_data, products.last_update_ns
		) IS DISTINCT FROM (
			EXCLUDED.status, EXCLUDED.name, EXCLUDED.origin, EXCLUDED.current_location,
			EXCLUDED.certification, EXCLUDED.iot_data, EXCLUDED.last_update_ns
		)
	`

	batch := &pgx.Batch{}
	for i := range snapshot.Products {
		model := p.conv.ToModel(&snapshot.Products[i])
		batch.Queue(upsertQuery,
			model.ID, model.Status, model.Name, model.Origin, model.CurrentLocation,
			model.Certification, model.IoTData, model.CreatedAtNs, model.LastUpdateNs,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range snapshot.Products {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return e.Wrap(whereami.WhereAmI(), err)
		}
	}

	if err := results.Close(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
