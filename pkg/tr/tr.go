// Package tr передаёт открытую транзакцию PostgreSQL от use case к репозиториям через контекст.
package tr

import (
	"context"

	"github.com/DRSN-tech/supply-registry/pkg/e"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jimlawless/whereami"
)

type txKey struct{}

// Begin открывает транзакцию и возвращает контекст, из которого её достаёт TxFromCtx.
// Commit и Rollback остаются за вызывающим.
func Begin(ctx context.Context, db transaction.Transactional, opts pgx.TxOptions) (context.Context, *transaction.Transaction, error) {
	ctx, tx, err := transaction.NewTransaction(ctx, opts, db)
	if err != nil {
		return ctx, nil, e.Wrap(whereami.WhereAmI(), err)
	}

	pgxTx, ok := tx.Transaction().(pgx.Tx)
	if !ok {
		_ = tx.Rollback(ctx)
		return ctx, nil, e.Wrap(whereami.WhereAmI(), e.ErrTransactionNotFound)
	}

	return WithTx(ctx, pgxTx), tx, nil
}

func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromCtx возвращает транзакцию из контекста или ErrTransactionNotFound.
func TxFromCtx(ctx context.Context) (pgx.Tx, error) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	if !ok || tx == nil {
		return nil, e.ErrTransactionNotFound
	}
	return tx, nil
}
