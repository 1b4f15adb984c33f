package usecase

import (
	"context"
	"sync"

	"github.com/DRSN-tech/supply-registry/pkg/e"
	"github.com/DRSN-tech/supply-registry/pkg/logger"
	"github.com/DRSN-tech/supply-registry/pkg/tr"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

// SnapshotUseCase переносит состояние реестра в постоянное хранилище и обратно.
type SnapshotUseCase struct {
	registry     SnapshotSource
	repo         SnapshotRepository
	dbPool       transaction.Transactional
	logger       logger.Logger
	mu           sync.Mutex
	savedVersion uint64
}

func NewSnapshotUC(
	registry SnapshotSource,
	repo SnapshotRepository,
	dbPool transaction.Transactional,
	logger logger.Logger,
) *SnapshotUseCase {
	return &SnapshotUseCase{
		registry: registry,
		repo:     repo,
		dbPool:   dbPool,
		logger:   logger,
	}
}

// Restore загружает сохранённый срез в реестр. Вызывается один раз при старте.
func (s *SnapshotUseCase) Restore(ctx context.Context) error {
	const op = "SnapshotUseCase.Restore"

	snapshot, err := s.repo.Load(ctx)
	if err != nil {
		return e.Wrap(op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.registry.Restore(*snapshot); err != nil {
		return e.Wrap(op, err)
	}
	s.savedVersion = 0

	s.logger.Infof("registry restored: products: %d, last_id: %d", len(snapshot.Products), snapshot.LastID)
	return nil
}

// Flush сохраняет срез реестра, если с прошлого сохранения были изменения.
// Возвращает true, если запись в хранилище произошла.
func (s *SnapshotUseCase) Flush(ctx context.Context) (saved bool, err error) {
	const op = "SnapshotUseCase.Flush"

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.registry.Snapshot()
	if snapshot.Version == s.savedVersion {
		return false, nil
	}

	ctx, tx, err := tr.Begin(ctx, s.dbPool, pgx.TxOptions{})
	if err != nil {
		return false, e.Wrap(op, err)
	}
	// Если произошла ошибка, транзакция откатывается, а срез останется «грязным» до следующей попытки
	defer func() {
		if err != nil && tx.IsActive() {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Warnf("snapshot rollback failed: %v", e.Wrap(op, rbErr))
			}
		}
	}()

	if err = s.repo.Save(ctx, &snapshot); err != nil {
		return false, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return false, e.Wrap(op, err)
	}

	s.savedVersion = snapshot.Version
	s.logger.Debugf("registry snapshot saved: version: %d, products: %d", snapshot.Version, len(snapshot.Products))

	return true, nil
}
