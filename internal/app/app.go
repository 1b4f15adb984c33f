package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/supply-registry/internal/cfg"
	"github.com/DRSN-tech/supply-registry/internal/clock"
	v1Grpc "github.com/DRSN-tech/supply-registry/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/supply-registry/internal/delivery/v1/http"
	"github.com/DRSN-tech/supply-registry/internal/infrastructure/kafka"
	"github.com/DRSN-tech/supply-registry/internal/infrastructure/noop"
	"github.com/DRSN-tech/supply-registry/internal/infrastructure/snapshot"
	"github.com/DRSN-tech/supply-registry/internal/registry"
	"github.com/DRSN-tech/supply-registry/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/supply-registry/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/supply-registry/internal/repository/redis"
	redisConv "github.com/DRSN-tech/supply-registry/internal/repository/redis/converter"
	"github.com/DRSN-tech/supply-registry/internal/usecase"
	"github.com/DRSN-tech/supply-registry/pkg/clients"
	"github.com/DRSN-tech/supply-registry/pkg/closer"
	"github.com/DRSN-tech/supply-registry/pkg/e"
	"github.com/DRSN-tech/supply-registry/pkg/logger"
	"github.com/DRSN-tech/supply-registry/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	connectTimeout     = 10 * time.Second
	ensureTopicTimeout = 10 * time.Second
)

// App собирает реестр, его побочные хранилища и транспорт.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	httpSrv *v1Http.Server
	grpcSrv *v1Grpc.GRPCServer
	worker  *snapshot.Worker // nil, если PostgreSQL выключен
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: log,
		closer: closer.NewCloser(0),
	}

	if err := a.init(); err != nil {
		// освобождаем то, что успели открыть
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		if closeErr := a.closer.Close(ctx); closeErr != nil {
			log.Warnf("cleanup after failed init: %v", closeErr)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return a, nil
}

func (a *App) init() error {
	clk := clock.SystemClock{}
	reg := registry.New(clk)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	cacheRepo, err := a.initCache(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	producer, err := a.initProducer()
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := a.initSnapshots(ctx, reg); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	productUC := usecase.NewProductUC(reg, cacheRepo, producer, clk, a.logger)

	a.grpcSrv = v1Grpc.NewGRPCServer(a.cfg.Grpc, a.logger)
	a.grpcSrv.RegisterServices(productUC)
	a.closer.Add("grpc server", a.grpcSrv.Stop)

	r := chi.NewRouter()
	v1Http.NewRouter(r, a.logger).Init(productUC)
	a.httpSrv = v1Http.NewServer(r, a.cfg.Http)
	a.closer.Add("http server", a.httpSrv.Stop)

	return nil
}

func (a *App) initCache(ctx context.Context) (usecase.CacheRepository, error) {
	if !a.cfg.Redis.Enabled {
		a.logger.Infof("redis disabled, read model is not published")
		return noop.CacheRepo{}, nil
	}

	redisClient := clients.NewRedisClient(a.cfg.Redis)
	a.closer.Add("redis", redisClient.Close)

	if err := redisClient.Ping(ctx); err != nil {
		a.logger.Errorf(err, "failed to connect to redis")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return redis.NewCacheRepo(redisClient, redisConv.NewProductConverterImpl(), a.cfg.Redis, a.logger), nil
}

func (a *App) initProducer() (usecase.EventProducer, error) {
	if !a.cfg.Kafka.Enabled {
		a.logger.Infof("kafka disabled, change events are not published")
		return noop.Producer{}, nil
	}

	producer, err := kafka.NewProducer(a.logger, a.cfg.Kafka)
	if err != nil {
		a.logger.Errorf(err, "failed to initialize kafka producer")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add("kafka producer", func(context.Context) error { return producer.Close() })

	if err := producer.EnsureTopic(ensureTopicTimeout); err != nil {
		a.logger.Warnf("failed to ensure kafka topic %s: %v", a.cfg.Kafka.Topic, err)
	}

	return producer, nil
}

// initSnapshots подключает PostgreSQL, восстанавливает реестр и готовит фоновое сохранение.
func (a *App) initSnapshots(ctx context.Context, reg *registry.Registry) error {
	if !a.cfg.Db.Enabled {
		a.logger.Infof("postgres disabled, registry is kept in memory only")
		return nil
	}

	db, err := postgres.Connect(ctx, a.cfg.Db)
	if err != nil {
		a.logger.Errorf(err, "failed to connect to database")
		return e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add("postgres", db.Close)

	if err := db.RunMigrations(a.logger); err != nil {
		a.logger.Errorf(err, "failed to run migrations")
		return e.Wrap(whereami.WhereAmI(), err)
	}

	repo := pgdb.NewProductRepo(db.Pool, pgdbConv.NewProductConverterImpl())
	snapshotUC := usecase.NewSnapshotUC(reg, repo, db.Pool, a.logger)

	if err := snapshotUC.Restore(ctx); err != nil {
		a.logger.Errorf(err, "failed to restore registry")
		return e.Wrap(whereami.WhereAmI(), err)
	}

	a.worker = snapshot.NewWorker(snapshotUC, a.cfg.Snapshot, a.logger)
	a.closer.Add("snapshot worker", a.worker.Stop)

	return nil
}

// Run запускает серверы и блокируется до сигнала остановки или фатальной ошибки сервера.
func (a *App) Run() error {
	if a.worker != nil {
		a.worker.Start()
	}

	grpcErrCh := make(chan error, 1)
	go func() {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			grpcErrCh <- err
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case appErr = <-grpcErrCh:
		a.logger.Errorf(appErr, "gRPC server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	// Порядок обратный регистрации: серверы, сохранение среза, продюсер, redis, пул БД.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.Shutdown.Timeout)
	defer shutdownCancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
		if appErr == nil {
			appErr = err
		}
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}
