package app

import (
	"context"
	"testing"
	"time"

	config "github.com/DRSN-tech/supply-registry/internal/cfg"
	"github.com/DRSN-tech/supply-registry/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inMemoryConfig() *config.Config {
	return &config.Config{
		Http:     &config.HTTPConfig{Port: "0", ReadTimeout: time.Second, WriteTimeout: time.Second, IdleTimeout: time.Second},
		Grpc:     &config.GRPCConfig{Port: "0", NetworkMode: "tcp"},
		Db:       &config.PGDBCfg{},
		Redis:    &config.RedisCfg{},
		Kafka:    &config.KafkaCfg{},
		Snapshot: &config.SnapshotCfg{Interval: time.Second, MaxRetries: 1},
		Shutdown: &config.ShutdownCfg{Timeout: time.Second},
	}
}

func TestNewApp_InMemory(t *testing.T) {
	a, err := NewApp(inMemoryConfig(), logger.NewNop())
	require.NoError(t, err)

	assert.Nil(t, a.worker)
	assert.NotNil(t, a.httpSrv)
	assert.NotNil(t, a.grpcSrv)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, a.closer.Close(ctx))
}

func TestNewApp_UnreachableRedis(t *testing.T) {
	cfg := inMemoryConfig()
	cfg.Redis = &config.RedisCfg{
		Enabled:     true,
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		Timeout:     100 * time.Millisecond,
	}

	_, err := NewApp(cfg, logger.NewNop())
	assert.Error(t, err)
}
