package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/DRSN-tech/supply-registry/internal/cfg"
	"github.com/DRSN-tech/supply-registry/internal/domain"
	"github.com/DRSN-tech/supply-registry/internal/repository/redis/converter"
	"github.com/DRSN-tech/supply-registry/pkg/clients"
	"github.com/DRSN-tech/supply-registry/pkg/e"
	"github.com/DRSN-tech/supply-registry/pkg/logger"
	"github.com/jimlawless/whereami"
)

// CacheRepo публикует последнее состояние товаров в Redis под ключами product:<id>.
type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.ProductConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.ProductConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// SetProduct записывает товар с TTL из конфигурации.
func (r *CacheRepo) SetProduct(ctx context.Context, product *domain.Product) error {
	data, err := marshalProductForCache(r.conv.ToRedisModel(product))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := r.client.Client.Set(ctx, productKey(product.ID), data, r.cfg.ProductTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// DeleteProduct удаляет товар из кэша по ID
func (r *CacheRepo) DeleteProduct(ctx context.Context, id uint64) error {
	if err := r.client.Client.Del(ctx, productKey(id)).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// marshalProductForCache сериализует товар в JSON для кэша
func marshalProductForCache(model *converter.ProductRedisModel) ([]byte, error) {
	return json.Marshal(model)
}

// productKey возвращает Redis-ключ для одного товара
func productKey(id uint64) string {
	return fmt.Sprintf("product:%d", id)
}
