package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Ключи кеша — единое место, чтобы не расползались по коду.
func CacheKeySearchVersion(owner UserID) string {
	return "searchver:" + owner.String()
}

// Ключ страницы поиска: владелец + версия + хэш опций. Инкремент версии
// инвалидирует все страницы владельца разом, без сканирования ключей.
func CacheKeySearchPage(owner UserID, version int64, opts SearchOptions) string {
	raw, _ := json.Marshal(opts)
	sum := sha256.Sum256(raw)
	return fmt.Sprintf("search:%s:%d:%s", owner, version, hex.EncodeToString(sum[:8]))
}

// Простой k/v интерфейс. Реализация — Redis.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttlSeconds int) error
	Del(ctx context.Context, keys ...string) error
	// Для инкрементируемых версий результатов поиска (выборочная инвалидация)
	Incr(ctx context.Context, key string) (int64, error)
	Ping(context.Context) error
	Close()
}
