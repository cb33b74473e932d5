package domain

import (
	"context"
)

// Репозиторий поиска активов. Построение запроса — чистое и без I/O;
// исполнение — один блокирующий запрос через внешний пул (отмена и
// таймауты — ответственность переданного ctx, слой своих не добавляет).
type SearchRepo interface {
	Close()
	Ping(context.Context) error

	// Единый составной запрос по assets со всеми запрошенными
	// отношениями и фильтрами (AND). Пустой результат — не ошибка.
	SearchAssets(ctx context.Context, opts SearchOptions) ([]AssetRow, error)
}

// Репозиторий активов и их файлов
type AssetsRepo interface {
	AssetByID(ctx context.Context, id AssetID) (Asset, error)

	// Upsert по статически зарегистрированным спискам колонок таблиц
	UpsertExif(ctx context.Context, e Exif) error
	UpsertAssetFile(ctx context.Context, f AssetFile) (AssetFile, error)

	AssetFilesByAsset(ctx context.Context, id AssetID) ([]AssetFile, error)
}
