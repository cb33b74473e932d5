package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Порядок сортировки результата поиска
type SearchOrder string

const (
	SearchOrderAsc  SearchOrder = "asc"
	SearchOrderDesc SearchOrder = "desc"
)

// SearchOptions — мешок независимых опциональных фильтров поиска активов.
// Отсутствие фильтра означает "без ограничения", не "совпадает с NULL".
//
// Булевы фильтры — тройственные (*bool): nil — фильтр не задан,
// явный false — полноценный фильтр "= false". В исходной системе falsy
// значения молча пропускались; здесь это исправлено (см. DESIGN.md).
type SearchOptions struct {
	ID        AssetID   `json:"id,omitempty"`
	OwnerID   UserID    `json:"ownerId,omitempty"`
	LibraryID LibraryID `json:"libraryId,omitempty"`
	AlbumID   AlbumID   `json:"albumId,omitempty"`

	DeviceAssetID string    `json:"deviceAssetId,omitempty"`
	DeviceID      string    `json:"deviceId,omitempty"`
	Type          AssetType `json:"type,omitempty"`
	Checksum      []byte    `json:"checksum,omitempty"`

	CreatedAfter  *time.Time `json:"createdAfter,omitempty"`
	CreatedBefore *time.Time `json:"createdBefore,omitempty"`
	UpdatedAfter  *time.Time `json:"updatedAfter,omitempty"`
	UpdatedBefore *time.Time `json:"updatedBefore,omitempty"`
	TrashedAfter  *time.Time `json:"trashedAfter,omitempty"`
	TrashedBefore *time.Time `json:"trashedBefore,omitempty"`
	TakenAfter    *time.Time `json:"takenAfter,omitempty"`
	TakenBefore   *time.Time `json:"takenBefore,omitempty"`

	// EXIF-фильтры
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Country   string `json:"country,omitempty"`
	Make      string `json:"make,omitempty"`
	Model     string `json:"model,omitempty"`
	LensModel string `json:"lensModel,omitempty"`

	// Пути
	OriginalPath     string `json:"originalPath,omitempty"`
	OriginalFileName string `json:"originalFileName,omitempty"`
	EncodedVideoPath string `json:"encodedVideoPath,omitempty"`
	PreviewPath      string `json:"previewPath,omitempty"`
	ThumbnailPath    string `json:"thumbnailPath,omitempty"`

	// Флаги состояния (тройственные)
	IsFavorite   *bool `json:"isFavorite,omitempty"`
	IsOffline    *bool `json:"isOffline,omitempty"`
	IsVisible    *bool `json:"isVisible,omitempty"`
	IsArchived   *bool `json:"isArchived,omitempty"`
	IsEncoded    *bool `json:"isEncoded,omitempty"`
	IsMotion     *bool `json:"isMotion,omitempty"`
	IsNotInAlbum *bool `json:"isNotInAlbum,omitempty"`

	// Только активы, на которых отмечены ВСЕ перечисленные люди
	PersonIDs []PersonID `json:"personIds,omitempty"`

	// Поиск ближайших соседей по вектору (smart search)
	Embedding         []float32 `json:"embedding,omitempty"`
	EmbeddingRequired bool      `json:"embeddingRequired,omitempty"` // inner join вместо left

	// Подключение отношений / расширение области поиска
	WithArchived      bool `json:"withArchived,omitempty"`
	WithDeleted       bool `json:"withDeleted,omitempty"`
	WithExif          bool `json:"withExif,omitempty"`
	WithFaces         bool `json:"withFaces,omitempty"`
	WithPeople        bool `json:"withPeople,omitempty"`
	WithOwner         bool `json:"withOwner,omitempty"`
	WithLibrary       bool `json:"withLibrary,omitempty"`
	WithAlbums        bool `json:"withAlbums,omitempty"`
	WithEmbedding     bool `json:"withEmbedding,omitempty"`
	WithStacked       bool `json:"withStacked,omitempty"`
	WithStackedAssets bool `json:"withStackedAssets,omitempty"`

	Order  SearchOrder `json:"order,omitempty"`
	Limit  int         `json:"limit,omitempty"`
	Offset int         `json:"offset,omitempty"`
}

// Bool — шорткат для тройственных полей: domain.Bool(false) — явный фильтр.
func Bool(v bool) *bool { return &v }

// HasTrashedRange — задан ли хотя бы один край диапазона удаления;
// его наличие само по себе означает намерение искать в корзине.
func (o SearchOptions) HasTrashedRange() bool {
	return o.TrashedAfter != nil || o.TrashedBefore != nil
}

// AssetRow — строка результата поиска: все нативные колонки актива плюс
// запрошенные вложенные JSON-отношения (не запрошенные остаются nil).
type AssetRow struct {
	Asset

	ExifInfo      json.RawMessage `json:"exifInfo,omitempty"`
	Faces         json.RawMessage `json:"faces,omitempty"`
	Owner         json.RawMessage `json:"owner,omitempty"`
	Library       json.RawMessage `json:"library,omitempty"`
	Stack         json.RawMessage `json:"stack,omitempty"`
	StackedAssets json.RawMessage `json:"stackedAssets,omitempty"`
	Albums        json.RawMessage `json:"albums,omitempty"`
	Embedding     *string         `json:"embedding,omitempty"`
}

// Пустой uuid означает "фильтр не задан"
func HasID(id uuid.UUID) bool { return id != uuid.Nil }
