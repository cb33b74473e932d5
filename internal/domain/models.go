package domain

import (
	"time"

	"github.com/google/uuid"
)

// Базовые идентификаторы
type UserID = uuid.UUID
type AssetID = uuid.UUID
type PersonID = uuid.UUID
type AlbumID = uuid.UUID
type LibraryID = uuid.UUID
type StackID = uuid.UUID

// Тип медиа-актива
type AssetType string

const (
	AssetTypeImage AssetType = "IMAGE"
	AssetTypeVideo AssetType = "VIDEO"
	AssetTypeAudio AssetType = "AUDIO"
	AssetTypeOther AssetType = "OTHER"
)

// Тип файла актива — не больше одного файла каждого типа на актив
type AssetFileType string

const (
	AssetFilePreview   AssetFileType = "preview"
	AssetFileThumbnail AssetFileType = "thumbnail"
)

// Владелец активов
type User struct {
	ID        UserID     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// Внешняя библиотека, из которой импортирован актив (опциональна)
type Library struct {
	ID        LibraryID  `json:"id"`
	OwnerID   UserID     `json:"ownerId"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// Медиа-актив (фото/видео). Мягкое удаление — через deleted_at.
type Asset struct {
	ID               AssetID    `json:"id"`
	DeviceAssetID    string     `json:"deviceAssetId"`
	DeviceID         string     `json:"deviceId"`
	OwnerID          UserID     `json:"ownerId"`
	LibraryID        *LibraryID `json:"libraryId,omitempty"`
	StackID          *StackID   `json:"stackId,omitempty"`
	Type             AssetType  `json:"type"`
	Checksum         []byte     `json:"-"` // контент-хэш, для дедупликации
	OriginalPath     string     `json:"originalPath"`
	OriginalFileName string     `json:"originalFileName"`
	EncodedVideoPath string     `json:"encodedVideoPath"`
	SidecarPath      string     `json:"sidecarPath"`
	LivePhotoVideoID *AssetID   `json:"livePhotoVideoId,omitempty"`
	Duration         string     `json:"duration"`
	IsFavorite       bool       `json:"isFavorite"`
	IsArchived       bool       `json:"isArchived"`
	IsExternal       bool       `json:"isExternal"`
	IsOffline        bool       `json:"isOffline"`
	IsVisible        bool       `json:"isVisible"`
	FileCreatedAt    time.Time  `json:"fileCreatedAt"`
	FileModifiedAt   time.Time  `json:"fileModifiedAt"`
	LocalDateTime    time.Time  `json:"localDateTime"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	DeletedAt        *time.Time `json:"deletedAt,omitempty"`
}

// Файл актива (превью/миниатюра). Заменяет легаси-колонки путей в assets:
// уникален по (assetId, type), удаляется мягко независимо от актива,
// жёстко — каскадом вместе с активом.
type AssetFile struct {
	ID        uuid.UUID     `json:"id"`
	AssetID   AssetID       `json:"assetId"`
	Type      AssetFileType `json:"type"`
	Path      string        `json:"path"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	DeletedAt *time.Time    `json:"deletedAt,omitempty"`
}

// EXIF-метаданные, один-к-одному с активом
type Exif struct {
	AssetID          AssetID    `json:"assetId"`
	Make             string     `json:"make"`
	Model            string     `json:"model"`
	LensModel        string     `json:"lensModel"`
	City             string     `json:"city"`
	State            string     `json:"state"`
	Country          string     `json:"country"`
	Description      string     `json:"description"`
	Orientation      string     `json:"orientation"`
	TimeZone         string     `json:"timeZone"`
	ExposureTime     string     `json:"exposureTime"`
	ProfileDesc      string     `json:"profileDescription"`
	DateTimeOriginal *time.Time `json:"dateTimeOriginal,omitempty"`
	ModifyDate       *time.Time `json:"modifyDate,omitempty"`
	Latitude         *float64   `json:"latitude,omitempty"`
	Longitude        *float64   `json:"longitude,omitempty"`
	FNumber          *float64   `json:"fNumber,omitempty"`
	FocalLength      *float64   `json:"focalLength,omitempty"`
	FPS              *float64   `json:"fps,omitempty"`
	ISO              *int32     `json:"iso,omitempty"`
	Rating           *int32     `json:"rating,omitempty"`
	ExifImageWidth   *int32     `json:"exifImageWidth,omitempty"`
	ExifImageHeight  *int32     `json:"exifImageHeight,omitempty"`
	FileSizeInByte   *int64     `json:"fileSizeInByte,omitempty"`
}

// Человек, к которому могут быть привязаны распознанные лица
type Person struct {
	ID            PersonID   `json:"id"`
	OwnerID       UserID     `json:"ownerId"`
	Name          string     `json:"name"`
	ThumbnailPath string     `json:"thumbnailPath"`
	IsHidden      bool       `json:"isHidden"`
	BirthDate     *time.Time `json:"birthDate,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Распознанное лицо на активе; привязка к человеку опциональна
type AssetFace struct {
	ID          uuid.UUID  `json:"id"`
	AssetID     AssetID    `json:"assetId"`
	PersonID    *PersonID  `json:"personId,omitempty"`
	ImageWidth  int32      `json:"imageWidth"`
	ImageHeight int32      `json:"imageHeight"`
	X1          int32      `json:"boundingBoxX1"`
	Y1          int32      `json:"boundingBoxY1"`
	X2          int32      `json:"boundingBoxX2"`
	Y2          int32      `json:"boundingBoxY2"`
	SourceType  string     `json:"sourceType"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
}

// Альбом (many-to-many с активами через albums_assets)
type Album struct {
	ID          AlbumID    `json:"id"`
	OwnerID     UserID     `json:"ownerId"`
	AlbumName   string     `json:"albumName"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
}

// Стек: первичный актив плюс сгруппированные вторичные ("stacked")
type Stack struct {
	ID             StackID `json:"id"`
	OwnerID        UserID  `json:"ownerId"`
	PrimaryAssetID AssetID `json:"primaryAssetId"`
}
