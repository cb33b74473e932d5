package domain

// Белые списки значений, приходящих снаружи. Идентификаторы не
// валидируются здесь намеренно: кривой uuid падает на приведении типа
// в хранилище, слой построения запросов ничего молча не приводит.

func ValidAssetType(t AssetType) bool {
	switch t {
	case AssetTypeImage, AssetTypeVideo, AssetTypeAudio, AssetTypeOther:
		return true
	}
	return false
}

func ValidAssetFileType(t AssetFileType) bool {
	switch t {
	case AssetFilePreview, AssetFileThumbnail:
		return true
	}
	return false
}

func ValidSearchOrder(o SearchOrder) bool {
	return o == SearchOrderAsc || o == SearchOrderDesc
}
