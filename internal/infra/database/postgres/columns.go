package postgres

import "strings"

// Статическая регистрация списков колонок по таблицам. Порядок колонок
// фиксирован и обязан совпадать с порядком scan-назначений: никакой
// интроспекции схемы на рантайме, расхождение ловится тестами.

var assetColumns = []string{
	"id",
	"device_asset_id",
	"device_id",
	"owner_id",
	"library_id",
	"stack_id",
	"type",
	"checksum",
	"original_path",
	"original_file_name",
	"encoded_video_path",
	"sidecar_path",
	"live_photo_video_id",
	"duration",
	"is_favorite",
	"is_archived",
	"is_external",
	"is_offline",
	"is_visible",
	"file_created_at",
	"file_modified_at",
	"local_date_time",
	"created_at",
	"updated_at",
	"deleted_at",
}

var exifColumns = []string{
	"asset_id",
	"make",
	"model",
	"lens_model",
	"city",
	"state",
	"country",
	"description",
	"orientation",
	"time_zone",
	"exposure_time",
	"profile_description",
	"date_time_original",
	"modify_date",
	"latitude",
	"longitude",
	"f_number",
	"focal_length",
	"fps",
	"iso",
	"rating",
	"exif_image_width",
	"exif_image_height",
	"file_size_in_byte",
}

var assetFileColumns = []string{
	"id",
	"asset_id",
	"type",
	"path",
	"created_at",
	"updated_at",
	"deleted_at",
}

// Колонки, которые участвуют во вставке asset_files (id и таймстемпы
// генерирует база)
var assetFileInsertColumns = []string{"asset_id", "type", "path"}

// qualify добавляет алиас таблицы к каждому имени колонки
func qualify(alias string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = alias + "." + c
	}
	return out
}

// upsertSuffix собирает "ON CONFLICT (...) DO UPDATE SET ..." по
// зарегистрированному списку колонок. Конфликтные колонки, id и
// created_at не перезаписываются; extra — дополнительные присваивания.
func upsertSuffix(conflict, cols []string, extra ...string) string {
	skip := map[string]bool{"id": true, "created_at": true}
	for _, c := range conflict {
		skip[c] = true
	}

	sets := make([]string, 0, len(cols)+len(extra))
	for _, c := range cols {
		if skip[c] {
			continue
		}
		sets = append(sets, c+" = EXCLUDED."+c)
	}
	sets = append(sets, extra...)

	return "ON CONFLICT (" + strings.Join(conflict, ", ") + ") DO UPDATE SET " + strings.Join(sets, ", ")
}
