package postgres

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/lpil/immich/internal/domain"
)

// assetDest — scan-назначения в порядке assetColumns
func assetDest(a *domain.Asset) []any {
	return []any{
		&a.ID, &a.DeviceAssetID, &a.DeviceID, &a.OwnerID, &a.LibraryID,
		&a.StackID, &a.Type, &a.Checksum, &a.OriginalPath,
		&a.OriginalFileName, &a.EncodedVideoPath, &a.SidecarPath,
		&a.LivePhotoVideoID, &a.Duration, &a.IsFavorite, &a.IsArchived,
		&a.IsExternal, &a.IsOffline, &a.IsVisible, &a.FileCreatedAt,
		&a.FileModifiedAt, &a.LocalDateTime, &a.CreatedAt, &a.UpdatedAt,
		&a.DeletedAt,
	}
}

func assetFileDest(f *domain.AssetFile) []any {
	return []any{
		&f.ID, &f.AssetID, &f.Type, &f.Path,
		&f.CreatedAt, &f.UpdatedAt, &f.DeletedAt,
	}
}

func (r *PGRepo) AssetByID(ctx context.Context, id domain.AssetID) (domain.Asset, error) {
	q := r.qb().Select(qualify("a", assetColumns)...).
		From(r.t("assets") + " a").
		Where(asUUID("a.id", id))

	sqlStr, args, _ := q.ToSql()
	r.logSQL("AssetByID", sqlStr, args)

	start := time.Now()
	row := r.pool.QueryRow(ctx, sqlStr, args...)
	var a domain.Asset
	if err := row.Scan(assetDest(&a)...); err != nil {
		r.logger.Printf("AssetByID scan error after %s: %v", time.Since(start), err)
		return domain.Asset{}, err
	}
	r.logger.Printf("AssetByID ok in %s id=%s", time.Since(start), a.ID)
	return a, nil
}

// UpsertExif — вставка/обновление EXIF по зарегистрированному списку
// колонок exifColumns (конфликт по asset_id; один-к-одному с активом).
func (r *PGRepo) UpsertExif(ctx context.Context, e domain.Exif) error {
	q := r.qb().Insert(r.t("exif")).
		Columns(exifColumns...).
		Values(
			e.AssetID, e.Make, e.Model, e.LensModel, e.City, e.State,
			e.Country, e.Description, e.Orientation, e.TimeZone,
			e.ExposureTime, e.ProfileDesc, e.DateTimeOriginal,
			e.ModifyDate, e.Latitude, e.Longitude, e.FNumber,
			e.FocalLength, e.FPS, e.ISO, e.Rating, e.ExifImageWidth,
			e.ExifImageHeight, e.FileSizeInByte,
		).
		Suffix(upsertSuffix([]string{"asset_id"}, exifColumns))

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UpsertExif", sqlStr, args)

	start := time.Now()
	if _, err := r.pool.Exec(ctx, sqlStr, args...); err != nil {
		r.logger.Printf("UpsertExif exec error after %s: %v", time.Since(start), err)
		return err
	}
	r.logger.Printf("UpsertExif ok in %s asset_id=%s", time.Since(start), e.AssetID)
	return nil
}

// UpsertAssetFile — вставка/обновление файла актива: не больше одного
// файла каждого типа на актив (конфликт по (asset_id, type)); повторная
// запись снимает мягкое удаление.
func (r *PGRepo) UpsertAssetFile(ctx context.Context, f domain.AssetFile) (domain.AssetFile, error) {
	suffix := upsertSuffix([]string{"asset_id", "type"}, assetFileInsertColumns,
		"updated_at = now()", "deleted_at = NULL")

	q := r.qb().Insert(r.t("asset_files")).
		Columns(assetFileInsertColumns...).
		Values(f.AssetID, string(f.Type), f.Path).
		Suffix(suffix + " RETURNING id, asset_id, type, path, created_at, updated_at, deleted_at")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UpsertAssetFile", sqlStr, args)

	start := time.Now()
	row := r.pool.QueryRow(ctx, sqlStr, args...)
	var out domain.AssetFile
	if err := row.Scan(assetFileDest(&out)...); err != nil {
		r.logger.Printf("UpsertAssetFile scan error after %s: %v", time.Since(start), err)
		return domain.AssetFile{}, err
	}
	r.logger.Printf("UpsertAssetFile ok in %s asset_id=%s type=%s", time.Since(start), out.AssetID, out.Type)
	return out, nil
}

func (r *PGRepo) AssetFilesByAsset(ctx context.Context, id domain.AssetID) ([]domain.AssetFile, error) {
	q := r.qb().Select(assetFileColumns...).
		From(r.t("asset_files")).
		Where(sq.And{asUUID("asset_id", id), sq.Expr("deleted_at IS NULL")}).
		OrderBy("type ASC")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("AssetFilesByAsset", sqlStr, args)

	start := time.Now()
	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("AssetFilesByAsset query error after %s: %v", time.Since(start), err)
		return nil, err
	}
	defer rows.Close()

	var res []domain.AssetFile
	for rows.Next() {
		var f domain.AssetFile
		if err := rows.Scan(assetFileDest(&f)...); err != nil {
			r.logger.Printf("AssetFilesByAsset scan error: %v", err)
			return nil, err
		}
		res = append(res, f)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("AssetFilesByAsset rows error: %v", err)
		return nil, err
	}
	r.logger.Printf("AssetFilesByAsset ok in %s count=%d", time.Since(start), len(res))
	return res, nil
}
