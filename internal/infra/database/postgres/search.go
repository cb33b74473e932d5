package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/lpil/immich/internal/domain"
)

// Поиск активов: один составной запрос из мешка опциональных фильтров.
// Билдер — однопроходный фолд без состояния: упорядоченный список пар
// (условие, преобразование) накатывается слева направо на базовый
// запрос. Никаких ретраев и частичных состояний; сессию (пул) билдер
// не создаёт и не владеет ею — отмена приходит через ctx вызывающего.

type queryMod struct {
	when  bool
	apply func(sq.SelectBuilder) sq.SelectBuilder
}

func modWhere(when bool, pred sq.Sqlizer) queryMod {
	return queryMod{when, func(b sq.SelectBuilder) sq.SelectBuilder { return b.Where(pred) }}
}

// modBool — тройственный булев фильтр: nil пропускает клаузу, явные
// true/false дают полноценное сравнение (разыменование ленивое).
func modBool(column string, v *bool) queryMod {
	return queryMod{v != nil, func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Where(sq.Eq{column: *v})
	}}
}

// modFlag — тройственный флаг с произвольными выражениями на оба случая
func modFlag(v *bool, whenTrue, whenFalse string) queryMod {
	return queryMod{v != nil, func(b sq.SelectBuilder) sq.SelectBuilder {
		if *v {
			return b.Where(whenTrue)
		}
		return b.Where(whenFalse)
	}}
}

func modRange[T any](column string, from, to *T) queryMod {
	pred := optionalRange(column, from, to)
	return modWhere(pred != nil, pred)
}

// joinSet накапливает join-ы, требуемые независимыми фильтрами, и
// схлопывает повторы: два EXIF-фильтра дают ровно один join к exif.
// Применяется один раз к целому запросу до наката фильтров.
type joinSet struct {
	seen    map[string]bool
	clauses []joinClause
}

type joinClause struct {
	clause string
	inner  bool
}

func newJoinSet() *joinSet {
	return &joinSet{seen: make(map[string]bool)}
}

func (j *joinSet) add(inner bool, clause string) {
	if j.seen[clause] {
		return
	}
	j.seen[clause] = true
	j.clauses = append(j.clauses, joinClause{clause: clause, inner: inner})
}

func (j *joinSet) apply(b sq.SelectBuilder) sq.SelectBuilder {
	for _, c := range j.clauses {
		if c.inner {
			b = b.Join(c.clause)
		} else {
			b = b.LeftJoin(c.clause)
		}
	}
	return b
}

const (
	searchLimitDefault = 250
	searchLimitMax     = 1000
)

// BuildSearch собирает запрос и план проецируемых колонок отношений
// (в порядке их появления в SELECT — по нему сканируются строки).
func (r *PGRepo) BuildSearch(opts domain.SearchOptions) (sq.SelectBuilder, []string) {
	// Фильтр по людям оборачивает базовую таблицу ДО всего остального:
	// дальнейшие select/where продолжают ссылаться на алиас "a".
	var b sq.SelectBuilder
	if len(opts.PersonIDs) > 0 {
		b = r.qb().Select(qualify("a", assetColumns)...).
			FromSelect(r.withAllPeople(opts.PersonIDs), "a")
	} else {
		b = r.qb().Select(qualify("a", assetColumns)...).
			From(r.t("assets") + " a")
	}

	// Анализ требуемых join-ов — один проход по опциям до фильтров
	joins := newJoinSet()
	if r.needsExifJoin(opts) {
		joins.add(false, r.t("exif")+" e ON e.asset_id = a.id")
	}
	if opts.WithEmbedding || opts.EmbeddingRequired || len(opts.Embedding) > 0 {
		// inner join, когда наличие вектора — само по себе фильтр
		joins.add(opts.EmbeddingRequired, r.t("smart_search")+" ss ON ss.asset_id = a.id")
	}
	if opts.WithStacked || opts.WithStackedAssets {
		joins.add(false, r.t("asset_stacks")+" st ON st.id = a.stack_id")
	}
	b = joins.apply(b)

	// Фильтры: отсутствующее значение — отсутствующая клауза
	mods := []queryMod{
		modWhere(domain.HasID(opts.ID), asUUID("a.id", opts.ID)),
		modWhere(domain.HasID(opts.OwnerID), asUUID("a.owner_id", opts.OwnerID)),
		modWhere(domain.HasID(opts.LibraryID), asUUID("a.library_id", opts.LibraryID)),
		modWhere(opts.DeviceAssetID != "", sq.Eq{"a.device_asset_id": opts.DeviceAssetID}),
		modWhere(opts.DeviceID != "", sq.Eq{"a.device_id": opts.DeviceID}),
		modWhere(opts.Type != "", sq.Eq{"a.type": string(opts.Type)}),
		modWhere(len(opts.Checksum) > 0, sq.Eq{"a.checksum": opts.Checksum}),

		modWhere(opts.OriginalPath != "", sq.Eq{"a.original_path": opts.OriginalPath}),
		modWhere(opts.OriginalFileName != "", sq.Eq{"a.original_file_name": opts.OriginalFileName}),
		modWhere(opts.EncodedVideoPath != "", sq.Eq{"a.encoded_video_path": opts.EncodedVideoPath}),
		r.modFilePath(domain.AssetFilePreview, opts.PreviewPath),
		r.modFilePath(domain.AssetFileThumbnail, opts.ThumbnailPath),

		modRange("a.created_at", opts.CreatedAfter, opts.CreatedBefore),
		modRange("a.updated_at", opts.UpdatedAfter, opts.UpdatedBefore),
		modRange("a.deleted_at", opts.TrashedAfter, opts.TrashedBefore),
		modRange("e.date_time_original", opts.TakenAfter, opts.TakenBefore),

		modWhere(opts.City != "", sq.Eq{"e.city": opts.City}),
		modWhere(opts.State != "", sq.Eq{"e.state": opts.State}),
		modWhere(opts.Country != "", sq.Eq{"e.country": opts.Country}),
		modWhere(opts.Make != "", sq.Eq{"e.make": opts.Make}),
		modWhere(opts.Model != "", sq.Eq{"e.model": opts.Model}),
		modWhere(opts.LensModel != "", sq.Eq{"e.lens_model": opts.LensModel}),

		modBool("a.is_favorite", opts.IsFavorite),
		modBool("a.is_offline", opts.IsOffline),
		modBool("a.is_visible", opts.IsVisible),
		modBool("a.is_archived", opts.IsArchived),

		// Дефолт: без явного isArchived и без withArchived — только неархивные
		modWhere(opts.IsArchived == nil && !opts.WithArchived, sq.Eq{"a.is_archived": false}),
		// Дефолт: без withDeleted и без диапазона корзины — только неудалённые;
		// заданный край диапазона сам по себе означает намерение искать в корзине
		modWhere(!opts.WithDeleted && !opts.HasTrashedRange(), sq.Expr("a.deleted_at IS NULL")),

		modFlag(opts.IsEncoded, "a.encoded_video_path <> ''", "a.encoded_video_path = ''"),
		modFlag(opts.IsMotion, "a.live_photo_video_id IS NOT NULL", "a.live_photo_video_id IS NULL"),
		modFlag(opts.IsNotInAlbum,
			"NOT EXISTS (SELECT 1 FROM "+r.t("albums_assets")+" aa WHERE aa.asset_id = a.id)",
			"EXISTS (SELECT 1 FROM "+r.t("albums_assets")+" aa WHERE aa.asset_id = a.id)"),

		// Членство в альбоме без проекции альбомов
		modWhere(domain.HasID(opts.AlbumID) && !opts.WithAlbums, r.albumMembership(opts.AlbumID)),
	}
	for _, m := range mods {
		if m.when {
			b = m.apply(b)
		}
	}

	// Подключатели отношений: проекции добавляются после нативных
	// колонок и никогда их не вытесняют; план повторяет порядок SELECT
	var plan []string
	if opts.WithExif {
		b = r.withExif(b)
		plan = append(plan, relExifInfo)
	}
	if opts.WithFaces || opts.WithPeople {
		if opts.WithPeople {
			b = r.withFacesAndPeople(b)
		} else {
			b = r.withFaces(b)
		}
		plan = append(plan, relFaces)
	}
	if opts.WithOwner {
		b = r.withOwner(b)
		plan = append(plan, relOwner)
	}
	if opts.WithLibrary {
		b = r.withLibrary(b)
		plan = append(plan, relLibrary)
	}
	if opts.WithStacked || opts.WithStackedAssets {
		b = r.withStack(b, opts.WithDeleted, opts.WithStackedAssets)
		plan = append(plan, relStack)
		if opts.WithStackedAssets {
			plan = append(plan, relStackedAssets)
		}
	}
	if opts.WithAlbums {
		b = r.withAlbums(b, opts.AlbumID)
		plan = append(plan, relAlbums)
	}
	if opts.WithEmbedding {
		b = r.withEmbedding(b)
		plan = append(plan, relEmbedding)
	}

	// Сортировка: при заданном векторе — сперва по близости
	if len(opts.Embedding) > 0 {
		b = b.OrderByClause("ss.embedding <=> ?::vector", asVector(opts.Embedding))
	}
	dir := "DESC"
	if opts.Order == domain.SearchOrderAsc {
		dir = "ASC"
	}
	b = b.OrderBy("a.created_at "+dir, "a.id "+dir)

	limit := opts.Limit
	if limit <= 0 || limit > searchLimitMax {
		limit = searchLimitDefault
	}
	b = b.Limit(uint64(limit))
	if opts.Offset > 0 {
		b = b.Offset(uint64(opts.Offset))
	}

	return b, plan
}

// needsExifJoin — требуется ли join к exif хоть одному фильтру
func (r *PGRepo) needsExifJoin(opts domain.SearchOptions) bool {
	return opts.City != "" || opts.State != "" || opts.Country != "" ||
		opts.Make != "" || opts.Model != "" || opts.LensModel != "" ||
		opts.TakenAfter != nil || opts.TakenBefore != nil
}

// modFilePath — фильтр по пути файла заданного типа в asset_files
func (r *PGRepo) modFilePath(t domain.AssetFileType, path string) queryMod {
	return modWhere(path != "", sq.Expr(
		"EXISTS (SELECT 1 FROM "+r.t("asset_files")+" af WHERE af.asset_id = a.id AND af.type = ? AND af.path = ? AND af.deleted_at IS NULL)",
		string(t), path,
	))
}

// SearchAssets implements domain.SearchRepo.
func (r *PGRepo) SearchAssets(ctx context.Context, opts domain.SearchOptions) ([]domain.AssetRow, error) {
	b, plan := r.BuildSearch(opts)
	sqlStr, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search: %w", err)
	}
	r.logSQL("SearchAssets", sqlStr, args)

	start := time.Now()
	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		r.logger.Printf("SearchAssets query error after %s: %v", time.Since(start), err)
		return nil, err
	}
	defer rows.Close()

	res := make([]domain.AssetRow, 0, 64)
	for rows.Next() {
		row, err := scanAssetRow(rows, plan)
		if err != nil {
			r.logger.Printf("SearchAssets scan error: %v", err)
			return nil, err
		}
		res = append(res, row)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("SearchAssets rows error: %v", err)
		return nil, err
	}
	r.logger.Printf("SearchAssets ok in %s count=%d", time.Since(start), len(res))
	return res, nil
}

func scanAssetRow(rows pgx.Rows, plan []string) (domain.AssetRow, error) {
	var a domain.AssetRow
	dest := assetDest(&a.Asset)
	for _, rel := range plan {
		switch rel {
		case relExifInfo:
			dest = append(dest, &a.ExifInfo)
		case relFaces:
			dest = append(dest, &a.Faces)
		case relOwner:
			dest = append(dest, &a.Owner)
		case relLibrary:
			dest = append(dest, &a.Library)
		case relStack:
			dest = append(dest, &a.Stack)
		case relStackedAssets:
			dest = append(dest, &a.StackedAssets)
		case relAlbums:
			dest = append(dest, &a.Albums)
		case relEmbedding:
			dest = append(dest, &a.Embedding)
		}
	}
	err := rows.Scan(dest...)
	return a, err
}
