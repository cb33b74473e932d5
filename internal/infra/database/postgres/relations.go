package postgres

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/lpil/immich/internal/domain"
)

// Подключатели отношений: каждый — чистое преобразование
// (query -> query'), добавляющее одну опциональную проекцию/фильтр.
// Вложенный JSON собирается коррелированными подзапросами, так что вся
// специфика jsonb-функций хранилища изолирована в этом файле; join-ы
// для фильтров добавляет joinSet в search.go, ровно по одному.

// Имена проецируемых колонок отношений — в порядке их scan-назначений
const (
	relExifInfo      = "exif_info"
	relFaces         = "faces"
	relOwner         = "owner"
	relLibrary       = "library"
	relStack         = "stack"
	relStackedAssets = "stacked_assets"
	relAlbums        = "albums"
	relEmbedding     = "embedding"
)

// withExif — EXIF одним jsonb-объектом без null-полей, NULL если нет
func (r *PGRepo) withExif(b sq.SelectBuilder) sq.SelectBuilder {
	sub := sq.Select("jsonb_strip_nulls(to_jsonb(e))").
		From(r.t("exif") + " e").
		Where("e.asset_id = a.id")
	return b.Column(sq.Alias(sub, relExifInfo))
}

// withFaces — все лица актива одним jsonb-массивом ('[]' если нет)
func (r *PGRepo) withFaces(b sq.SelectBuilder) sq.SelectBuilder {
	sub := sq.Select("coalesce(jsonb_agg(to_jsonb(f)), '[]'::jsonb)").
		From(r.t("asset_faces") + " f").
		Where("f.asset_id = a.id AND f.deleted_at IS NULL")
	return b.Column(sq.Alias(sub, relFaces))
}

// withFacesAndPeople — как withFaces, но к лицу с привязкой добавляется
// вложенный объект person; лица без привязки идут как есть. Ровно один
// jsonb-массив на строку актива, не строка на лицо.
func (r *PGRepo) withFacesAndPeople(b sq.SelectBuilder) sq.SelectBuilder {
	sub := sq.Select(
		"coalesce(jsonb_agg(CASE WHEN p.id IS NULL THEN to_jsonb(f) " +
			"ELSE to_jsonb(f) || jsonb_build_object('person', to_jsonb(p)) END), '[]'::jsonb)").
		From(r.t("asset_faces") + " f").
		LeftJoin(r.t("people") + " p ON p.id = f.person_id").
		Where("f.asset_id = a.id AND f.deleted_at IS NULL")
	return b.Column(sq.Alias(sub, relFaces))
}

// withOwner — владелец одним jsonb-объектом
func (r *PGRepo) withOwner(b sq.SelectBuilder) sq.SelectBuilder {
	sub := sq.Select("to_jsonb(u)").
		From(r.t("users") + " u").
		Where("u.id = a.owner_id")
	return b.Column(sq.Alias(sub, relOwner))
}

// withLibrary — библиотека одним jsonb-объектом, NULL если актив вне библиотек
func (r *PGRepo) withLibrary(b sq.SelectBuilder) sq.SelectBuilder {
	sub := sq.Select("to_jsonb(l)").
		From(r.t("libraries") + " l").
		Where("l.id = a.library_id")
	return b.Column(sq.Alias(sub, relLibrary))
}

// withStack — информация о стеке для первичного актива или актива вне
// стека (вторичные отсекаются фильтром). При withAssets дополнительно
// агрегируются вторичные активы стека: первичный никогда не входит,
// мягко удалённые входят только при withDeleted.
func (r *PGRepo) withStack(b sq.SelectBuilder, withDeleted, withAssets bool) sq.SelectBuilder {
	b = b.Where("(a.stack_id IS NULL OR st.primary_asset_id = a.id)").
		Column("CASE WHEN st.id IS NULL THEN NULL ELSE to_jsonb(st) END AS " + relStack)

	if withAssets {
		cond := "s.stack_id = a.stack_id AND s.id <> st.primary_asset_id"
		if !withDeleted {
			cond += " AND s.deleted_at IS NULL"
		}
		sub := sq.Select("coalesce(jsonb_agg(to_jsonb(s)), '[]'::jsonb)").
			From(r.t("assets") + " s").
			Where(cond)
		b = b.Column(sq.Alias(sub, relStackedAssets))
	}
	return b
}

// withAlbums — альбомы актива одним jsonb-массивом; при заданном albumID
// дополнительно фильтр членства (проекция + фильтр в одном подключателе)
func (r *PGRepo) withAlbums(b sq.SelectBuilder, albumID domain.AlbumID) sq.SelectBuilder {
	sub := sq.Select("coalesce(jsonb_agg(to_jsonb(al)), '[]'::jsonb)").
		From(r.t("albums") + " al").
		Join(r.t("albums_assets") + " aa ON aa.album_id = al.id").
		Where("aa.asset_id = a.id AND al.deleted_at IS NULL")
	b = b.Column(sq.Alias(sub, relAlbums))

	if albumID != uuid.Nil {
		b = b.Where(r.albumMembership(albumID))
	}
	return b
}

// albumMembership — принадлежность актива конкретному альбому.
// Несуществующий альбом даёт пустой результат, не ошибку.
func (r *PGRepo) albumMembership(albumID domain.AlbumID) sq.Sqlizer {
	return sq.Expr(
		"EXISTS (SELECT 1 FROM "+r.t("albums_assets")+" aa WHERE aa.asset_id = a.id AND aa.album_id = ?::uuid)",
		albumID.String(),
	)
}

// withEmbedding — проекция вектора (join smart_search добавляет joinSet:
// inner, когда наличие вектора само по себе фильтр, иначе left)
func (r *PGRepo) withEmbedding(b sq.SelectBuilder) sq.SelectBuilder {
	return b.Column("ss.embedding::text AS " + relEmbedding)
}
