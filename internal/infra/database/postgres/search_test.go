package postgres

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lpil/immich/internal/domain"
)

func buildSQL(t *testing.T, opts domain.SearchOptions) (string, []any, []string) {
	t.Helper()
	r := testRepo()
	b, plan := r.BuildSearch(opts)
	sql, args, err := b.ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	return sql, args, plan
}

func TestBuildSearchDefaults(t *testing.T) {
	sql, args, plan := buildSQL(t, domain.SearchOptions{})

	want := "SELECT " + strings.Join(qualify("a", assetColumns), ", ") +
		" FROM media.assets a" +
		" WHERE a.is_archived = $1 AND a.deleted_at IS NULL" +
		" ORDER BY a.created_at DESC, a.id DESC LIMIT 250"
	if sql != want {
		t.Errorf("sql =\n%s\nwant\n%s", sql, want)
	}
	if len(args) != 1 || args[0] != false {
		t.Errorf("args = %v, want [false]", args)
	}
	if len(plan) != 0 {
		t.Errorf("plan = %v, want empty", plan)
	}
}

func TestBuildSearchArchived(t *testing.T) {
	// Сравнения ищем в форме "= $": имя колонки само по себе всегда
	// присутствует в проекции SELECT и клаузой не является.
	t.Run("withArchived drops the default", func(t *testing.T) {
		sql, _, _ := buildSQL(t, domain.SearchOptions{WithArchived: true})
		if strings.Contains(sql, "a.is_archived = $") {
			t.Errorf("archived clause present:\n%s", sql)
		}
		// сама колонка при этом остаётся в проекции
		if !strings.Contains(sql, "a.is_archived,") {
			t.Errorf("projection lost the column:\n%s", sql)
		}
	})

	t.Run("explicit true replaces the default", func(t *testing.T) {
		sql, args, _ := buildSQL(t, domain.SearchOptions{IsArchived: domain.Bool(true)})
		if got := strings.Count(sql, "a.is_archived = $"); got != 1 {
			t.Errorf("archived clauses = %d, want 1:\n%s", got, sql)
		}
		if args[0] != true {
			t.Errorf("args = %v, want leading true", args)
		}
	})

	// явный false — это фильтр, а не отсутствие фильтра
	t.Run("explicit false is a real filter", func(t *testing.T) {
		sql, args, _ := buildSQL(t, domain.SearchOptions{IsArchived: domain.Bool(false)})
		if got := strings.Count(sql, "a.is_archived = $"); got != 1 {
			t.Errorf("archived clauses = %d, want 1:\n%s", got, sql)
		}
		if args[0] != false {
			t.Errorf("args = %v, want leading false", args)
		}
	})
}

func TestBuildSearchTriStateBools(t *testing.T) {
	sql, _, _ := buildSQL(t, domain.SearchOptions{
		IsFavorite: domain.Bool(false),
		IsOffline:  domain.Bool(true),
	})
	if !strings.Contains(sql, "a.is_favorite = $") {
		t.Errorf("explicit false favorite skipped:\n%s", sql)
	}
	if !strings.Contains(sql, "a.is_offline = $") {
		t.Errorf("offline filter missing:\n%s", sql)
	}
	if strings.Contains(sql, "a.is_visible = $") {
		t.Errorf("unset visible leaked into sql:\n%s", sql)
	}
}

func TestBuildSearchDeleted(t *testing.T) {
	t.Run("withDeleted drops the default", func(t *testing.T) {
		sql, _, _ := buildSQL(t, domain.SearchOptions{WithDeleted: true})
		if strings.Contains(sql, "a.deleted_at IS NULL") {
			t.Errorf("deleted clause present:\n%s", sql)
		}
	})

	// заданный край диапазона корзины — намерение искать в корзине
	t.Run("trashed range drops the default", func(t *testing.T) {
		after := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		sql, _, _ := buildSQL(t, domain.SearchOptions{TrashedAfter: &after})
		if strings.Contains(sql, "a.deleted_at IS NULL") {
			t.Errorf("default deleted filter fights the trashed range:\n%s", sql)
		}
		if !strings.Contains(sql, "a.deleted_at >= $") {
			t.Errorf("trashed lower bound missing:\n%s", sql)
		}
	})
}

func TestBuildSearchExifJoinDedup(t *testing.T) {
	after := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	sql, _, _ := buildSQL(t, domain.SearchOptions{
		City:       "Oslo",
		Country:    "Norway",
		TakenAfter: &after,
	})
	// три EXIF-фильтра — ровно один join
	if got := strings.Count(sql, "JOIN media.exif e ON e.asset_id = a.id"); got != 1 {
		t.Errorf("exif joins = %d, want 1:\n%s", got, sql)
	}
	for _, want := range []string{"e.city = $", "e.country = $", "e.date_time_original >= $"} {
		if !strings.Contains(sql, want) {
			t.Errorf("sql missing %q:\n%s", want, sql)
		}
	}
}

func TestBuildSearchPeopleWrap(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	sql, args, _ := buildSQL(t, domain.SearchOptions{PersonIDs: ids})

	if !strings.Contains(sql, "FROM (SELECT a.* FROM media.assets a") {
		t.Errorf("base table not wrapped:\n%s", sql)
	}
	if !strings.Contains(sql, ") AS a WHERE") {
		t.Errorf("wrap does not keep the alias:\n%s", sql)
	}
	if !strings.Contains(sql, "HAVING count(distinct f.person_id) >= $") {
		t.Errorf("coverage having missing:\n%s", sql)
	}
	// аргументы подзапроса идут перед аргументами внешних фильтров
	if got, ok := args[1].(int); !ok || got != 3 {
		t.Errorf("having arg = %v, want 3", args[1])
	}
}

func TestBuildSearchFilePathFilters(t *testing.T) {
	sql, args, _ := buildSQL(t, domain.SearchOptions{
		PreviewPath: "/cache/previews/x.jpg",
	})
	if !strings.Contains(sql, "EXISTS (SELECT 1 FROM media.asset_files af WHERE af.asset_id = a.id AND af.type = $") {
		t.Errorf("asset_files filter missing:\n%s", sql)
	}
	if args[0] != string(domain.AssetFilePreview) {
		t.Errorf("args[0] = %v, want preview type", args[0])
	}
	if args[1] != "/cache/previews/x.jpg" {
		t.Errorf("args[1] = %v, want the path", args[1])
	}
}

func TestBuildSearchAlbumMembership(t *testing.T) {
	id := uuid.New()
	const exists = "EXISTS (SELECT 1 FROM media.albums_assets aa WHERE aa.asset_id = a.id AND aa.album_id = $"

	t.Run("filter without projection", func(t *testing.T) {
		sql, _, plan := buildSQL(t, domain.SearchOptions{AlbumID: id})
		if got := strings.Count(sql, exists); got != 1 {
			t.Errorf("membership applied %d times, want 1:\n%s", got, sql)
		}
		if len(plan) != 0 {
			t.Errorf("plan = %v, want empty", plan)
		}
	})

	// с проекцией членство уходит в подключатель, но всё ещё ровно одно
	t.Run("filter with projection", func(t *testing.T) {
		sql, _, plan := buildSQL(t, domain.SearchOptions{AlbumID: id, WithAlbums: true})
		if got := strings.Count(sql, exists); got != 1 {
			t.Errorf("membership applied %d times, want 1:\n%s", got, sql)
		}
		if len(plan) != 1 || plan[0] != relAlbums {
			t.Errorf("plan = %v, want [albums]", plan)
		}
	})
}

func TestBuildSearchNotInAlbum(t *testing.T) {
	sql, _, _ := buildSQL(t, domain.SearchOptions{IsNotInAlbum: domain.Bool(true)})
	if !strings.Contains(sql, "NOT EXISTS (SELECT 1 FROM media.albums_assets aa WHERE aa.asset_id = a.id)") {
		t.Errorf("not-in-album filter missing:\n%s", sql)
	}

	sql, _, _ = buildSQL(t, domain.SearchOptions{IsNotInAlbum: domain.Bool(false)})
	if strings.Contains(sql, "NOT EXISTS") {
		t.Errorf("explicit false rendered as NOT EXISTS:\n%s", sql)
	}
	if !strings.Contains(sql, "EXISTS (SELECT 1 FROM media.albums_assets aa WHERE aa.asset_id = a.id)") {
		t.Errorf("in-album filter missing:\n%s", sql)
	}
}

func TestBuildSearchStackedSiblings(t *testing.T) {
	base := domain.SearchOptions{WithStacked: true, WithStackedAssets: true}

	sql, _, plan := buildSQL(t, base)
	if !strings.Contains(sql, "LEFT JOIN media.asset_stacks st ON st.id = a.stack_id") {
		t.Errorf("stack join missing:\n%s", sql)
	}
	if !strings.Contains(sql, "s.deleted_at IS NULL") {
		t.Errorf("soft-deleted siblings not excluded by default:\n%s", sql)
	}
	if len(plan) != 2 || plan[0] != relStack || plan[1] != relStackedAssets {
		t.Errorf("plan = %v, want [stack stacked_assets]", plan)
	}

	base.WithDeleted = true
	sql, _, _ = buildSQL(t, base)
	if strings.Contains(sql, "s.deleted_at IS NULL") {
		t.Errorf("withDeleted must open siblings to the trash:\n%s", sql)
	}
}

func TestBuildSearchPlanOrder(t *testing.T) {
	_, _, plan := buildSQL(t, domain.SearchOptions{
		WithExif:          true,
		WithPeople:        true,
		WithOwner:         true,
		WithLibrary:       true,
		WithStacked:       true,
		WithStackedAssets: true,
		WithAlbums:        true,
		WithEmbedding:     true,
	})
	want := []string{
		relExifInfo, relFaces, relOwner, relLibrary,
		relStack, relStackedAssets, relAlbums, relEmbedding,
	}
	if len(plan) != len(want) {
		t.Fatalf("plan = %v, want %v", plan, want)
	}
	for i := range want {
		if plan[i] != want[i] {
			t.Errorf("plan[%d] = %q, want %q", i, plan[i], want[i])
		}
	}
}

func TestBuildSearchEmbedding(t *testing.T) {
	t.Run("similarity ordering", func(t *testing.T) {
		sql, args, _ := buildSQL(t, domain.SearchOptions{
			Embedding:         []float32{0.5, -1},
			EmbeddingRequired: true,
		})
		// наличие вектора — фильтр, join обязан быть внутренним
		if strings.Contains(sql, "LEFT JOIN media.smart_search") {
			t.Errorf("smart_search joined as LEFT:\n%s", sql)
		}
		if !strings.Contains(sql, "JOIN media.smart_search ss ON ss.asset_id = a.id") {
			t.Errorf("smart_search join missing:\n%s", sql)
		}
		if !strings.Contains(sql, "ORDER BY ss.embedding <=> $") {
			t.Errorf("similarity order missing:\n%s", sql)
		}
		if !strings.Contains(sql, "::vector, a.created_at DESC, a.id DESC") {
			t.Errorf("created_at tiebreak lost:\n%s", sql)
		}
		last := args[len(args)-1]
		if last != "[0.5,-1]" {
			t.Errorf("vector arg = %v, want [0.5,-1]", last)
		}
	})

	t.Run("projection without filter", func(t *testing.T) {
		sql, _, plan := buildSQL(t, domain.SearchOptions{WithEmbedding: true})
		if !strings.Contains(sql, "LEFT JOIN media.smart_search ss ON ss.asset_id = a.id") {
			t.Errorf("smart_search not LEFT joined:\n%s", sql)
		}
		if !strings.Contains(sql, "ss.embedding::text AS embedding") {
			t.Errorf("embedding projection missing:\n%s", sql)
		}
		if len(plan) != 1 || plan[0] != relEmbedding {
			t.Errorf("plan = %v, want [embedding]", plan)
		}
	})
}

func TestBuildSearchOrderAndPaging(t *testing.T) {
	sql, _, _ := buildSQL(t, domain.SearchOptions{Order: domain.SearchOrderAsc, Limit: 100, Offset: 20})
	if !strings.Contains(sql, "ORDER BY a.created_at ASC, a.id ASC") {
		t.Errorf("asc order missing:\n%s", sql)
	}
	if !strings.Contains(sql, "LIMIT 100 OFFSET 20") {
		t.Errorf("paging missing:\n%s", sql)
	}

	// запредельный limit прижимается к дефолту
	sql, _, _ = buildSQL(t, domain.SearchOptions{Limit: 5000})
	if !strings.Contains(sql, "LIMIT 250") {
		t.Errorf("limit not clamped:\n%s", sql)
	}
}

func TestBuildSearchIDFilters(t *testing.T) {
	owner := uuid.New()
	sql, args, _ := buildSQL(t, domain.SearchOptions{OwnerID: owner, DeviceID: "device-1"})
	if !strings.Contains(sql, "a.owner_id = $1::uuid") {
		t.Errorf("owner filter missing:\n%s", sql)
	}
	if args[0] != owner.String() {
		t.Errorf("args[0] = %v, want owner id", args[0])
	}
	if !strings.Contains(sql, "a.device_id = $2") {
		t.Errorf("device filter missing:\n%s", sql)
	}
}
