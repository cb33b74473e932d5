package search

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/lpil/immich/internal/domain"
	"github.com/lpil/immich/internal/transport/web/logx"
	"github.com/lpil/immich/internal/transport/web/mw"
	v1 "github.com/lpil/immich/internal/transport/web/v1"
)

type Handler struct {
	Log    *log.Logger
	Repo   domain.SearchRepo
	Cache  domain.Cache
	TTLSec int
}

// Search — POST /v1/search: тело запроса — SearchOptions как есть.
// Сбор и валидация фильтров — забота вызывающего слоя; сюда приходит
// готовый мешок опций, кривые uuid падают ошибкой приведения в базе.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	const op = "search.assets"
	reqID := mw.RequestIDFromCtx(r.Context())

	var opts domain.SearchOptions
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		logx.Warn(h.Log, reqID, op, "bad body: "+err.Error())
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if opts.Order != "" && !domain.ValidSearchOrder(opts.Order) {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if opts.Type != "" && !domain.ValidAssetType(opts.Type) {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	// Владелец из контекста (проставлен шлюзом), если не задан в опциях
	owner, hasOwner := domain.OwnerFromCtx(r.Context())
	if hasOwner && !domain.HasID(opts.OwnerID) {
		opts.OwnerID = owner
	}

	// кэш страницы поиска
	ckey := h.pageKey(r, opts)
	if b, err := h.Cache.Get(r.Context(), ckey); err != nil {
		h.Log.Printf("cache get search: %v", err)
	} else if b != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
		return
	}

	rowsOut, err := h.Repo.SearchAssets(r.Context(), opts)
	if err != nil {
		logx.Error(h.Log, reqID, op, "search failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	env := domain.OkData(struct {
		Assets []domain.AssetRow `json:"assets"`
		Count  int               `json:"count"`
	}{Assets: rowsOut, Count: len(rowsOut)})

	buf, _ := json.Marshal(env)
	_ = h.Cache.Set(r.Context(), ckey, buf, h.TTLSec)

	logx.Info(h.Log, reqID, op, "count="+strconv.Itoa(len(rowsOut)))
	v1.WriteEnvelope(w, r, http.StatusOK, env)
}

// InvalidateCache — DELETE /v1/search/cache: инкремент версии владельца
// разом обесценивает все его закешированные страницы.
func (h *Handler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	const op = "search.invalidate"
	reqID := mw.RequestIDFromCtx(r.Context())

	owner, ok := domain.OwnerFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	n, err := h.Cache.Incr(r.Context(), domain.CacheKeySearchVersion(owner))
	if err != nil {
		logx.Error(h.Log, reqID, op, "incr failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "version="+strconv.FormatInt(n, 10))
	v1.WriteOKData(w, r, "invalidated")
}

// pageKey — ключ кеша: владелец + его текущая версия + хэш опций
func (h *Handler) pageKey(r *http.Request, opts domain.SearchOptions) string {
	var version int64
	if b, err := h.Cache.Get(r.Context(), domain.CacheKeySearchVersion(opts.OwnerID)); err == nil && b != nil {
		if n, perr := strconv.ParseInt(string(b), 10, 64); perr == nil {
			version = n
		}
	}
	return domain.CacheKeySearchPage(opts.OwnerID, version, opts)
}
