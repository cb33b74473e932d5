package web

import (
	"log"
	"net/http"

	"github.com/lpil/immich/internal/transport/web/mw"
	"github.com/lpil/immich/internal/transport/web/v1/asset"
	"github.com/lpil/immich/internal/transport/web/v1/health"
	"github.com/lpil/immich/internal/transport/web/v1/search"
)

func newRouter(hh *health.Handler, sh *search.Handler, ah *asset.Handler, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()

	// health
	mux.HandleFunc("GET /v1/healthz", hh.Liveness)
	mux.HandleFunc("GET /v1/readyz", hh.Readiness)

	// поиск активов: тело — SearchOptions, лимит на всякий случай
	mux.HandleFunc("POST /v1/search", limitBody(1<<20, sh.Search)) // 1MB
	mux.HandleFunc("DELETE /v1/search/cache", sh.InvalidateCache)

	// актив + его файлы
	mux.HandleFunc("GET /v1/assets/{id}", ah.GetOne)

	// 🔗 middleware
	return mw.WithRequestID(mw.WithOwner(mw.Logging(logger)(mux)))
}

func limitBody(n int64, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, n)
		h(w, r)
	}
}
