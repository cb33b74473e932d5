package mw

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lpil/immich/internal/domain"
)

// WithOwner кладёт владельца из X-Owner-ID в контекст. Аутентификация —
// внешняя: заголовок проставляет вышестоящий шлюз, здесь только разбор.
// Кривой или пустой заголовок — просто идём дальше без владельца.
func WithOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("X-Owner-ID")
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(domain.WithOwner(r.Context(), id)))
	})
}
