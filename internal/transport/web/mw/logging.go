package mw

import (
	"log"
	"net/http"
	"time"
)

// Logging — access-лог в формате logx: одна строка на запрос после
// обработки, со статусом, размером ответа и длительностью
func Logging(l *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			mw := &metaWriter{ResponseWriter: w}

			next.ServeHTTP(mw, r)

			l.Printf("lvl=info req_id=%s op=http.access msg=%q status=%d size=%d duration_ms=%d",
				RequestIDFromCtx(r.Context()),
				r.Method+" "+r.URL.Path,
				mw.status, mw.size, time.Since(start).Milliseconds())
		})
	}
}
