package web

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/lpil/immich/internal/config"
	"github.com/lpil/immich/internal/domain"
	"github.com/lpil/immich/internal/transport/web/v1/asset"
	"github.com/lpil/immich/internal/transport/web/v1/health"
	"github.com/lpil/immich/internal/transport/web/v1/search"
)

type Server struct {
	log    *log.Logger
	server *http.Server
	cfg    *config.Config
}

func New(logger *log.Logger, cfg *config.Config, rep Repos, cache domain.Cache) *Server {
	healthLog := log.New(logger.Writer(), logger.Prefix()+"[health] ", logger.Flags())
	searchLog := log.New(logger.Writer(), logger.Prefix()+"[search] ", logger.Flags())
	assetLog := log.New(logger.Writer(), logger.Prefix()+"[asset] ", logger.Flags())

	healthHandler := &health.Handler{DB: rep.Search, Cache: cache, Log: healthLog}
	searchHandler := &search.Handler{Log: searchLog, Repo: rep.Search, Cache: cache, TTLSec: cfg.CacheSearchTTL}
	assetHandler := &asset.Handler{Log: assetLog, Assets: rep.Assets}

	srv := &http.Server{
		Addr:              cfg.AppPort,
		Handler:           newRouter(healthHandler, searchHandler, assetHandler, logger),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 2 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return &Server{server: srv, cfg: cfg, log: logger}
}

func (ws *Server) Run() {
	ws.log.Printf("started on %s", ws.server.Addr)
	if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		ws.log.Fatalf("error: %v", err)
	}
}

func (ws *Server) Close(ctx context.Context) {
	if err := ws.server.Shutdown(ctx); err != nil {
		ws.log.Printf("forced to shutdown: %v", err)
	}
	ws.log.Println("exited gracefully")
}
