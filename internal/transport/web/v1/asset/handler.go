package asset

import (
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/lpil/immich/internal/domain"
	"github.com/lpil/immich/internal/transport/web/logx"
	"github.com/lpil/immich/internal/transport/web/mw"
	v1 "github.com/lpil/immich/internal/transport/web/v1"
)

type Handler struct {
	Log    *log.Logger
	Assets domain.AssetsRepo
}

// GetOne — GET /v1/assets/{id}: актив + его файлы (превью/миниатюра)
func (h *Handler) GetOne(w http.ResponseWriter, r *http.Request) {
	const op = "asset.getone"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	a, err := h.Assets.AssetByID(r.Context(), id)
	if err != nil {
		logx.Warn(h.Log, reqID, op, "not found: "+err.Error())
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}

	files, err := h.Assets.AssetFilesByAsset(r.Context(), id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "files failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "id="+id.String())
	v1.WriteOKData(w, r, struct {
		Asset domain.Asset       `json:"asset"`
		Files []domain.AssetFile `json:"files"`
	}{Asset: a, Files: files})
}
