package server

import (
	"context"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/joseph-ayodele/receipt-processor/constants"
	"github.com/joseph-ayodele/receipt-processor/internal/common"
)

// Exporter renders all stored receipts as an XLSX workbook.
type Exporter interface {
	ExportXLSX(ctx context.Context) ([]byte, error)
}

type ExportHandler struct {
	svc    Exporter
	logger *zap.Logger
}

func NewExportHandler(svc Exporter, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{svc: svc, logger: logger}
}

func (h *ExportHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	xlsx, err := h.svc.ExportXLSX(r.Context())
	if err != nil {
		h.logger.Error("export.xlsx.failed",
			zap.String("request_id", common.RequestIDFromContext(r.Context())),
			zap.Error(err))
		respondText(w, http.StatusInternalServerError, constants.MsgInternalError)
		return
	}

	w.Header().Set("Content-Type", constants.XLSXContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="receipts.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(xlsx)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(xlsx)
}
