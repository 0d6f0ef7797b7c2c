package server

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/joseph-ayodele/receipt-processor/constants"
	"github.com/joseph-ayodele/receipt-processor/internal/common"
	"github.com/joseph-ayodele/receipt-processor/internal/receipts"
)

// ReceiptHandlers serves the receipt endpoints.
type ReceiptHandlers struct {
	svc          *receipts.Service
	maxBodyBytes int64
	logger       *zap.Logger
}

func NewReceiptHandlers(svc *receipts.Service, maxBodyBytes int64, logger *zap.Logger) *ReceiptHandlers {
	if maxBodyBytes <= 0 {
		maxBodyBytes = 1 << 20
	}
	return &ReceiptHandlers{svc: svc, maxBodyBytes: maxBodyBytes, logger: logger}
}

type processResponse struct {
	ID string `json:"id"`
}

type pointsResponse struct {
	Points int64 `json:"points"`
}

func (h *ReceiptHandlers) handleProcess(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		h.logger.Info("failed to read request body",
			zap.String("request_id", common.RequestIDFromContext(r.Context())),
			zap.Error(err))
		respondText(w, http.StatusBadRequest, constants.MsgInvalidReceipt)
		return
	}

	id, err := h.svc.Submit(r.Context(), body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, processResponse{ID: id})
}

func (h *ReceiptHandlers) handlePoints(w http.ResponseWriter, r *http.Request) {
	pts, err := h.svc.CalculatePoints(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, pointsResponse{Points: pts})
}

func (h *ReceiptHandlers) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.ExplainPoints(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, b)
}

// writeError maps facade errors onto the fixed boundary messages.
func (h *ReceiptHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case common.IsInvalidReceipt(err):
		respondText(w, http.StatusBadRequest, constants.MsgInvalidReceipt)
	case errors.Is(err, common.ErrNotFound):
		respondText(w, http.StatusNotFound, constants.MsgReceiptNotFound)
	default:
		h.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", common.RequestIDFromContext(r.Context())),
			zap.Error(err))
		respondText(w, http.StatusInternalServerError, constants.MsgInternalError)
	}
}
