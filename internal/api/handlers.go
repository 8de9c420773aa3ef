package api

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/noah-isme/orderreport/internal/common"
	"github.com/noah-isme/orderreport/internal/report"
	"github.com/noah-isme/orderreport/internal/source"
)

// Runner produces one report per call.
type Runner interface {
	Run(ctx context.Context) (*report.Report, error)
}

// ReportHandler serves the report. Runs are serialised.
type ReportHandler struct {
	Runner Runner

	mu sync.Mutex
}

// Text returns the report text.
func (h *ReportHandler) Text(w http.ResponseWriter, r *http.Request) {
	rep, err := h.run(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Report-Run-Id", rep.RunID)
	w.WriteHeader(http.StatusOK)
	_ = report.WriteText(w, rep)
}

// Rows returns the structured per-customer export.
func (h *ReportHandler) Rows(w http.ResponseWriter, r *http.Request) {
	rep, err := h.run(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	data, err := report.JSON(rep.Rows())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Report-Run-Id", rep.RunID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *ReportHandler) run(ctx context.Context) (*report.Report, error) {
	if h.Runner == nil {
		return nil, common.NewAppError("INTERNAL", "report runner not configured", http.StatusInternalServerError, nil)
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	rep, err := h.Runner.Run(ctx)
	switch {
	case err == nil:
		return rep, nil
	case errors.Is(err, source.ErrRequiredSource):
		return nil, common.NewAppError("SOURCE_UNAVAILABLE", "required source unreadable", http.StatusServiceUnavailable, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil, common.NewAppError("CANCELLED", "report run cancelled", http.StatusServiceUnavailable, err)
	default:
		return nil, err
	}
}
