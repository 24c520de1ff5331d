package api

import (
	"errors"
	"net/http"

	service "github.com/okian/pixwatch/internal/app"
	"github.com/okian/pixwatch/internal/domain/types"
	"github.com/okian/pixwatch/pkg/logger"
)

// StatusHandler serves the current availability level.
type StatusHandler struct {
	deps Dependencies
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(deps Dependencies) *StatusHandler {
	return &StatusHandler{deps: deps}
}

// HandleStatus handles GET /status requests.
func (h *StatusHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	st, err := h.deps.Status(r.Context())
	if err != nil {
		writeDepError(w, r, "status", err)
		return
	}
	writeJSON(w, http.StatusOK, types.NewStatusRecord(st))
}

// HistoryHandler serves the failure log.
type HistoryHandler struct {
	deps Dependencies
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(deps Dependencies) *HistoryHandler {
	return &HistoryHandler{deps: deps}
}

// HandleHistory handles GET /history requests. Entries are oldest first.
func (h *HistoryHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	events, err := h.deps.History(r.Context())
	if err != nil {
		writeDepError(w, r, "history", err)
		return
	}
	writeJSON(w, http.StatusOK, types.NewHistory(events))
}

func writeDepError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, service.ErrNotStarted) {
		writeError(w, http.StatusServiceUnavailable, "unavailable", ErrUnavailable)
		return
	}
	logger.Get().Named("api").Error(r.Context(), "read failed",
		logger.String("op", op),
		logger.String("requestId", RequestID(r.Context())),
		logger.Error(err),
	)
	writeError(w, http.StatusInternalServerError, "internal", ErrInternal)
}
