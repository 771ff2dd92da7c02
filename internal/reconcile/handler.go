package reconcile

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/docket/pkg/handlers"
	"github.com/JaimeStill/docket/pkg/routes"
)

// ErrInvalidOptions is returned for an unreadable request body.
var ErrInvalidOptions = errors.New("invalid reconcile options")

// Handler provides the HTTP endpoint for reconciliation runs.
type Handler struct {
	sys    System
	logger *slog.Logger
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "reconcile"),
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/reconcile",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Run},
		},
	}
}

// Run executes a reconciliation. An empty body is a dry run.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	var opts Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidOptions)
		return
	}

	report, err := h.sys.Run(r.Context(), opts)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, report)
}
