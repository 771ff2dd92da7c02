package analysis

import (
	"crypto/subtle"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/docket/internal/documents"
	"github.com/JaimeStill/docket/pkg/handlers"
	"github.com/JaimeStill/docket/pkg/routes"
)

// maxCallbackSize bounds callback bodies.
const maxCallbackSize = 8 << 20

// Handler provides HTTP endpoints for the analysis pipeline.
type Handler struct {
	sys    System
	secret string
	logger *slog.Logger
}

// NewHandler creates a Handler. An empty secret accepts unauthenticated callbacks.
func NewHandler(sys System, secret string, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		secret: secret,
		logger: logger.With("handler", "analysis"),
	}
}

// Routes returns the route group definition for analysis endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/analysis",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/webhook", Handler: h.Webhook},
			{Method: "POST", Pattern: "/{documentId}", Handler: h.Submit},
		},
	}
}

// Submit dispatches a document to the pipeline.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("documentId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, documents.ErrInvalidID)
		return
	}

	sub, err := h.sys.Submit(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusAccepted, sub)
}

// Webhook receives a pipeline callback.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, ErrUnauthorized)
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCallbackSize))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrInvalidPayload)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidPayload)
		return
	}

	doc, err := h.sys.Receive(r.Context(), payload)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, doc)
}

func (h *Handler) authorized(r *http.Request) bool {
	if h.secret == "" {
		return true
	}
	got := r.Header.Get(HeaderSecret)
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) == 1
}
