package analysis_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/docket/internal/analysis"
	"github.com/JaimeStill/docket/internal/documents"
)

type mockSystem struct {
	submitFn  func(ctx context.Context, id uuid.UUID) (*analysis.Submission, error)
	receiveFn func(ctx context.Context, payload []byte) (*documents.Document, error)
}

func (m *mockSystem) Handler() *analysis.Handler {
	return analysis.NewHandler(m, "", discardLogger())
}

func (m *mockSystem) Submit(ctx context.Context, id uuid.UUID) (*analysis.Submission, error) {
	return m.submitFn(ctx, id)
}

func (m *mockSystem) Receive(ctx context.Context, payload []byte) (*documents.Document, error) {
	return m.receiveFn(ctx, payload)
}

func setupMux(h *analysis.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		mux.HandleFunc(route.Method+" "+group.Prefix+route.Pattern, route.Handler)
	}
	return mux
}

func TestHandlerWebhookSecret(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		header string
		status int
	}{
		{"matching secret", "s3cret", "s3cret", http.StatusOK},
		{"wrong secret", "s3cret", "guess", http.StatusUnauthorized},
		{"missing header", "s3cret", "", http.StatusUnauthorized},
		{"no secret configured", "", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			sys := &mockSystem{
				receiveFn: func(_ context.Context, payload []byte) (*documents.Document, error) {
					called = true
					return &documents.Document{ID: docID, Status: documents.StatusAnalyzed}, nil
				},
			}

			req := httptest.NewRequest(http.MethodPost, "/analysis/webhook", strings.NewReader(`{}`))
			if tt.header != "" {
				req.Header.Set(analysis.HeaderSecret, tt.header)
			}
			rec := httptest.NewRecorder()
			setupMux(analysis.NewHandler(sys, tt.secret, discardLogger())).ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if called != (tt.status == http.StatusOK) {
				t.Errorf("Receive called = %v", called)
			}
		})
	}
}

func TestHandlerWebhookInvalidPayload(t *testing.T) {
	docs := newFakeDocuments()
	sys := analysis.New(docs, fakeSigner{}, nil, analysis.Config{}, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/analysis/webhook", strings.NewReader(`{"status":"succeeded"}`))
	rec := httptest.NewRecorder()
	setupMux(sys.Handler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandlerSubmit(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		err    error
		status int
	}{
		{"accepted", "/analysis/" + docID.String(), nil, http.StatusAccepted},
		{"bad id", "/analysis/nope", nil, http.StatusBadRequest},
		{"disabled", "/analysis/" + docID.String(), analysis.ErrDisabled, http.StatusServiceUnavailable},
		{"missing document", "/analysis/" + docID.String(), documents.ErrNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := &mockSystem{
				submitFn: func(_ context.Context, id uuid.UUID) (*analysis.Submission, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return &analysis.Submission{DocumentID: id, Status: documents.StatusAnalyzing}, nil
				},
			}

			rec := httptest.NewRecorder()
			setupMux(sys.Handler()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tt.path, nil))

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}
