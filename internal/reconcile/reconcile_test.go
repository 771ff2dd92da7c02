package reconcile_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/docket/internal/confidence"
	"github.com/JaimeStill/docket/internal/documents"
	"github.com/JaimeStill/docket/internal/reconcile"
	"github.com/JaimeStill/docket/pkg/pagination"
)

type fakeStore struct {
	mu         sync.Mutex
	docs       []documents.Document
	scoring    documents.Scoring
	listErr    error
	rescoreErr error
	pages      int
}

func (s *fakeStore) List(_ context.Context, page pagination.PageRequest, _ documents.Filters) (*pagination.PageResult[documents.Document], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.pages++

	start := min(page.Offset(), len(s.docs))
	end := min(start+page.PageSize, len(s.docs))
	data := append([]documents.Document(nil), s.docs[start:end]...)

	result := pagination.NewPageResult(data, len(s.docs), page.Page, page.PageSize)
	return &result, nil
}

func (s *fakeStore) Rescore(_ context.Context, id uuid.UUID, cmd documents.RescoreCommand) (*documents.Document, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rescoreErr != nil {
		return nil, false, s.rescoreErr
	}
	for i := range s.docs {
		d := &s.docs[i]
		if d.ID != id {
			continue
		}
		changed := cmd.Apply(d)
		return d, changed, nil
	}
	return nil, false, documents.ErrNotFound
}

func (s *fakeStore) Scoring(context.Context) documents.Scoring {
	return s.scoring
}

func (s *fakeStore) state(id uuid.UUID) confidence.State {
	for _, d := range s.docs {
		if d.ID == id {
			return d.Confidence
		}
	}
	return ""
}

func ptr[T any](v T) *T { return &v }

func doc(name string, stored confidence.State, fields confidence.FieldMap) documents.Document {
	return documents.Document{
		ID:         uuid.New(),
		Filename:   name,
		Fields:     fields,
		Confidence: stored,
	}
}

// fixture returns documents scored at a threshold of 70 with every field required:
// one consistent, one stale TRUSTED, one stale EMPTY, and one signed-off VERIFIED
// whose fields classify as NEEDS_REVISION.
func fixture() []documents.Document {
	low := confidence.FieldMap{"total": {Confidence: ptr(0.40)}}
	high := confidence.FieldMap{"total": {Confidence: ptr(0.95)}}

	return []documents.Document{
		doc("consistent.pdf", confidence.Trusted, high),
		doc("stale-trusted.pdf", confidence.Trusted, low),
		doc("stale-empty.pdf", confidence.Empty, high),
		doc("signed-off.pdf", confidence.Verified, low),
	}
}

func newRunner(store *fakeStore, pageSize int) reconcile.System {
	return reconcile.New(store, reconcile.Config{Concurrency: 2, PageSize: pageSize}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRunDryRun(t *testing.T) {
	store := &fakeStore{docs: fixture(), scoring: documents.DefaultScoring()}

	report, err := newRunner(store, 10).Run(context.Background(), reconcile.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.Scanned != 4 {
		t.Errorf("Scanned = %d, want 4", report.Scanned)
	}
	if len(report.Mismatches) != 3 {
		t.Fatalf("Mismatches = %d, want 3", len(report.Mismatches))
	}
	if report.Applied != 0 {
		t.Errorf("Applied = %d, want 0", report.Applied)
	}

	for _, m := range report.Mismatches {
		if m.Applied {
			t.Errorf("%s applied on dry run", m.Filename)
		}
		if store.state(m.DocumentID) != m.Stored {
			t.Errorf("%s changed on dry run", m.Filename)
		}
	}
}

func TestRunReportsVerifiedDivergence(t *testing.T) {
	store := &fakeStore{docs: fixture(), scoring: documents.DefaultScoring()}

	report, err := newRunner(store, 10).Run(context.Background(), reconcile.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var found bool
	for _, m := range report.Mismatches {
		if m.Filename != "signed-off.pdf" {
			if m.ManualOverride {
				t.Errorf("%s should not be a manual override", m.Filename)
			}
			continue
		}
		found = true
		if !m.ManualOverride {
			t.Error("signed-off document should be reported as a manual override")
		}
		if m.Stored != confidence.Verified || m.Computed != confidence.NeedsRevision {
			t.Errorf("stored %s computed %s", m.Stored, m.Computed)
		}
	}
	if !found {
		t.Error("signed-off document missing from mismatches")
	}
}

func TestRunApply(t *testing.T) {
	tests := []struct {
		name            string
		includeVerified bool
		wantApplied     int
		wantSignedOff   confidence.State
	}{
		{"keeps verified", false, 2, confidence.Verified},
		{"include verified", true, 3, confidence.NeedsRevision},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := fixture()
			store := &fakeStore{docs: docs, scoring: documents.DefaultScoring()}

			report, err := newRunner(store, 10).Run(context.Background(), reconcile.Options{
				Apply:           true,
				IncludeVerified: tt.includeVerified,
			})
			if err != nil {
				t.Fatalf("Run: %v", err)
			}

			if report.Applied != tt.wantApplied {
				t.Errorf("Applied = %d, want %d", report.Applied, tt.wantApplied)
			}
			if got := store.state(docs[1].ID); got != confidence.NeedsRevision {
				t.Errorf("stale-trusted = %s, want NEEDS_REVISION", got)
			}
			if got := store.state(docs[2].ID); got != confidence.Trusted {
				t.Errorf("stale-empty = %s, want TRUSTED", got)
			}
			if got := store.state(docs[3].ID); got != tt.wantSignedOff {
				t.Errorf("signed-off = %s, want %s", got, tt.wantSignedOff)
			}
		})
	}
}

func TestRunIsIdempotent(t *testing.T) {
	store := &fakeStore{docs: fixture(), scoring: documents.DefaultScoring()}
	runner := newRunner(store, 10)

	if _, err := runner.Run(context.Background(), reconcile.Options{Apply: true, IncludeVerified: true}); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	report, err := runner.Run(context.Background(), reconcile.Options{})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if len(report.Mismatches) != 0 {
		t.Errorf("Mismatches after apply = %+v", report.Mismatches)
	}
}

func TestRunUsesSnapshotThreshold(t *testing.T) {
	store := &fakeStore{
		docs:    fixture(),
		scoring: documents.Scoring{Threshold: 30},
	}

	report, err := newRunner(store, 10).Run(context.Background(), reconcile.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.Threshold != 30 {
		t.Errorf("Threshold = %v", report.Threshold)
	}
	// At 30 every fixture field passes, so only the EMPTY and VERIFIED docs diverge.
	if len(report.Mismatches) != 2 {
		t.Errorf("Mismatches = %+v", report.Mismatches)
	}
}

func TestRunPages(t *testing.T) {
	var docs []documents.Document
	for range 7 {
		docs = append(docs, doc("stale.pdf", confidence.Empty, confidence.FieldMap{"a": {Confidence: ptr(0.9)}}))
	}
	store := &fakeStore{docs: docs, scoring: documents.DefaultScoring()}

	report, err := newRunner(store, 3).Run(context.Background(), reconcile.Options{Apply: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if store.pages != 3 {
		t.Errorf("pages = %d, want 3", store.pages)
	}
	if report.Scanned != 7 || report.Applied != 7 {
		t.Errorf("Scanned = %d Applied = %d", report.Scanned, report.Applied)
	}
}

func TestRunErrors(t *testing.T) {
	boom := errors.New("connection reset")

	t.Run("list", func(t *testing.T) {
		store := &fakeStore{docs: fixture(), listErr: boom}
		if _, err := newRunner(store, 10).Run(context.Background(), reconcile.Options{}); !errors.Is(err, boom) {
			t.Errorf("err = %v, want %v", err, boom)
		}
	})

	t.Run("rescore", func(t *testing.T) {
		store := &fakeStore{docs: fixture(), scoring: documents.DefaultScoring(), rescoreErr: boom}
		if _, err := newRunner(store, 10).Run(context.Background(), reconcile.Options{Apply: true}); !errors.Is(err, boom) {
			t.Errorf("err = %v, want %v", err, boom)
		}
	})

	t.Run("removed document", func(t *testing.T) {
		store := &fakeStore{docs: fixture(), scoring: documents.DefaultScoring(), rescoreErr: documents.ErrNotFound}
		report, err := newRunner(store, 10).Run(context.Background(), reconcile.Options{Apply: true})
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if report.Applied != 0 {
			t.Errorf("Applied = %d", report.Applied)
		}
	})
}

func TestHandlerRun(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		status    int
		wantApply bool
	}{
		{"empty body", "", http.StatusOK, false},
		{"apply", `{"apply":true}`, http.StatusOK, true},
		{"malformed", `{"apply":`, http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{docs: fixture(), scoring: documents.DefaultScoring()}
			h := newRunner(store, 10).Handler()

			mux := http.NewServeMux()
			group := h.Routes()
			for _, route := range group.Routes {
				mux.HandleFunc(route.Method+" "+group.Prefix+route.Pattern, route.Handler)
			}

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reconcile", strings.NewReader(tt.body)))

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status != http.StatusOK {
				return
			}
			applied := store.state(store.docs[1].ID) == confidence.NeedsRevision
			if applied != tt.wantApply {
				t.Errorf("applied = %v, want %v", applied, tt.wantApply)
			}
		})
	}
}
