package routes_test

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/JaimeStill/docket/pkg/routes"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func testGroups() []routes.Group {
	return []routes.Group{
		{
			Prefix: "/documents",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "", Handler: ok},
				{Method: "GET", Pattern: "/{id}", Handler: ok},
			},
			Children: []routes.Group{
				{
					Prefix: "/{id}/fields",
					Routes: []routes.Route{
						{Method: "PATCH", Pattern: "/{name}", Handler: ok},
					},
				},
			},
		},
	}
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, testGroups()...)

	tests := []struct {
		name     string
		method   string
		path     string
		wantCode int
	}{
		{"list", "GET", "/documents", http.StatusOK},
		{"find", "GET", "/documents/123", http.StatusOK},
		{"nested child", "PATCH", "/documents/123/fields/total", http.StatusOK},
		{"wrong method", "DELETE", "/documents/123", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}
}

func TestPatterns(t *testing.T) {
	got := routes.Patterns(testGroups()...)
	want := []string{
		"GET /documents",
		"GET /documents/{id}",
		"PATCH /documents/{id}/fields/{name}",
	}

	if !slices.Equal(got, want) {
		t.Errorf("Patterns() = %v, want %v", got, want)
	}
}
