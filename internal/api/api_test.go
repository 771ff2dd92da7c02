package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/docket/internal/api"
	"github.com/JaimeStill/docket/internal/config"
	"github.com/JaimeStill/docket/internal/infrastructure"
	"github.com/JaimeStill/docket/pkg/database"
	"github.com/JaimeStill/docket/pkg/middleware"
	"github.com/JaimeStill/docket/pkg/pagination"
	"github.com/JaimeStill/docket/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func validConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     "1m",
			WriteTimeout:    "15m",
			ShutdownTimeout: "30s",
		},
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "docket",
			User:            "docket",
			Password:        "docket",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Storage: storage.Config{
			ContainerName:    "documents",
			ConnectionString: azuriteConnString,
		},
		API: config.APIConfig{
			BasePath:      "/api",
			MaxUploadSize: "10MB",
			CORS: middleware.CORSConfig{
				Enabled: false,
			},
			Pagination: pagination.Config{
				DefaultPageSize: 20,
				MaxPageSize:     100,
			},
		},
		Analysis: config.AnalysisConfig{
			Secret:       "s3cret",
			Timeout:      "30s",
			SignedURLTTL: "1h",
		},
		Reconcile: config.ReconcileConfig{
			Concurrency: 4,
			PageSize:    100,
		},
		ShutdownTimeout: "30s",
		Version:         "0.1.0",
	}
}

func setupInfra(t *testing.T) *infrastructure.Infrastructure {
	t.Helper()
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}
	return infra
}

func TestNewModule(t *testing.T) {
	cfg := validConfig()
	infra := setupInfra(t)

	m, err := api.NewModule(cfg, infra)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	if m.Prefix() != "/api" {
		t.Errorf("prefix: got %s, want /api", m.Prefix())
	}
}

func TestNewRuntime(t *testing.T) {
	cfg := validConfig()
	infra := setupInfra(t)

	runtime := api.NewRuntime(cfg, infra)

	if runtime.Pagination.DefaultPageSize != 20 {
		t.Errorf("pagination default page size: got %d, want 20", runtime.Pagination.DefaultPageSize)
	}
	if runtime.Analysis.Secret != "s3cret" {
		t.Errorf("analysis secret: got %q", runtime.Analysis.Secret)
	}
	if runtime.Analysis.SignedURLTTL.Hours() != 1 {
		t.Errorf("signed url ttl: got %v", runtime.Analysis.SignedURLTTL)
	}
	if runtime.Reconcile.Concurrency != 4 {
		t.Errorf("reconcile concurrency: got %d", runtime.Reconcile.Concurrency)
	}
	if runtime.Logger == nil || runtime.Database == nil || runtime.Storage == nil || runtime.Lifecycle == nil {
		t.Error("runtime infrastructure not populated")
	}
}

func TestNewDomain(t *testing.T) {
	infra := setupInfra(t)
	domain := api.NewDomain(api.NewRuntime(validConfig(), infra))

	if domain.Settings == nil || domain.Fields == nil || domain.Documents == nil ||
		domain.Analysis == nil || domain.Reconcile == nil {
		t.Errorf("domain not fully populated: %+v", domain)
	}
}

// These requests are rejected before any database or storage call.
func TestModuleRoutes(t *testing.T) {
	infra := setupInfra(t)
	m, err := api.NewModule(validConfig(), infra)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		header map[string]string
		status int
	}{
		{"document bad id", http.MethodGet, "/api/documents/nope", "", nil, http.StatusBadRequest},
		{"confidence bad id", http.MethodGet, "/api/documents/nope/confidence", "", nil, http.StatusBadRequest},
		{"field bad id", http.MethodGet, "/api/fields/nope", "", nil, http.StatusBadRequest},
		{"settings bad body", http.MethodPut, "/api/settings", `{`, nil, http.StatusBadRequest},
		{"webhook without secret", http.MethodPost, "/api/analysis/webhook", `{}`, nil, http.StatusUnauthorized},
		{"webhook invalid payload", http.MethodPost, "/api/analysis/webhook", `{}`, map[string]string{"X-Docket-Secret": "s3cret"}, http.StatusBadRequest},
		{"analysis disabled", http.MethodPost, "/api/analysis/0b7d3c1e-8f2a-4e6b-9c5d-7a1f2e3d4c5b", "", nil, http.StatusServiceUnavailable},
		{"reconcile bad body", http.MethodPost, "/api/reconcile", `{"apply":`, nil, http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/api/workflows", "", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			m.Serve(rec, req)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}
