package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"tailor-backend/internal/shared/storage/object/local"
)

type stubGenerator struct {
	pingErr error
}

func (g stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return "letter", nil
}

func (g stubGenerator) Ping(ctx context.Context) error { return g.pingErr }

func TestReadinessPassesWithHealthyDependencies(t *testing.T) {
	svc := &Service{
		Store:     local.New(t.TempDir()),
		Generator: stubGenerator{},
	}

	ready, checks := svc.Readiness(context.Background())
	if !ready {
		t.Fatalf("expected ready, got checks %+v", checks)
	}
	if len(checks) != 2 {
		t.Fatalf("expected store and generator checks, got %+v", checks)
	}
	for _, check := range checks {
		if !check.Ready {
			t.Fatalf("expected all checks ready, got %+v", check)
		}
	}
}

func TestReadinessToleratesDownGenerator(t *testing.T) {
	svc := &Service{
		Store:     local.New(t.TempDir()),
		Generator: stubGenerator{pingErr: errors.New("connection refused")},
	}

	ready, checks := svc.Readiness(context.Background())
	if !ready {
		t.Fatal("a down generator must not fail readiness")
	}
	var generatorCheck *Check
	for i := range checks {
		if checks[i].Name == "generator" {
			generatorCheck = &checks[i]
		}
	}
	if generatorCheck == nil || generatorCheck.Ready {
		t.Fatalf("expected unready generator check, got %+v", checks)
	}
	if generatorCheck.Error == "" {
		t.Fatal("expected generator check to carry the error")
	}
}

func TestReadyzEndpointReportsChecks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(&Service{
		Store:     local.New(t.TempDir()),
		Generator: stubGenerator{},
	})

	router := gin.New()
	handler.RegisterRoutes(router)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var payload struct {
		Ready  bool    `json:"ready"`
		Checks []Check `json:"checks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !payload.Ready || len(payload.Checks) == 0 {
		t.Fatalf("unexpected payload: %+v", payload)
	}

	live := httptest.NewRecorder()
	router.ServeHTTP(live, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if live.Code != http.StatusOK {
		t.Fatalf("expected healthz 200, got %d", live.Code)
	}
}
