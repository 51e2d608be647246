package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/reginaldodesouza61/listas-compras/internal/auth"
	"github.com/reginaldodesouza61/listas-compras/internal/metrics"
	"github.com/reginaldodesouza61/listas-compras/internal/models"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{"valid", "Bearer abc.def", "abc.def", nil},
		{"missing", "", "", auth.ErrMissingToken},
		{"wrong scheme", "Basic abc", "", auth.ErrInvalidToken},
		{"no token", "Bearer", "", auth.ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BearerToken(tt.header)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	token, err := jwtManager.Generate(&models.User{ID: "u1", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	ctx, err := Authenticate(context.Background(), jwtManager, h)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got := GetIdentity(ctx); got.ID != "u1" || got.Email != "ana@example.com" {
		t.Errorf("unexpected identity %+v", got)
	}
	if GetToken(ctx) != token {
		t.Error("token not stored in context")
	}

	if GetIdentity(context.Background()) != (models.Identity{}) {
		t.Error("expected anonymous identity for bare context")
	}
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	r := gin.New()
	r.Use(RequestLogger(m))
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() != "listas_rpc_duration_seconds" {
			continue
		}
		for _, metric := range f.GetMetric() {
			labels := map[string]string{}
			for _, l := range metric.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["procedure"] == "/healthz" && labels["code"] == "200" {
				found = true
			}
		}
	}
	if !found {
		t.Error("expected request duration recorded for /healthz")
	}
}
