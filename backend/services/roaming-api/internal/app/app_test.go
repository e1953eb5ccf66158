package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"chargenet/backend/services/roaming-api/internal/auth"
	"chargenet/backend/services/roaming-api/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)

	cfg := &config.Config{ServiceName: "roaming-api"}
	cfg.HTTP.Port = "0"
	cfg.Commands.Timeout = time.Second
	cfg.Status.HistorySize = 10
	cfg.Reservations.ExpiryInterval = 10 * time.Millisecond
	cfg.Events.Enabled = true
	cfg.Events.PingInterval = time.Minute
	cfg.JWT.Secret = "test-secret"
	cfg.Seed.File = filepath.Join(filepath.Dir(file), "..", "..", "configs", "seed.yaml")
	return cfg
}

func TestAppServesSeededNetwork(t *testing.T) {
	a, err := New(context.Background(), testConfig(t), zaptest.NewLogger(t))
	require.NoError(t, err)
	defer a.Close()

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/RNs/Prod/EVSEs", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3", rec.Header().Get("X-ExpectedTotalNumberOfItems"))
	assert.Equal(t, "roaming-api", rec.Header().Get("Server"))

	rec = httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest("RESERVE", "/RNs/Prod/EVSEs/DE*GEF*E1",
		strings.NewReader(`{"eMAId":"DE*ICE*C12345678*X"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	token, err := auth.NewTokenService("test-secret", time.Minute).GenerateToken("DE*GEF", "operator")
	require.NoError(t, err)
	req := httptest.NewRequest("RESERVE", "/RNs/Prod/EVSEs/DE*GEF*E1",
		strings.NewReader(`{"eMAId":"DE*ICE*C12345678*X"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, a.Registry().All(), 1)

	rec = httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAppRunStopsWithContext(t *testing.T) {
	cfg := testConfig(t)
	cfg.Seed.File = ""
	a, err := New(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
