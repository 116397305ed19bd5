package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idcheck/internal/audit"
	"idcheck/internal/bgc"
	"idcheck/internal/bgc/handler"
	"idcheck/internal/bgc/service"
	"idcheck/internal/platform/config"
	"idcheck/internal/platform/metrics"
	"idcheck/internal/platform/middleware"
	"idcheck/pkg/testutil"
)

func TestNewCache(t *testing.T) {
	cache, purger, err := newCache(context.Background(), config.Cache{Backend: config.CacheNone}, nil, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, cache)
	assert.Nil(t, purger)

	cache, purger, err = newCache(context.Background(), config.Cache{Backend: config.CacheMemory}, nil, nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, cache)
	assert.Nil(t, purger, "memory entries expire lazily")

	_, _, err = newCache(context.Background(), config.Cache{Backend: "etcd"}, nil, nil, nil)
	assert.Error(t, err)
}

func TestNewAuditStoreDefaultsToMemory(t *testing.T) {
	assert.IsType(t, &audit.InMemoryStore{}, newAuditStore(nil))
	assert.Equal(t, "memory", auditSinkName(nil))
}

func TestRouter(t *testing.T) {
	conns, err := newConnections(config.BGC{Connections: []config.BGCConnection{{
		Name: bgc.DefaultConnection, Host: "http://bgc.invalid", User: "u", Password: "p", Account: "a",
	}}})
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(bgc.New(conns, bgc.WithLogger(log)))
	router := newRouter(log, metrics.NewWithRegistry(prometheus.NewRegistry()), handler.New(svc, log), health(nil, nil))

	testutil.Given(t, "the HTTP router", func(t *testing.T) {
		testutil.When(t, "calling GET /healthz", func(t *testing.T) {
			rr := testutil.DoRequest(router, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			testutil.Then(t, "it reports healthy with a request ID", func(t *testing.T) {
				assert.Equal(t, http.StatusOK, rr.Code)
				assert.JSONEq(t, `{"status":"OK","checks":{}}`, rr.Body.String())
				assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
			})
		})

		testutil.When(t, "calling GET /metrics", func(t *testing.T) {
			rr := testutil.DoRequest(router, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			testutil.Then(t, "it serves the exposition format", func(t *testing.T) {
				assert.Equal(t, http.StatusOK, rr.Code)
			})
		})

		testutil.When(t, "posting an invalid validate request", func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/bgc/validate", map[string]string{"ssn": "x"})
			rr := testutil.DoRequest(router, req)

			testutil.Then(t, "it is rejected before reaching the vendor", func(t *testing.T) {
				testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
			})
		})
	})
}
