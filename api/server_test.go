package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/merrydance/logistics/registry"
	mocktour "github.com/merrydance/logistics/tour/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestNewServerRequiresRegistry(t *testing.T) {
	server, err := NewServer(testConfig(), nil, nil, nil, nil)
	require.Error(t, err)
	require.Nil(t, server)
}

func TestHealthAndReadiness(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	instances := registry.New()
	server := newTestServer(t, testConfig(), instances, nil, nil, nil)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/health", nil)
	server.router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	request = httptest.NewRequest(http.MethodGet, "/ready", nil)
	server.router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	instances.Register("ghent", mocktour.NewMockInstance(ctrl))

	recorder = httptest.NewRecorder()
	request = httptest.NewRequest(http.MethodGet, "/ready", nil)
	server.router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestListInstances(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	instances := registry.New()
	instances.Register("ghent", mocktour.NewMockInstance(ctrl))
	instances.Register("antwerp", mocktour.NewMockInstance(ctrl))
	server := newTestServer(t, testConfig(), instances, nil, nil, nil)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/instances", nil)
	server.router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	var response listInstancesResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.Equal(t, []string{"antwerp", "ghent"}, response.Instances)
}

func TestMetricsEndpoint(t *testing.T) {
	server := newTestServer(t, testConfig(), registry.New(), nil, nil, nil)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	server.router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), "http_requests_in_flight")
}

func TestCORSPreflight(t *testing.T) {
	server := newTestServer(t, testConfig(), registry.New(), nil, nil, nil)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodOptions, "/ghent/tsp", nil)
	request.Header.Set("Origin", "https://example.org")
	server.router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusNoContent, recorder.Code)
	require.Equal(t, "https://example.org", recorder.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, recorder.Header().Get("Access-Control-Allow-Headers"), "X-API-Key")
}

func TestRequestIDHeader(t *testing.T) {
	server := newTestServer(t, testConfig(), registry.New(), nil, nil, nil)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/health", nil)
	request.Header.Set(RequestIDHeader, "fixed-id")
	server.router.ServeHTTP(recorder, request)
	require.Equal(t, "fixed-id", recorder.Header().Get(RequestIDHeader))

	recorder = httptest.NewRecorder()
	request = httptest.NewRequest(http.MethodGet, "/health", nil)
	server.router.ServeHTTP(recorder, request)
	require.Len(t, recorder.Header().Get(RequestIDHeader), 36)
}
