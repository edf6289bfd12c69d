package api

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func newMiddlewareRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(RequestTracingMiddleware())
	handlers = append(handlers, func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/ping", handlers...)
	return router
}

func TestAPIKeyMiddleware(t *testing.T) {
	router := newMiddlewareRouter(APIKeyMiddleware([]string{"alpha", "beta"}))

	testCases := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{name: "missing key", status: http.StatusForbidden},
		{name: "unknown key", header: "gamma", status: http.StatusForbidden},
		{name: "header key", header: "alpha", status: http.StatusOK},
		{name: "query key", query: "?apikey=beta", status: http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, "/ping"+tc.query, nil)
			if tc.header != "" {
				request.Header.Set(APIKeyHeader, tc.header)
			}
			router.ServeHTTP(recorder, request)
			require.Equal(t, tc.status, recorder.Code)
		})
	}
}

func TestAPIKeyMiddlewareDisabled(t *testing.T) {
	router := newMiddlewareRouter(APIKeyMiddleware(nil))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
}

func newTestRateLimiter(t *testing.T) *RateLimiter {
	limiter := NewRateLimiter(RateLimiterConfig{
		IPRateLimit:     1,
		IPBurstLimit:    2,
		KeyRateLimit:    1,
		KeyBurstLimit:   3,
		CleanupInterval: time.Minute,
	})
	t.Cleanup(limiter.Stop)
	return limiter
}

func serveStatuses(router *gin.Engine, count int, apiKey func(i int) string) []int {
	statuses := make([]int, 0, count)
	for i := 0; i < count; i++ {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/ping", nil)
		if key := apiKey(i); key != "" {
			request.Header.Set(APIKeyHeader, key)
		}
		router.ServeHTTP(recorder, request)
		statuses = append(statuses, recorder.Code)
	}
	return statuses
}

func noKey(int) string { return "" }

func TestRateLimiterMiddleware(t *testing.T) {
	testCases := []struct {
		name          string
		keys          []string
		apiKey        func(i int) string
		count         int
		checkStatuses func(t *testing.T, statuses []int, limiter *RateLimiter)
	}{
		{
			name:   "NoKey",
			apiKey: noKey,
			count:  3,
			checkStatuses: func(t *testing.T, statuses []int, limiter *RateLimiter) {
				require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
			},
		},
		{
			name: "RotatingUnverifiedKeys",
			apiKey: func(i int) string {
				return fmt.Sprintf("junk-%d", i)
			},
			count: 50,
			checkStatuses: func(t *testing.T, statuses []int, limiter *RateLimiter) {
				allowed := 0
				for _, status := range statuses {
					if status == http.StatusOK {
						allowed++
					}
				}
				require.Equal(t, 2, allowed)
				require.Equal(t, 1, limiter.visitorCount())
			},
		},
		{
			name: "AcceptedKeyOwnBucket",
			keys: []string{"alpha"},
			apiKey: func(int) string {
				return "alpha"
			},
			count: 4,
			checkStatuses: func(t *testing.T, statuses []int, limiter *RateLimiter) {
				require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
				require.Equal(t, 1, limiter.visitorCount())
			},
		},
		{
			name: "RejectedKeyNeverTracked",
			keys: []string{"alpha"},
			apiKey: func(i int) string {
				return fmt.Sprintf("junk-%d", i)
			},
			count: 5,
			checkStatuses: func(t *testing.T, statuses []int, limiter *RateLimiter) {
				for _, status := range statuses {
					require.Equal(t, http.StatusForbidden, status)
				}
				require.Equal(t, 0, limiter.visitorCount())
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			limiter := newTestRateLimiter(t)
			router := newMiddlewareRouter(APIKeyMiddleware(tc.keys), limiter.Middleware())

			statuses := serveStatuses(router, tc.count, tc.apiKey)
			tc.checkStatuses(t, statuses, limiter)
		})
	}
}

func TestTimeoutMiddleware(t *testing.T) {
	router := gin.New()
	router.GET("/slow", TimeoutMiddleware(10*time.Millisecond), func(ctx *gin.Context) {
		<-ctx.Request.Context().Done()
	})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/slow", nil))
	require.Equal(t, http.StatusGatewayTimeout, recorder.Code)
}

func TestRedactQuery(t *testing.T) {
	testCases := []struct {
		name  string
		query string
		want  string
	}{
		{name: "Empty", query: "", want: ""},
		{name: "NoKey", query: "loc=51.0,4.0&closed=true", want: "loc=51.0,4.0&closed=true"},
		{name: "Key", query: "loc=51.0,4.0&apikey=secret&closed=true", want: "loc=51.0,4.0&apikey=REDACTED&closed=true"},
		{name: "UpperCase", query: "APIKEY=secret", want: "apikey=REDACTED"},
		{name: "Repeated", query: "apikey=a&apikey=b", want: "apikey=REDACTED&apikey=REDACTED"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := redactQuery(tc.query)
			require.Equal(t, tc.want, got)
			require.NotContains(t, got, "secret")
		})
	}
}

func TestRequestLoggingRedactsAPIKey(t *testing.T) {
	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = previous })

	router := newMiddlewareRouter(RequestLoggingMiddleware(), APIKeyMiddleware([]string{"secret"}))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ping?apikey=secret", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	require.Contains(t, buf.String(), "apikey=REDACTED")
	require.NotContains(t, buf.String(), "secret")
}
