package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/v1/books/search", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	})
	r.Post("/v1/books/search", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	r.Get("/v1/books/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func serve(t *testing.T, r http.Handler, method, path string) int {
	t.Helper()
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(method, path, http.NoBody))
	return rr.Code
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	r := newRouter()
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/v1/books/{id}", "503"))

	serve(t, r, "GET", "/v1/books/dune")
	serve(t, r, "GET", "/v1/books/solaris")

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/v1/books/{id}", "503"))
	if got-before != 2 {
		t.Errorf("expected 2 requests under the route pattern, got %v", got-before)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected duration observations")
	}
}

func TestMiddleware_RecordsStatus(t *testing.T) {
	r := newRouter()

	tests := []struct {
		method string
		status string
	}{
		{"GET", "200"},
		{"POST", "400"},
	}
	for _, tc := range tests {
		t.Run(tc.method, func(t *testing.T) {
			before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(tc.method, "/v1/books/search", tc.status))
			serve(t, r, tc.method, "/v1/books/search")
			after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(tc.method, "/v1/books/search", tc.status))
			if after-before != 1 {
				t.Errorf("expected one %s request with status %s, got %v", tc.method, tc.status, after-before)
			}
		})
	}
}

func TestMiddleware_UnmatchedRoutesShareOneLabel(t *testing.T) {
	r := newRouter()
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", unmatchedRoute, "404"))

	if code := serve(t, r, "GET", "/wp-admin/setup.php"); code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
	serve(t, r, "GET", "/.env")

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", unmatchedRoute, "404"))
	if got-before != 2 {
		t.Errorf("expected 2 unmatched requests, got %v", got-before)
	}
}

func TestMiddleware_WithoutRouter(t *testing.T) {
	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", unmatchedRoute, "204"))

	serve(t, h, "GET", "/anything")

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", unmatchedRoute, "204"))
	if got-before != 1 {
		t.Errorf("expected 1 request without a route context, got %v", got-before)
	}
}

func TestMiddleware_InFlightReturnsToZero(t *testing.T) {
	var during float64
	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		during = testutil.ToFloat64(httpInFlight)
		w.WriteHeader(http.StatusOK)
	}))

	serve(t, h, "GET", "/")

	if during < 1 {
		t.Errorf("expected at least one in-flight request while serving, got %v", during)
	}
	if v := testutil.ToFloat64(httpInFlight); v != 0 {
		t.Errorf("expected no in-flight requests after serving, got %v", v)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", unmatchedRoute},
		{"/*", unmatchedRoute},
		{"/v1/books/search", "/v1/books/search"},
		{"/health", "/health"},
	}
	for _, tc := range tests {
		if got := normalizePath(tc.input); got != tc.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
