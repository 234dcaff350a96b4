package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/state", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Put("/order", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	return r
}

func TestMiddleware_LabelsByRouteAndStatus(t *testing.T) {
	h := newRouter()

	tests := []struct {
		method string
		path   string
		route  string
		status string
	}{
		{"GET", "/state", "/state", "200"},
		{"PUT", "/order", "/order", "400"},
		{"GET", "/nowhere", RouteUnmatched, "404"},
	}

	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			counter := HTTPRequestsTotal.WithLabelValues(tc.method, tc.route, tc.status)
			before := testutil.ToFloat64(counter)

			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tc.method, tc.path, http.NoBody))

			if got := testutil.ToFloat64(counter); got != before+1 {
				t.Errorf("requests_total{%s,%s,%s} = %v, want %v", tc.method, tc.route, tc.status, got, before+1)
			}
		})
	}

	if testutil.CollectAndCount(HTTPRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds observations")
	}
}

func TestMiddleware_OutsideChi(t *testing.T) {
	h := Middleware()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	counter := HTTPRequestsTotal.WithLabelValues("GET", RouteUnmatched, "200")
	before := testutil.ToFloat64(counter)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/x", http.NoBody))

	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Errorf("requests_total = %v, want %v", got, before+1)
	}
}

func TestRegisterHTTPMetrics_Idempotent(t *testing.T) {
	RegisterHTTPMetrics()
	RegisterHTTPMetrics()
}
