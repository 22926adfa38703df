package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func TestInitIsIdempotent(t *testing.T) {
	Init()
	Init() // second call must not re-register collectors

	ObservePage("ok")
	ObserveBookExtracted()
	ObserveRun("completed")
	ObserveRowsPersisted(3)
	ObserveRowsPersisted(0)
	ObserveHTTPRequest(http.MethodGet, "/healthz", http.StatusOK, 5*time.Millisecond)
}

func TestMiddlewareRecordsRequests(t *testing.T) {
	Init()

	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ping")
	if err != nil {
		t.Fatalf("GET /ping error = %v", err)
	}
	resp.Body.Close()

	metricsResp, err := http.Get(srv.URL + "/ping")
	if err != nil {
		t.Fatalf("second GET error = %v", err)
	}
	metricsResp.Body.Close()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Error("expected http_requests_total in metrics exposition")
	}
}
