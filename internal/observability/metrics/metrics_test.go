package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("event_type", "user.created"),
		attribute.String("org_id", "org_123"),
		attribute.String("outcome", "ok"),
	)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	for _, attr := range attrs {
		if attr.Key == "org_id" {
			t.Fatalf("expected org_id to be dropped")
		}
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordIdPEvent(context.Background(), "user.created", "ok")
	m.RecordManagementCall(context.Background(), "create_organization", "error")
	m.RecordHookExecution(context.Background(), "post_login_claims")
}

func TestNewWithNoopProvider(t *testing.T) {
	m, err := New(Config{ServiceName: "replate-test"}, noop.NewMeterProvider())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.RecordIdPEvent(context.Background(), "organization.deleted", "ok")
}

func TestGinMiddlewareCountsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m, err := NewHTTPMetrics(reg)
	if err != nil {
		t.Fatalf("NewHTTPMetrics: %v", err)
	}

	r := gin.New()
	r.Use(GinMiddleware(m))
	r.GET("/api/jobs/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/jobs/1", "/api/jobs/2"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	got := testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/api/jobs/:id", "200"))
	if got != 2 {
		t.Fatalf("expected 2 requests recorded, got %v", got)
	}
}
