package tracing

import (
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestSafeErrorRedactsBearerToken(t *testing.T) {
	err := SafeError(errors.New("upstream rejected Bearer eyJhbGciOi.secret"))
	if err.Error() != "upstream rejected bearer [redacted]" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if SafeError(nil) != nil {
		t.Fatalf("expected nil error to stay nil")
	}
}

func TestSafeAttributesDropsPersonalData(t *testing.T) {
	attrs := SafeAttributes(
		attribute.String("http.route", "/api/events"),
		attribute.String("email", "driver@replate.dev"),
	)
	if len(attrs) != 1 || attrs[0].Key != "http.route" {
		t.Fatalf("unexpected attributes %v", attrs)
	}
}
