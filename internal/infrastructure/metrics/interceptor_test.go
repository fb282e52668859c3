package metrics

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// newTestExporter registers on a private registry so tests never collide
func newTestExporter(collector *Collector) *PrometheusExporter {
	return NewPrometheusExporter(collector, prometheus.NewRegistry())
}

func TestUnaryServerInterceptor_RecordsRequest(t *testing.T) {
	collector := NewCollector()

	interceptor := UnaryServerInterceptor(collector, nil, nil)

	// Create mock handler that succeeds
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return "response", nil
	}

	info := &grpc.UnaryServerInfo{
		FullMethod: "/erpr.v1.AccessService/TestMethod",
	}

	// Call interceptor
	_, err := interceptor(context.Background(), "request", info, handler)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Check that request was recorded
	apiMetrics := collector.GetAPIMetrics()
	if count, ok := apiMetrics.RequestCounts["/erpr.v1.AccessService/TestMethod"]; !ok || count != 1 {
		t.Errorf("expected request count 1 for /erpr.v1.AccessService/TestMethod, got %d", count)
	}
}

func TestUnaryServerInterceptor_RecordsDuration(t *testing.T) {
	collector := NewCollector()

	interceptor := UnaryServerInterceptor(collector, nil, nil)

	// Create mock handler that succeeds
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return "response", nil
	}

	info := &grpc.UnaryServerInfo{
		FullMethod: "/erpr.v1.AccessService/DurationMethod",
	}

	// Call interceptor
	_, err := interceptor(context.Background(), "request", info, handler)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Check that duration was recorded (should be > 0)
	apiMetrics := collector.GetAPIMetrics()
	if _, ok := apiMetrics.TotalDurationSeconds["/erpr.v1.AccessService/DurationMethod"]; !ok {
		t.Error("expected duration to be recorded for /erpr.v1.AccessService/DurationMethod")
	}
}

func TestUnaryServerInterceptor_RecordsError(t *testing.T) {
	collector := NewCollector()

	interceptor := UnaryServerInterceptor(collector, nil, nil)

	// Create mock handler that returns an error
	expectedErr := errors.New("test error")
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, expectedErr
	}

	info := &grpc.UnaryServerInfo{
		FullMethod: "/erpr.v1.AccessService/ErrorMethod",
	}

	// Call interceptor
	_, err := interceptor(context.Background(), "request", info, handler)
	if err != expectedErr {
		t.Fatalf("expected error %v, got %v", expectedErr, err)
	}

	// Check that error was recorded
	apiMetrics := collector.GetAPIMetrics()
	if count, ok := apiMetrics.ErrorCounts["/erpr.v1.AccessService/ErrorMethod"]; !ok || count != 1 {
		t.Errorf("expected error count 1 for /erpr.v1.AccessService/ErrorMethod, got %d", count)
	}
}

func TestUnaryServerInterceptor_NoErrorNotRecorded(t *testing.T) {
	collector := NewCollector()

	interceptor := UnaryServerInterceptor(collector, nil, nil)

	// Create mock handler that succeeds
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return "response", nil
	}

	info := &grpc.UnaryServerInfo{
		FullMethod: "/erpr.v1.AccessService/SuccessMethod",
	}

	// Call interceptor
	_, err := interceptor(context.Background(), "request", info, handler)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Check that no error was recorded
	apiMetrics := collector.GetAPIMetrics()
	if count, ok := apiMetrics.ErrorCounts["/erpr.v1.AccessService/SuccessMethod"]; ok && count > 0 {
		t.Errorf("expected no error count for /erpr.v1.AccessService/SuccessMethod, got %d", count)
	}
}

func TestUnaryServerInterceptor_NilExporter(t *testing.T) {
	collector := NewCollector()

	// Create interceptor with nil exporter
	interceptor := UnaryServerInterceptor(collector, nil, nil)

	// Create mock handler that succeeds
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return "response", nil
	}

	info := &grpc.UnaryServerInfo{
		FullMethod: "/erpr.v1.AccessService/NilExporterMethod",
	}

	// Call interceptor - should not panic with nil exporter
	_, err := interceptor(context.Background(), "request", info, handler)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Collector should still record
	apiMetrics := collector.GetAPIMetrics()
	if count, ok := apiMetrics.RequestCounts["/erpr.v1.AccessService/NilExporterMethod"]; !ok || count != 1 {
		t.Errorf("expected request count 1, got %d", count)
	}
}

func TestUnaryServerInterceptor_MultipleRequests(t *testing.T) {
	collector := NewCollector()

	interceptor := UnaryServerInterceptor(collector, nil, nil)

	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return "response", nil
	}

	info := &grpc.UnaryServerInfo{
		FullMethod: "/erpr.v1.AccessService/MultiMethod",
	}

	// Call interceptor multiple times
	for i := 0; i < 5; i++ {
		_, err := interceptor(context.Background(), "request", info, handler)
		if err != nil {
			t.Fatalf("unexpected error on call %d: %v", i, err)
		}
	}

	// Check that all requests were recorded
	apiMetrics := collector.GetAPIMetrics()
	if count, ok := apiMetrics.RequestCounts["/erpr.v1.AccessService/MultiMethod"]; !ok || count != 5 {
		t.Errorf("expected request count 5, got %d", count)
	}
}

func TestUnaryServerInterceptor_WithPrometheusExporter(t *testing.T) {
	collector := NewCollector()
	exporter := newTestExporter(collector)

	interceptor := UnaryServerInterceptor(collector, exporter, nil)

	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return "response", nil
	}

	info := &grpc.UnaryServerInfo{
		FullMethod: "/erpr.v1.AccessService/PrometheusMethod",
	}

	// Call interceptor
	_, err := interceptor(context.Background(), "request", info, handler)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Verify collector recorded the request
	apiMetrics := collector.GetAPIMetrics()
	if count, ok := apiMetrics.RequestCounts["/erpr.v1.AccessService/PrometheusMethod"]; !ok || count != 1 {
		t.Errorf("expected request count 1, got %d", count)
	}

	if got := testutil.ToFloat64(exporter.grpcRequests.WithLabelValues("/erpr.v1.AccessService/PrometheusMethod")); got != 1 {
		t.Errorf("expected exported request count 1, got %v", got)
	}
}

func TestUnaryServerInterceptor_LogsFailures(t *testing.T) {
	collector := NewCollector()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	interceptor := UnaryServerInterceptor(collector, newTestExporter(collector), logger)
	info := &grpc.UnaryServerInfo{FullMethod: "/erpr.v1.AccessService/SavePermissions"}

	for _, code := range []codes.Code{codes.PermissionDenied, codes.Internal} {
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return nil, status.Error(code, "failed")
		}
		if _, err := interceptor(context.Background(), "request", info, handler); status.Code(err) != code {
			t.Fatalf("expected code %v, got %v", code, err)
		}
	}

	if count := collector.GetAPIMetrics().ErrorCounts[info.FullMethod]; count != 2 {
		t.Errorf("expected error count 2, got %d", count)
	}
}
