package metrics

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// UnaryServerInterceptor returns a gRPC interceptor that records metrics for each request.
// exporter and logger may be nil.
func UnaryServerInterceptor(collector *Collector, exporter *PrometheusExporter, logger logrus.FieldLogger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		method := info.FullMethod

		collector.RecordRequest(method)
		if exporter != nil {
			exporter.RecordRequest(method)
		}

		resp, err := handler(ctx, req)

		duration := time.Since(start).Seconds()
		collector.RecordDuration(method, duration)
		if exporter != nil {
			exporter.RecordDuration(method, duration)
		}

		if err != nil {
			collector.RecordError(method)
			if exporter != nil {
				exporter.RecordError(method)
			}
			if logger != nil {
				code := status.Code(err)
				entry := logger.WithFields(logrus.Fields{"method": method, "code": code.String()})
				// Denials and bad input are expected outcomes
				if code == codes.Internal || code == codes.Unavailable || code == codes.Unknown {
					entry.WithError(err).Error("request failed")
				} else {
					entry.Debug(err.Error())
				}
			}
		}

		return resp, err
	}
}
