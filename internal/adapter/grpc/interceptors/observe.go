package interceptors

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/seu-repo/quest-board/internal/observability/telemetry"
)

// Observe records request count and latency per method and logs each call.
// Health probes arrive every few seconds, so their successes stay at debug.
func Observe(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		elapsed := time.Since(start)

		code := status.Code(err)
		telemetry.GRPCRequestsTotal.WithLabelValues(info.FullMethod, code.String()).Inc()
		telemetry.GRPCLatency.WithLabelValues(info.FullMethod).Observe(elapsed.Seconds())

		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.Duration("duration", elapsed),
			zap.String("code", code.String()),
		}
		switch {
		case err != nil && code != codes.Canceled:
			log.Error("gRPC call failed", append(fields, zap.Error(err))...)
		case strings.HasPrefix(info.FullMethod, "/grpc.health."):
			log.Debug("gRPC health probe", fields...)
		default:
			log.Info("gRPC call", fields...)
		}
		return resp, err
	}
}
