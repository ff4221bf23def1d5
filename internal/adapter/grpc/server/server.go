package server

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/seu-repo/quest-board/internal/adapter/grpc/interceptors"
	healthsvc "github.com/seu-repo/quest-board/internal/service/health"
)

// ServiceName is the health service name reported for the board API.
const ServiceName = "questboard.v1.Board"

type GRPCServer struct {
	server *grpc.Server
	health *health.Server
	checks *healthsvc.Service
	log    *zap.Logger
}

// NewGRPCServer exposes the standard gRPC health protocol backed by the
// readiness checks, with reflection for grpcurl.
func NewGRPCServer(checks *healthsvc.Service, log *zap.Logger) *GRPCServer {
	s := grpc.NewServer(
		grpc.UnaryInterceptor(interceptors.Observe(log)),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)

	// Enable reflection for debugging (e.g. grpcurl)
	reflection.Register(s)

	return &GRPCServer{
		server: s,
		health: hs,
		checks: checks,
		log:    log,
	}
}

// Watch refreshes the serving status from the readiness checks until ctx
// is cancelled.
func (s *GRPCServer) Watch(ctx context.Context, interval time.Duration) {
	s.refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *GRPCServer) refresh(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if !s.checks.Ready(ctx).Ready {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

func (s *GRPCServer) Serve(lis net.Listener) error {
	return s.server.Serve(lis)
}

func (s *GRPCServer) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}
