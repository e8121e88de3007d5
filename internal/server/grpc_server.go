package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/oggyb/roommate-match/internal/config"
	"github.com/oggyb/roommate-match/internal/logger"
)

// GRPCServer wraps a grpc.Server with its health service.
type GRPCServer struct {
	Server *grpc.Server
	Health *health.Server
	log    *slog.Logger
}

// NewGRPCServer builds a gRPC server and registers all provided services,
// the standard health service and reflection.
func NewGRPCServer(log *slog.Logger, registrars ...Registrar) *GRPCServer {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(LoggingInterceptor(log)),
	)

	// register all services
	for _, r := range registrars {
		r.Register(grpcServer)
	}

	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)

	// enable reflection for easier debugging with grpcurl
	reflection.Register(grpcServer)

	return &GRPCServer{Server: grpcServer, Health: hs, log: log}
}

// Serve marks every service SERVING and blocks serving lis.
func (s *GRPCServer) Serve(lis net.Listener) error {
	s.Health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	for name := range s.Server.GetServiceInfo() {
		s.Health.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
	}
	return s.Server.Serve(lis)
}

// Shutdown flips health to NOT_SERVING and drains in-flight calls. If ctx
// expires first the server is stopped hard.
func (s *GRPCServer) Shutdown(ctx context.Context) {
	s.Health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.Server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.log.Warn("graceful stop timed out, forcing stop")
		s.Server.Stop()
	}
}

// Listen opens the TCP listener for cfg.
func Listen(cfg *config.Config) (net.Listener, error) {
	addr := cfg.Addr()
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return lis, nil
}

// LoggingInterceptor stores a per-call logger in the context and logs the
// outcome of every unary call.
func LoggingInterceptor(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		l := log.With("method", info.FullMethod)

		resp, err := handler(logger.NewContext(ctx, l), req)

		code := status.Code(err)
		attrs := []any{"code", code.String(), "duration_ms", logger.DurationMS(start)}
		if err != nil {
			l.Warn("rpc failed", append(attrs, "err", err)...)
		} else {
			l.Debug("rpc handled", attrs...)
		}
		return resp, err
	}
}
