package grpcserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"socialMediaAPI/internal/auth"
	"socialMediaAPI/internal/config"
	"socialMediaAPI/internal/logging"
	"socialMediaAPI/internal/service"
	"socialMediaAPI/repository"
)

const (
	healthCheckMethod = "/grpc.health.v1.Health/Check"
	defaultPageSize   = repository.DefaultPageSize
)

// NewGRPCServer builds a grpc.Server with SocialService and the standard
// health service registered. Every unary call except Register, Login and
// the health check must carry a bearer token in the authorization metadata.
func NewGRPCServer(svc *service.Service, logger *slog.Logger) *grpc.Server {
	if logger == nil {
		logger = logging.Discard()
	}
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		loggingInterceptor(logger),
		auth.NewUnaryAuthInterceptor(svc.Resolver(), RegisterMethod, LoginMethod, healthCheckMethod),
	))
	srv.RegisterService(&SocialServiceDesc, NewServer(svc, logger))

	hs := health.NewServer()
	hs.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	return srv
}

// StartGRPC starts the gRPC server on cfg.GRPC.Address and returns a shutdown function.
func StartGRPC(cfg *config.Config, svc *service.Service, logger *slog.Logger) (func(context.Context) error, error) {
	if cfg == nil {
		panic("config is required")
	}
	if logger == nil {
		logger = logging.Discard()
	}

	if cfg.GRPC.Address == "" {
		return nil, errors.New("grpc address is empty")
	}

	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return nil, err
	}

	// Plaintext; terminate TLS in front of the service.
	srv := NewGRPCServer(svc, logger)

	go func() {
		if err := srv.Serve(lis); err != nil {
			logger.Error("grpc serve", "err", err)
		}
	}()

	return func(ctx context.Context) error {
		done := make(chan struct{})
		go func() { srv.GracefulStop(); close(done) }()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			srv.Stop()
			return ctx.Err()
		}
	}, nil
}

func loggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.InfoContext(ctx, "grpc request",
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration", time.Since(start),
		)
		return resp, err
	}
}
