package auth

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"socialMediaAPI/internal/apperr"
	"socialMediaAPI/models"
)

// TokenFromMD extracts the bearer token from incoming gRPC metadata.
func TokenFromMD(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", errors.New("missing metadata")
	}
	vals := md.Get("authorization")
	if len(vals) == 0 {
		return "", errors.New("missing authorization")
	}
	return BearerToken(vals[0])
}

// NewUnaryAuthInterceptor returns a gRPC unary interceptor that resolves the
// Bearer token in incoming metadata to a user and injects it into the context.
// Methods listed in allowUnauthenticated bypass authentication (e.g. health
// checks and login).
func NewUnaryAuthInterceptor(resolver *Resolver, allowUnauthenticated ...string) grpc.UnaryServerInterceptor {
	allow := make(map[string]struct{}, len(allowUnauthenticated))
	for _, m := range allowUnauthenticated {
		allow[strings.TrimSpace(m)] = struct{}{}
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := allow[info.FullMethod]; ok {
			return handler(ctx, req)
		}
		tok, err := TokenFromMD(ctx)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, apperr.ErrUnauthenticated.Error())
		}
		u, err := resolver.Resolve(ctx, tok)
		switch {
		case errors.Is(err, apperr.ErrUnauthenticated):
			return nil, status.Error(codes.Unauthenticated, apperr.ErrUnauthenticated.Error())
		case errors.Is(err, apperr.ErrIdentityNotFound):
			return nil, status.Error(codes.NotFound, apperr.ErrIdentityNotFound.Error())
		case err != nil:
			return nil, status.Errorf(codes.Internal, "resolve identity: %v", err)
		}
		return handler(WithUser(ctx, u), req)
	}
}

// RequireUser ensures an authenticated user is present in context.
func RequireUser(ctx context.Context) (*models.User, error) {
	u, ok := UserFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing principal")
	}
	return u, nil
}
