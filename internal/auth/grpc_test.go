package auth

import (
	"context"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"socialMediaAPI/internal/testutil"
)

func TestRequireUser(t *testing.T) {
	if _, err := RequireUser(context.Background()); status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}
	r := newTestResolver(t)
	u, _ := r.Users.GetByUsername(context.Background(), "alice")
	got, err := RequireUser(WithUser(context.Background(), u))
	if err != nil || got.ID != u.ID {
		t.Fatalf("RequireUser: %+v %v", got, err)
	}
}

func TestUnaryAuthInterceptor(t *testing.T) {
	r := newTestResolver(t)
	interceptor := NewUnaryAuthInterceptor(r, "/health")
	protected := &grpc.UnaryServerInfo{FullMethod: "/svc/Op"}

	// 1) Allowlisted path: no header -> handler executes, no user
	hCalled := false
	_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/health"}, func(ctx context.Context, req any) (any, error) {
		hCalled = true
		if _, ok := UserFromContext(ctx); ok {
			t.Fatalf("expected no user on allowlisted path")
		}
		return 123, nil
	})
	if err != nil || !hCalled {
		t.Fatalf("allowlisted handler err=%v called=%v", err, hCalled)
	}

	// 2) Valid token -> user injected
	tok, _ := r.Tokens.Issue("alice")
	_, err = interceptor(testutil.CtxWithBearer(context.Background(), tok), nil, protected, func(ctx context.Context, req any) (any, error) {
		u, ok := UserFromContext(ctx)
		if !ok || u.Username != "alice" {
			t.Fatalf("user not injected: %+v ok=%v", u, ok)
		}
		return nil, nil
	})
	if err != nil {
		t.Fatalf("interceptor auth path: %v", err)
	}

	never := func(ctx context.Context, req any) (any, error) {
		t.Fatalf("handler must not run")
		return nil, nil
	}

	// 3) Missing, malformed and expired tokens share one outcome.
	expired := testutil.MintToken(t, testSecret, "alice", time.Now().Add(-time.Minute))
	var msgs []string
	for name, ctx := range map[string]context.Context{
		"missing":   context.Background(),
		"malformed": testutil.CtxWithBearer(context.Background(), "xyz"),
		"expired":   testutil.CtxWithBearer(context.Background(), expired),
	} {
		_, err := interceptor(ctx, nil, protected, never)
		st, _ := status.FromError(err)
		if st.Code() != codes.Unauthenticated {
			t.Fatalf("%s: code = %v", name, st.Code())
		}
		msgs = append(msgs, st.Message())
	}
	for _, m := range msgs[1:] {
		if m != msgs[0] {
			t.Fatalf("unauthenticated messages differ: %q", msgs)
		}
	}

	// 4) Valid token for a vanished user -> NotFound
	ghost, _ := r.Tokens.Issue("ghost")
	if _, err := interceptor(testutil.CtxWithBearer(context.Background(), ghost), nil, protected, never); status.Code(err) != codes.NotFound {
		t.Fatalf("ghost: want NotFound, got %v", err)
	}
}
