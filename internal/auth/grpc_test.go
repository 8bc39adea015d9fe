package auth

import (
	"context"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"clinicAppointments/internal/testutil"
	"clinicAppointments/models"
	"clinicAppointments/repository"
)

func TestRequireRole(t *testing.T) {
	ctx := WithPrincipal(context.Background(), &Principal{UserID: 1, Login: "pat", Role: models.RolePatient})
	if _, err := RequireRole(ctx, models.RolePatient); err != nil {
		t.Fatalf("RequireRole patient: %v", err)
	}
	_, err := RequireRole(ctx, models.RoleDoctor)
	if status.Code(err) != codes.PermissionDenied {
		t.Fatalf("expected PermissionDenied, got %v", err)
	}
	if _, err := RequirePrincipal(context.Background()); status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated without principal, got %v", err)
	}
}

func TestRequireAdmin_WithDBRoleCheck(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "authadmin")
	users := repository.NewUserRepository(d)
	ctx := context.Background()

	u, err := users.Create(ctx, "alice", "hash", models.RolePatient)
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}
	// Principal claims admin but the stored role is patient.
	pctx := WithPrincipal(ctx, &Principal{UserID: u.ID, Login: "alice", Role: models.RoleAdmin})
	if _, err := RequireAdmin(pctx, users); status.Code(err) != codes.PermissionDenied {
		t.Fatalf("expected PermissionDenied for non-admin role, got %v", err)
	}

	if _, err := d.ExecContext(ctx, `UPDATE users SET role = ? WHERE id = ?`, string(models.RoleAdmin), u.ID); err != nil {
		t.Fatalf("update role: %v", err)
	}
	if _, err := RequireAdmin(pctx, users); err != nil {
		t.Fatalf("RequireAdmin real admin: %v", err)
	}

	gone := WithPrincipal(ctx, &Principal{UserID: u.ID + 100, Login: "ghost", Role: models.RoleAdmin})
	if _, err := RequireAdmin(gone, users); status.Code(err) != codes.PermissionDenied {
		t.Fatalf("expected PermissionDenied for missing user, got %v", err)
	}
}

func TestUnaryAuthInterceptor(t *testing.T) {
	secret := "s3cr3t"
	interceptor := NewUnaryAuthInterceptor(secret, "/health")

	// Allowlisted path: no header, handler executes without a principal.
	hCalled := false
	_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/health"}, func(ctx context.Context, req any) (any, error) {
		hCalled = true
		if _, ok := FromContext(ctx); ok {
			t.Fatalf("expected no principal on allowlisted path")
		}
		return 123, nil
	})
	if err != nil || !hCalled {
		t.Fatalf("allowlisted handler err=%v called=%v", err, hCalled)
	}

	tok := testutil.GenerateJWTHS256(t, secret, 7, "bob", "doctor")
	ctx := testutil.CtxWithBearer(context.Background(), tok)
	_, err = interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/svc/Op"}, func(ctx context.Context, req any) (any, error) {
		p, ok := FromContext(ctx)
		if !ok || p.UserID != 7 || p.Login != "bob" || p.Role != models.RoleDoctor {
			t.Fatalf("principal not injected: %+v ok=%v", p, ok)
		}
		return nil, nil
	})
	if err != nil {
		t.Fatalf("interceptor auth path: %v", err)
	}

	_, err = interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/svc/Op"}, func(ctx context.Context, req any) (any, error) {
		t.Fatalf("handler must not run without a token")
		return nil, nil
	})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}
}
