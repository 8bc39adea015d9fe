package auth

import (
	"context"
	"testing"
	"time"

	"google.golang.org/grpc/metadata"

	"clinicAppointments/internal/testutil"
	"clinicAppointments/models"
)

const testSecret = "test-secret"

func TestParseFromMD_ValidBearer(t *testing.T) {
	tok := testutil.GenerateJWTHS256(t, testSecret, 3, "alice", "patient")
	ctx := testutil.CtxWithBearer(context.Background(), tok)
	p, err := ParseFromMD(ctx, testSecret)
	if err != nil {
		t.Fatalf("ParseFromMD: %v", err)
	}
	if p.UserID != 3 || p.Login != "alice" || p.Role != models.RolePatient {
		t.Fatalf("principal mismatch: %+v", p)
	}
}

func TestParseFromMD_MissingHeader(t *testing.T) {
	if _, err := ParseFromMD(context.Background(), testSecret); err == nil {
		t.Fatalf("expected error for missing metadata")
	}
}

func TestParseFromMD_InvalidScheme(t *testing.T) {
	tok := testutil.GenerateJWTHS256(t, testSecret, 3, "bob", "doctor")
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Basic "+tok))
	if _, err := ParseFromMD(ctx, testSecret); err == nil {
		t.Fatalf("expected error for non-Bearer scheme")
	}
	if _, err := parseJWT(tok, "wrong"); err == nil {
		t.Fatalf("expected error for wrong secret")
	}
}

func TestParseJWT_ClaimsValidation(t *testing.T) {
	tok := testutil.GenerateJWTHS256(t, testSecret, 0, "", "")
	if _, err := parseJWT(tok, testSecret); err == nil {
		t.Fatalf("expected invalid claims error")
	}
	tok = testutil.GenerateJWTHS256(t, testSecret, 5, "eve", "superuser")
	if _, err := parseJWT(tok, testSecret); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestIssueToken_RoundTrip(t *testing.T) {
	payload := models.AuthPayload{UserID: 9, Role: models.RoleAdmin, Login: "root"}
	tok, err := IssueToken(testSecret, payload, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	p, err := parseJWT(tok, testSecret)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if p.UserID != 9 || p.Login != "root" || p.Role != models.RoleAdmin {
		t.Fatalf("principal mismatch: %+v", p)
	}

	other, err := IssueToken(testSecret, payload, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if other == tok {
		t.Fatalf("expected distinct token ids")
	}
}

func TestIssueToken_Expired(t *testing.T) {
	tok, err := IssueToken(testSecret, models.AuthPayload{UserID: 1, Role: models.RolePatient, Login: "p"}, -time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := parseJWT(tok, testSecret); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
	if _, err := IssueToken("", models.AuthPayload{}, time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
