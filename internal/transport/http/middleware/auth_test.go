package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"peopledesk/internal/domain/auth"
)

const testSecret = "test-secret"

func protectedHandler(t *testing.T, wantUserID string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUser(r.Context())
		if !ok {
			t.Fatal("expected user in context")
		}
		if user.UserID != wantUserID {
			t.Fatalf("user id = %s, want %s", user.UserID, wantUserID)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthenticateValidToken(t *testing.T) {
	token, err := auth.GenerateToken(testSecret, auth.Claims{
		UserID: "u1", RoleID: "r1", RoleName: auth.RoleEmployee,
	}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	Authenticate(testSecret)(protectedHandler(t, "u1")).ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}

func TestAuthenticateMissingToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	Authenticate(testSecret)(protectedHandler(t, "")).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticateBadToken(t *testing.T) {
	token, err := auth.GenerateToken("other-secret", auth.Claims{UserID: "u1"}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	Authenticate(testSecret)(protectedHandler(t, "")).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
