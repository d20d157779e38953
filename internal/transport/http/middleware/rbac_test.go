package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"peopledesk/internal/domain/auth"
)

type fakePermissionStore struct {
	granted map[string]bool
}

func (s *fakePermissionStore) HasPermission(ctx context.Context, roleID, permission string) (bool, error) {
	return s.granted[roleID+":"+permission], nil
}

func requestWithUser(roleID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := WithUser(req.Context(), auth.UserContext{UserID: "u1", RoleID: roleID})
	return req.WithContext(ctx)
}

func TestRequirePermissionAllows(t *testing.T) {
	store := &fakePermissionStore{granted: map[string]bool{"r1:leave.read": true}}
	handler := RequirePermission(store, "leave.read")(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithUser("r1"))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}

func TestRequirePermissionDenies(t *testing.T) {
	store := &fakePermissionStore{granted: map[string]bool{}}
	handler := RequirePermission(store, "leave.approve")(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) { t.Fatal("handler must not run") }))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithUser("r1"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestRequirePermissionNeedsAuthentication(t *testing.T) {
	store := &fakePermissionStore{}
	handler := RequirePermission(store, "leave.read")(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) { t.Fatal("handler must not run") }))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
