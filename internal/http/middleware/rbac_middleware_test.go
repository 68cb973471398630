package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/schoolsuite/institute-admin-api/internal/security"
	servicegomock "github.com/schoolsuite/institute-admin-api/internal/service/gomock"
)

func requestWithClaims(claims *security.Claims) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return req.WithContext(context.WithValue(req.Context(), ClaimsContextKey, claims))
}

func TestRequirePermissionMissingClaims(t *testing.T) {
	ctrl := gomock.NewController(t)
	authorizer := servicegomock.NewMockRBACAuthorizer(ctrl)
	mw := RequirePermission(authorizer, nil, "view_feehead")

	rr := httptest.NewRecorder()
	mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("expected middleware to block request")
	})).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}

func TestRequirePermissionDenied(t *testing.T) {
	ctrl := gomock.NewController(t)
	authorizer := servicegomock.NewMockRBACAuthorizer(ctrl)
	resolver := servicegomock.NewMockPermissionResolver(ctrl)
	resolver.EXPECT().ResolvePermissions(gomock.Any(), gomock.Any()).Return([]string{"view_event"}, nil)
	authorizer.EXPECT().HasPermission([]string{"view_event"}, "delete_feehead").Return(false)
	mw := RequirePermission(authorizer, resolver, "delete_feehead")

	rr := httptest.NewRecorder()
	mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("expected middleware to block request")
	})).ServeHTTP(rr, requestWithClaims(&security.Claims{GroupID: 3}))

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, rr.Code)
	}
}

func TestRequirePermissionResolverError(t *testing.T) {
	ctrl := gomock.NewController(t)
	authorizer := servicegomock.NewMockRBACAuthorizer(ctrl)
	resolver := servicegomock.NewMockPermissionResolver(ctrl)
	resolver.EXPECT().ResolvePermissions(gomock.Any(), gomock.Any()).Return(nil, errors.New("resolver unavailable"))
	authorizer.EXPECT().HasPermission(gomock.Any(), gomock.Any()).Times(0)
	mw := RequirePermission(authorizer, resolver, "view_feehead")

	rr := httptest.NewRecorder()
	mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("expected middleware to block request")
	})).ServeHTTP(rr, requestWithClaims(&security.Claims{GroupID: 3}))

	// An outage must read as unavailable, never as forbidden.
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, rr.Code)
	}
}

func TestRequirePermissionAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	authorizer := servicegomock.NewMockRBACAuthorizer(ctrl)
	resolver := servicegomock.NewMockPermissionResolver(ctrl)
	resolver.EXPECT().ResolvePermissions(gomock.Any(), gomock.Any()).Return([]string{"view_feehead"}, nil)
	authorizer.EXPECT().HasPermission([]string{"view_feehead"}, "view_feehead").Return(true)
	mw := RequirePermission(authorizer, resolver, "view_feehead")

	rr := httptest.NewRecorder()
	called := false
	mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	})).ServeHTTP(rr, requestWithClaims(&security.Claims{GroupID: 3}))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !called {
		t.Fatal("expected wrapped handler to be called")
	}
}

func TestRequirePermissionSuperadminBypass(t *testing.T) {
	ctrl := gomock.NewController(t)
	authorizer := servicegomock.NewMockRBACAuthorizer(ctrl)
	authorizer.EXPECT().HasPermission(gomock.Any(), gomock.Any()).Times(0)
	mw := RequirePermission(authorizer, nil, "delete_group")

	rr := httptest.NewRecorder()
	called := false
	mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	})).ServeHTTP(rr, requestWithClaims(&security.Claims{IsSuperAdmin: true}))

	if rr.Code != http.StatusOK || !called {
		t.Fatalf("expected superadmin to pass, status=%d called=%v", rr.Code, called)
	}
}

func TestRequireSuperAdmin(t *testing.T) {
	rr := httptest.NewRecorder()
	RequireSuperAdmin(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("expected middleware to block request")
	})).ServeHTTP(rr, requestWithClaims(&security.Claims{}))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, rr.Code)
	}

	rr = httptest.NewRecorder()
	called := false
	RequireSuperAdmin(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	})).ServeHTTP(rr, requestWithClaims(&security.Claims{IsSuperAdmin: true}))
	if rr.Code != http.StatusOK || !called {
		t.Fatalf("expected superadmin to pass, status=%d called=%v", rr.Code, called)
	}
}
