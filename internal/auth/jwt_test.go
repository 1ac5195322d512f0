package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestVerifier_Parse(t *testing.T) {
	v := NewVerifier(testSecret)

	token := signToken(t, testSecret, Claims{
		Role: "admin",
		StandardClaims: jwt.StandardClaims{
			Subject:   "user-1",
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	})

	claims, err := v.Parse(token)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if claims.Subject != "user-1" || claims.Role != "admin" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestVerifier_Rejects(t *testing.T) {
	v := NewVerifier(testSecret)

	expired := signToken(t, testSecret, Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   "user-1",
			ExpiresAt: time.Now().Add(-time.Hour).Unix(),
		},
	})
	wrongKey := signToken(t, "other-secret", Claims{
		StandardClaims: jwt.StandardClaims{Subject: "user-1"},
	})
	noSubject := signToken(t, testSecret, Claims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	})

	for name, token := range map[string]string{
		"expired":      expired,
		"wrong key":    wrongKey,
		"no subject":   noSubject,
		"garbage":      "not.a.token",
		"empty string": "",
	} {
		if _, err := v.Parse(token); err == nil {
			t.Errorf("%s: expected parse to fail", name)
		}
	}
}

func TestMiddleware(t *testing.T) {
	v := NewVerifier(testSecret)

	var gotUserID, gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
	})
	handler := v.Middleware(next)

	// missing header
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without header, got %d", rec.Code)
	}

	// valid token
	token := signToken(t, testSecret, Claims{
		Role: "user",
		StandardClaims: jwt.StandardClaims{
			Subject:   "user-7",
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	})
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", rec.Code)
	}
	if gotUserID != "user-7" || gotRole != "user" {
		t.Fatalf("context not populated: user=%q role=%q", gotUserID, gotRole)
	}
}

func TestRequireAdmin(t *testing.T) {
	called := false
	handler := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusForbidden || called {
		t.Fatalf("expected 403 without admin role, got %d", rec.Code)
	}
}
