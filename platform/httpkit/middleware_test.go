package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"leadradar_backend/platform/apperr"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

type testJWTConfig struct{}

func (testJWTConfig) GetJWTAccessSecret() string { return "test-secret" }

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	protected := r.Group("/", AuthRequired(testJWTConfig{}))
	protected.GET("/me", func(c *gin.Context) {
		id, ok := MustGetIdentity(c)
		if !ok {
			return
		}
		OK(c, gin.H{"userId": id.UserID.String(), "admin": id.HasRole(RoleAdmin)})
	})
	protected.GET("/admin", RequireRole(RoleAdmin), func(c *gin.Context) {
		OK(c, gin.H{"ok": true})
	})
	return r
}

func doRequest(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	userID := uuid.New()
	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"valid", signToken(t, "test-secret", jwt.MapClaims{"type": "access", "sub": userID.String(), "exp": exp}), http.StatusOK},
		{"wrong secret", signToken(t, "other", jwt.MapClaims{"type": "access", "sub": userID.String(), "exp": exp}), http.StatusUnauthorized},
		{"refresh token", signToken(t, "test-secret", jwt.MapClaims{"type": "refresh", "sub": userID.String(), "exp": exp}), http.StatusUnauthorized},
		{"bad subject", signToken(t, "test-secret", jwt.MapClaims{"type": "access", "sub": "nope", "exp": exp}), http.StatusUnauthorized},
		{"expired", signToken(t, "test-secret", jwt.MapClaims{"type": "access", "sub": userID.String(), "exp": time.Now().Add(-time.Hour).Unix()}), http.StatusUnauthorized},
	}

	r := newTestRouter()
	for _, tt := range tests {
		w := doRequest(r, "/me", tt.token)
		if w.Code != tt.status {
			t.Fatalf("%s: status = %d, want %d (%s)", tt.name, w.Code, tt.status, w.Body.String())
		}
		if w.Header().Get(RequestIDHeader) == "" {
			t.Fatalf("%s: missing request id header", tt.name)
		}
	}
}

func TestRequireRole(t *testing.T) {
	r := newTestRouter()
	exp := time.Now().Add(time.Hour).Unix()

	member := signToken(t, "test-secret", jwt.MapClaims{"type": "access", "sub": uuid.NewString(), "exp": exp, "roles": []string{"member"}})
	if w := doRequest(r, "/admin", member); w.Code != http.StatusForbidden {
		t.Fatalf("member: status = %d, want 403", w.Code)
	}

	admin := signToken(t, "test-secret", jwt.MapClaims{"type": "access", "sub": uuid.NewString(), "exp": exp, "roles": []string{"member", "admin"}})
	if w := doRequest(r, "/admin", admin); w.Code != http.StatusOK {
		t.Fatalf("admin: status = %d, want 200", w.Code)
	}
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewIPRateLimiter(rate.Limit(0.001), 2, nil).RateLimit())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, doRequest(r, "/", "").Code)
	}
	if codes[0] != http.StatusNoContent || codes[1] != http.StatusNoContent || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}
}

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		err    error
		status int
	}{
		{apperr.NotFound("lead not found"), http.StatusNotFound},
		{apperr.Validation("bad analysis"), http.StatusBadRequest},
		{apperr.Unavailable("queue not configured"), http.StatusServiceUnavailable},
		{http.ErrHandlerTimeout, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		if !HandleError(c, tt.err) {
			t.Fatalf("%v: expected the error to be handled", tt.err)
		}
		if w.Code != tt.status {
			t.Fatalf("%v: status = %d, want %d", tt.err, w.Code, tt.status)
		}
	}
}
