package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"mindfolk/internal/domain"
	"mindfolk/internal/service"
)

func newTestSessions() *service.SessionService {
	return service.NewSessionService("secret", 15*time.Minute, time.Hour, service.NewMemoryRefreshStore())
}

func bearerFor(t *testing.T, sessions *service.SessionService, id string, role domain.Role) string {
	t.Helper()
	tokens, err := sessions.Issue(context.Background(), domain.User{ID: id, Role: role})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return "Bearer " + tokens.AccessToken
}

func TestRequireSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sessions := newTestSessions()
	pair, err := sessions.Issue(context.Background(), domain.User{ID: "c2", Role: domain.RoleClient})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	r := gin.New()
	r.GET("/whoami", RequireSession(sessions), func(c *gin.Context) {
		claims := sessionClaims(c)
		c.JSON(http.StatusOK, gin.H{"uid": claims.UserID, "role": claims.Role})
	})

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"therapist session", bearerFor(t, sessions, "t1", domain.RoleTherapist), http.StatusOK},
		{"lowercase scheme", "bearer " + bearerFor(t, sessions, "c1", domain.RoleClient)[len("Bearer "):], http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"basic scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"refresh token", "Bearer " + pair.RefreshToken, http.StatusUnauthorized},
		{"other secret", bearerFor(t, service.NewSessionService("other", time.Minute, time.Hour, nil), "a1", domain.RoleAdmin), http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d body=%s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sessions := newTestSessions()

	r := gin.New()
	r.GET("/moderation", RequireSession(sessions), RequireRole(domain.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/profile", RequireSession(sessions), RequireRole(domain.RoleTherapist, domain.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/unguarded", RequireRole(domain.RoleClient), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	cases := []struct {
		path string
		role domain.Role
		want int
	}{
		{"/moderation", domain.RoleAdmin, http.StatusOK},
		{"/moderation", domain.RoleClient, http.StatusForbidden},
		{"/moderation", domain.RoleTherapist, http.StatusForbidden},
		{"/profile", domain.RoleTherapist, http.StatusOK},
		{"/profile", domain.RoleAdmin, http.StatusOK},
		{"/profile", domain.RoleClient, http.StatusForbidden},
		{"/unguarded", domain.RoleClient, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		req.Header.Set("Authorization", bearerFor(t, sessions, "u-"+string(tc.role), tc.role))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("%s as %s: expected %d, got %d", tc.path, tc.role, tc.want, rec.Code)
		}
	}
}
