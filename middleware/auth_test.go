package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blogicum/services"
	"blogicum/utils"

	"github.com/gin-gonic/gin"
)

type knownUsers map[uint]bool

func (k knownUsers) Exists(id uint) (bool, error) {
	return k[id], nil
}

func newAuthRouter(blacklist services.TokenBlacklist, accounts Accounts) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	whoami := func(c *gin.Context) {
		id, _ := c.Get(UserIDKey)
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	}
	r.GET("/private", AuthRequired(blacklist, accounts), whoami)
	r.GET("/public", OptionalAuth(blacklist, accounts), whoami)
	return r
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	blacklist := services.NewMemoryTokenBlacklist()
	r := newAuthRouter(blacklist, nil)

	token, err := utils.GenerateJWT(42)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"garbage", "not-a-jwt", http.StatusUnauthorized},
		{"valid", token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := get(r, "/private", tt.token); w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}

	claims, err := utils.ValidateJWT(token)
	if err != nil {
		t.Fatalf("ValidateJWT() error = %v", err)
	}
	blacklist.Revoke(context.Background(), claims.ID, time.Now().Add(time.Hour))

	if w := get(r, "/private", token); w.Code != http.StatusUnauthorized {
		t.Errorf("revoked token status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestOptionalAuth(t *testing.T) {
	r := newAuthRouter(nil, nil)

	if w := get(r, "/public", ""); w.Code != http.StatusOK || w.Body.String() != `{"user_id":null}` {
		t.Errorf("anonymous = %d %s, want 200 with no user", w.Code, w.Body.String())
	}
	if w := get(r, "/public", "broken"); w.Code != http.StatusOK || w.Body.String() != `{"user_id":null}` {
		t.Errorf("bad token = %d %s, want 200 with no user", w.Code, w.Body.String())
	}

	token, _ := utils.GenerateJWT(7)
	if w := get(r, "/public", token); w.Body.String() != `{"user_id":7}` {
		t.Errorf("valid token body = %s, want user 7", w.Body.String())
	}
}

func TestAuth_DeletedUser(t *testing.T) {
	r := newAuthRouter(services.NewMemoryTokenBlacklist(), knownUsers{1: true})

	live, _ := utils.GenerateJWT(1)
	gone, _ := utils.GenerateJWT(2)

	if w := get(r, "/private", live); w.Code != http.StatusOK {
		t.Errorf("existing user status = %d, want %d", w.Code, http.StatusOK)
	}
	if w := get(r, "/private", gone); w.Code != http.StatusUnauthorized {
		t.Errorf("deleted user status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if w := get(r, "/public", gone); w.Code != http.StatusOK || w.Body.String() != `{"user_id":null}` {
		t.Errorf("deleted user on optional route = %d %s, want 200 with no user", w.Code, w.Body.String())
	}
}

func TestOnlyAuthor(t *testing.T) {
	gin.SetMode(gin.TestMode)

	lookup := func(c *gin.Context) (uint, error) {
		switch c.Param("id") {
		case "1":
			return 10, nil
		case "2":
			return 0, errors.New("database is down")
		}
		return 0, services.ErrNotFound
	}
	asUser := func(id uint) gin.HandlerFunc {
		return func(c *gin.Context) { c.Set(UserIDKey, id) }
	}
	redirect := func(c *gin.Context) string { return "/things/" + c.Param("id") }

	tests := []struct {
		name     string
		userID   uint
		path     string
		want     int
		location string
	}{
		{"author", 10, "/things/1", http.StatusNoContent, ""},
		{"someone else", 11, "/things/1", http.StatusFound, "/things/1"},
		{"missing", 10, "/things/9", http.StatusNotFound, ""},
		{"lookup failure", 10, "/things/2", http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.PUT("/things/:id", asUser(tt.userID), OnlyAuthor(lookup, redirect), func(c *gin.Context) {
				c.Status(http.StatusNoContent)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, tt.path, nil))

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
			if got := w.Header().Get("Location"); got != tt.location {
				t.Errorf("Location = %q, want %q", got, tt.location)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"http://allowed.test"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://allowed.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://allowed.test" {
		t.Errorf("Allow-Origin = %q, want the request origin", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin = %q for a foreign origin, want none", got)
	}
}

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}
