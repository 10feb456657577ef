package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"aiqr-api/apperror"
	"aiqr-api/token"

	"github.com/gin-gonic/gin"
)

var discard = slog.New(slog.DiscardHandler)

func init() { gin.SetMode(gin.TestMode) }

type errorBody struct {
	Success bool   `json:"success"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(Recovery(discard), ErrorHandler(discard))
	r.NoRoute(NotFound)
	return r
}

func do(t *testing.T, r http.Handler, req *http.Request) (*httptest.ResponseRecorder, errorBody) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body errorBody
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode %q: %v", w.Body.String(), err)
		}
	}
	return w, body
}

func TestAuthorized(t *testing.T) {
	tokens, err := token.NewService(token.Secrets{Authorizer: "a", Vendor: "v", Consumer: "c"})
	if err != nil {
		t.Fatal(err)
	}
	vendorToken, _ := tokens.Issue("restaurant-9", token.Vendor)
	consumerToken, _ := tokens.Issue("consumer-1", token.Consumer)

	r := newEngine()
	r.GET("/vendor/me", Authorized(tokens, token.Vendor, func(c *gin.Context, claims *token.Claims) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": claims.SubjectID()})
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"no scheme", vendorToken, http.StatusUnauthorized},
		{"wrong role", "Bearer " + consumerToken, http.StatusUnauthorized},
		{"ok", "Bearer " + vendorToken, http.StatusOK},
		{"lowercase scheme", "bearer " + vendorToken, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/vendor/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w, body := do(t, r, req)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.status, w.Body.String())
			}
			if tt.status == http.StatusOK && body.Message != "restaurant-9" {
				t.Errorf("subject = %q", body.Message)
			}
			if tt.status == http.StatusUnauthorized && body.Kind != "INVALID_AUTHORIZATION_EXCEPTION" {
				t.Errorf("kind = %q", body.Kind)
			}
		})
	}
}

func TestErrorHandlerHidesInternals(t *testing.T) {
	r := newEngine()
	r.GET("/db", func(c *gin.Context) {
		c.Error(apperror.Database("insert failed", errors.New("UNIQUE constraint failed: secret_table")))
	})
	r.GET("/plain", func(c *gin.Context) {
		c.Error(errors.New("raw driver error"))
	})
	r.GET("/conflict", func(c *gin.Context) {
		c.Error(apperror.Conflict("Already Registered, Please login!").WithStatus(http.StatusForbidden))
	})

	w, body := do(t, r, httptest.NewRequest(http.MethodGet, "/db", nil))
	if w.Code != http.StatusInternalServerError || body.Kind != "DATABASE_EXCEPTION" || body.Message != "Something went wrong, please try again later" {
		t.Errorf("db: %d %+v", w.Code, body)
	}
	w, body = do(t, r, httptest.NewRequest(http.MethodGet, "/plain", nil))
	if w.Code != http.StatusInternalServerError || body.Kind != "SERVER_EXCEPTION" || body.Success {
		t.Errorf("plain: %d %+v", w.Code, body)
	}
	w, body = do(t, r, httptest.NewRequest(http.MethodGet, "/conflict", nil))
	if w.Code != http.StatusForbidden || body.Kind != "USER_EXCEPTION" || body.Message != "Already Registered, Please login!" {
		t.Errorf("conflict: %d %+v", w.Code, body)
	}
}

func TestRecoveryAndNotFound(t *testing.T) {
	r := newEngine()
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	w, body := do(t, r, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if w.Code != http.StatusInternalServerError || body.Kind != "SERVER_EXCEPTION" {
		t.Errorf("panic: %d %+v", w.Code, body)
	}
	w, body = do(t, r, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	if w.Code != http.StatusNotFound || body.Message != "URL not found" {
		t.Errorf("no route: %d %+v", w.Code, body)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS("http://127.0.0.1:3001"))
	r.GET("/healthcheck", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/healthcheck", nil)
	req.Header.Set("Origin", "http://127.0.0.1:3001")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://127.0.0.1:3001" {
		t.Errorf("allow origin = %q", got)
	}
}
