package httpserver

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error { return s.err }

func authRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	router, err := buildRouter(zerolog.Nop(), Deps{
		CustomerSvc: &stubCustomerService{customer: sampleCustomer()},
		AuthUsers:   []string{"admin:" + string(hash)},
	})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func basicHeader(user, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+password))
}

func TestBasicAuth_MissingCredentials(t *testing.T) {
	router := authRouter(t)

	rec := serve(router, http.MethodGet, "/customer/abc", "")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get("WWW-Authenticate"), "Basic realm=") {
		t.Fatalf("expected basic challenge, got %q", rec.Header().Get("WWW-Authenticate"))
	}
	if env := decode(t, rec); env.Code != http.StatusUnauthorized || string(env.Payload) != "null" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestBasicAuth_WrongPassword(t *testing.T) {
	router := authRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/customer/abc", nil)
	req.Header.Set("Authorization", basicHeader("admin", "guess"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestBasicAuth_ValidCredentials(t *testing.T) {
	router := authRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/customer/abc", nil)
	req.Header.Set("Authorization", basicHeader("admin", "s3cret"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestBasicAuth_DoesNotGuardOpsRoutes(t *testing.T) {
	router := authRouter(t)
	for _, path := range []string{"/healthz", "/api-docs", "/api-docs/openapi.json"} {
		rec := serve(router, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestParseAccounts_Rejects(t *testing.T) {
	for _, entry := range []string{"admin", "admin:", ":hash", "admin:not-a-bcrypt-hash"} {
		if _, err := parseAccounts([]string{entry}); err == nil {
			t.Fatalf("expected error for %q", entry)
		}
	}
}

func TestParseAccounts_ErrorOmitsEntryContent(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	_, err = parseAccounts([]string{"admin:" + string(hash), "ops hunter2"})
	if err == nil {
		t.Fatalf("expected error for entry without separator")
	}
	if strings.Contains(err.Error(), "hunter2") || strings.Contains(err.Error(), "ops") {
		t.Fatalf("error leaks entry content: %v", err)
	}
	if !strings.Contains(err.Error(), "entry 1") {
		t.Fatalf("expected entry index in error, got %v", err)
	}
}

func TestRequestID_GeneratedAndEchoed(t *testing.T) {
	router := newTestRouter(t, &stubCustomerService{})

	rec := serve(router, http.MethodGet, "/healthz", "")
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Fatalf("expected generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "req-123" {
		t.Fatalf("expected incoming id echoed, got %q", got)
	}
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(zerolog.Nop(), Deps{
		CustomerSvc:        &stubCustomerService{},
		CORSAllowedOrigins: []string{"https://app.example.com"},
	})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("expected origin allowed, got %q", got)
	}
}

func TestReadyz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name  string
		store Pinger
		want  int
	}{
		{"reachable", stubPinger{}, http.StatusOK},
		{"unreachable", stubPinger{err: errors.New("dial tcp: refused")}, http.StatusServiceUnavailable},
		{"unconfigured", nil, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router, err := buildRouter(zerolog.Nop(), Deps{CustomerSvc: &stubCustomerService{}, Store: tc.store})
			if err != nil {
				t.Fatalf("build router: %v", err)
			}
			rec := serve(router, http.MethodGet, "/readyz", "")
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}
