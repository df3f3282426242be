package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRequestID_GeneratesWhenAbsent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if rid := w.Header().Get("X-Request-ID"); rid == "" {
		t.Fatalf("expected a generated request id")
	}
}

func TestRequestID_PropagatesIncoming(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "client-supplied-id")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if rid := w.Header().Get("X-Request-ID"); rid != "client-supplied-id" {
		t.Fatalf("request id = %q, want the client's", rid)
	}
}

func TestLogger_AttachesRequestScopedLogger(t *testing.T) {
	buf := captureLogs(t)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Logger())
	r.GET("/cards", func(c *gin.Context) {
		lg := LoggerFrom(c)
		lg.Info().Str("card_id", "c1").Msg("handled")
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cards", nil))

	out := buf.String()
	if !strings.Contains(out, `"card_id":"c1"`) {
		t.Fatalf("request-scoped field missing: %s", out)
	}
	if !strings.Contains(out, `"path":"/cards"`) {
		t.Fatalf("access log missing route: %s", out)
	}
}

func TestLoggerFrom_WithoutMiddlewareFallsBack(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if lg := LoggerFrom(c); lg == nil {
		t.Fatalf("fallback logger must never be nil")
	}
}

func TestRecovery_PanicBecomesJSON500(t *testing.T) {
	captureLogs(t) // keep the stack trace out of test output

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/panic", func(*gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["code"] != "internal_error" {
		t.Fatalf("code = %q, want internal_error", body["code"])
	}
	if strings.Contains(w.Body.String(), "kaboom") {
		t.Fatalf("panic value leaked to client: %s", w.Body.String())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abcd…" {
		t.Fatalf("got %q", got)
	}
	if got := truncate("abc", 4); got != "abc" {
		t.Fatalf("got %q", got)
	}
	if got := truncate("abc", 0); got != "abc" {
		t.Fatalf("max <= 0 must disable truncation, got %q", got)
	}
}
