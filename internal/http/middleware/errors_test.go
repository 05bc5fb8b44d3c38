package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tbourn/go-account-api/internal/failure"
)

func serveJSON(t *testing.T, r http.Handler, method, path string) (int, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	var body map[string]any
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON %q: %v", w.Body.String(), err)
		}
	}
	return w.Code, body
}

func TestErrorTranslator_RendersLastErrorWithViewModel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), ErrorTranslator())

	users := r.Group("/users", ViewModel("User"))
	users.GET("/:id", func(c *gin.Context) {
		_ = c.Error(errors.New("first, ignored"))
		_ = c.Error(failure.NewNotFound("", ""))
	})
	r.GET("/plain", func(c *gin.Context) {
		_ = c.Error(failure.NewNotFound("", ""))
	})

	code, body := serveJSON(t, r, http.MethodGet, "/users/x")
	if code != http.StatusNotFound || body["User"] != "Not found." || len(body) != 1 {
		t.Fatalf("got %d %v", code, body)
	}

	code, body = serveJSON(t, r, http.MethodGet, "/plain")
	if code != http.StatusNotFound || body["error"] != "Not found." {
		t.Fatalf("got %d %v", code, body)
	}
}

func TestErrorTranslator_InternalErrorCarriesRequestIDAndLogs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID(), Logger(), ErrorTranslator())
	r.GET("/boom", func(c *gin.Context) { _ = c.Error(errors.New("db exploded")) })

	before := testutil.ToFloat64(apiErrors.WithLabelValues("unclassified", "500"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(requestIDHeader, "rid-9")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["request_id"] != "rid-9" || body["code"] != "internal_error" || body["message"] != "internal server error" {
		t.Fatalf("unexpected body: %v", body)
	}
	logs := buf.String()
	if !strings.Contains(logs, "request failed") || !strings.Contains(logs, "db exploded") || !strings.Contains(logs, `"status":500`) {
		t.Fatalf("expected failure and access logs, got:\n%s", logs)
	}
	if got := testutil.ToFloat64(apiErrors.WithLabelValues("unclassified", "500")); got != before+1 {
		t.Fatalf("api_errors_total = %v; want %v", got, before+1)
	}
}

func TestErrorTranslator_LeavesWrittenResponsesAlone(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorTranslator())
	r.GET("/written", func(c *gin.Context) {
		c.JSON(http.StatusTeapot, gin.H{"mine": true})
		_ = c.Error(failure.NewNotFound("User", ""))
	})
	r.GET("/clean", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	code, body := serveJSON(t, r, http.MethodGet, "/written")
	if code != http.StatusTeapot || body["mine"] != true {
		t.Fatalf("got %d %v", code, body)
	}
	code, body = serveJSON(t, r, http.MethodGet, "/clean")
	if code != http.StatusOK || body["ok"] != true {
		t.Fatalf("got %d %v", code, body)
	}
}

func TestTranslationContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	ctx := TranslationContext(c)
	if ctx.RequestID != "" || ctx.Model != nil {
		t.Fatalf("expected empty context, got %+v", ctx)
	}

	c.Set(requestIDKey, "rid")
	c.Set(ctxKeyModel, "not a model")
	ctx = TranslationContext(c)
	if ctx.RequestID != "rid" || ctx.Model != nil {
		t.Fatalf("unexpected context %+v", ctx)
	}
}
