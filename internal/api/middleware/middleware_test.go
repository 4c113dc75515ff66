package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/hirex/internal/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func whoami(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id"), "role": c.GetString("role")})
}

func TestJWTAuth(t *testing.T) {
	tokens := auth.NewTokens("secret", "hirex", time.Hour)
	r := gin.New()
	r.GET("/me", JWTAuth(tokens), whoami)

	good, _, err := tokens.Issue("u1", "employer")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"empty bearer", "Bearer   ", http.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"valid", "Bearer " + good, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				var body map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, "u1", body["user_id"])
				assert.Equal(t, "employer", body["role"])
			}
		})
	}
}

func TestJWTAuthQueryTokenOnlyForWebsocket(t *testing.T) {
	tokens := auth.NewTokens("secret", "", time.Hour)
	raw, _, _ := tokens.Issue("u1", "employer")
	r := gin.New()
	r.GET("/ws", JWTAuth(tokens), whoami)

	req := httptest.NewRequest(http.MethodGet, "/ws?token="+raw, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/ws?token="+raw, nil)
	req.Header.Set("Upgrade", "websocket")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalJWT(t *testing.T) {
	tokens := auth.NewTokens("secret", "", time.Hour)
	r := gin.New()
	r.GET("/maybe", OptionalJWT(tokens), whoami)

	req := httptest.NewRequest(http.MethodGet, "/maybe", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"","role":""}`, w.Body.String())
}

func withRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if role != "" {
			c.Set("role", role)
		}
		c.Next()
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		role   string
		status int
	}{
		{"employer", http.StatusOK},
		{"Employer", http.StatusOK},
		{"admin", http.StatusOK},
		{"user", http.StatusForbidden},
		{"", http.StatusForbidden},
	}
	for _, tt := range tests {
		r := gin.New()
		r.GET("/x", withRole(tt.role), RequireEmployer(), whoami)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, tt.status, w.Code, "role %q", tt.role)
	}
}

// memCounter ignores the window bucket so the test cannot straddle a minute boundary.
type memCounter struct {
	n    int64
	keys []string
	err  error
}

func (m *memCounter) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.keys = append(m.keys, key)
	m.n++
	return m.n, nil
}

func TestRateLimit(t *testing.T) {
	counter := &memCounter{}
	r := gin.New()
	r.POST("/api/parseResume", RateLimit(counter, "parse", 2, time.Minute, quietLogger()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := []int{}
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/parseResume", nil))
		codes = append(codes, w.Code)
		if i == 2 {
			assert.Equal(t, "60", w.Header().Get("Retry-After"))
			assert.Contains(t, w.Body.String(), "RATE_LIMITED")
		}
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
	assert.Contains(t, counter.keys[0], "ratelimit:parse:")
}

func TestRateLimitFailsOpen(t *testing.T) {
	counter := &memCounter{err: errors.New("redis down")}
	r := gin.New()
	r.POST("/p", RateLimit(counter, "parse", 1, time.Minute, quietLogger()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/p", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.JSONFormatter{})

	r := gin.New()
	r.Use(RequestLogger(l))
	r.GET("/jobs/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	req := httptest.NewRequest(http.MethodGet, "/jobs/42", nil)
	req.Header.Set("X-Request-Id", "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-1", w.Header().Get("X-Request-Id"))
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warning", line["level"])
	assert.Equal(t, "/jobs/:id", line["path"])
	assert.Equal(t, float64(404), line["status"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/jobs/7", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestMaxBodySize(t *testing.T) {
	r := gin.New()
	r.POST("/u", MaxBodySize(8), func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/u", bytes.NewBufferString("0123456789")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/u", bytes.NewBufferString("0123")))
	assert.Equal(t, http.StatusOK, w.Code)
}
