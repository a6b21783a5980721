package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/autoclock/scheduler/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{errors.Wrap(errors.ErrNotFound, "user 1"), http.StatusNotFound, "NOT_FOUND"},
		{gorm.ErrRecordNotFound, http.StatusNotFound, "NOT_FOUND"},
		{errors.WithStack(gorm.ErrDuplicatedKey), http.StatusConflict, "DUPLICATE"},
		{errors.Wrapf(errors.ErrInvalidArgument, "gps %q", "x"), http.StatusBadRequest, "INVALID_ARGUMENT"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		status, resp := Classify(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, resp.Code)
	}
}

func TestErrorHandlingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandlingMiddleware(zaptest.NewLogger(t)))
	r.GET("/missing", func(c *gin.Context) {
		_ = c.Error(errors.Wrap(errors.ErrNotFound, "task"))
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("kaboom")
	})
	r.GET("/ok", func(c *gin.Context) {
		c.String(http.StatusOK, "fine")
	})

	for path, want := range map[string]int{
		"/missing": http.StatusNotFound,
		"/panic":   http.StatusInternalServerError,
		"/ok":      http.StatusOK,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Code, path)
	}
}

func TestCorsAllowsConfiguredOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Cors([]string{"http://admin.local"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://admin.local")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "http://admin.local", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.local")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
