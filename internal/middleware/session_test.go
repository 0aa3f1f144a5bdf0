package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRequireActiveSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	active := false

	r := gin.New()
	r.GET("/drafts",
		RequireActiveSession(func() bool { return active }),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/drafts", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	active = true
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/drafts", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
