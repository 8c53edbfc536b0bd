package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseMetaFlowsToHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(WithResponseMeta())
	r.GET("/lookup", func(c *gin.Context) {
		SetCacheHit(c, true)
		meta := ExtractMeta(c)
		require.NotNil(t, meta)
		meta["processing_time_ms"] = int64(3)
		c.JSON(http.StatusOK, gin.H{"meta": meta})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/lookup", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"cache_hit":true`)
	assert.Contains(t, w.Body.String(), `"processing_time_ms":3`)
}

func TestExtractMetaWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, ExtractMeta(c))
}
