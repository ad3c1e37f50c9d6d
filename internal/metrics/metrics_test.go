package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/cv/:variant", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, p := range []string{"/cv/academic", "/cv/professional", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	require.Equal(t, 2, testutil.CollectAndCount(m.ReqDuration))
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.Downloads.WithLabelValues("academic").Inc()
	require.InDelta(t, 1, testutil.ToFloat64(m.Downloads.WithLabelValues("academic")), 0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `folio_cv_downloads_total{variant="academic"} 1`)
}
