package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/wyfcoding/corepnl/pkg/metrics"
)

func TestGinMiddleware(t *testing.T) {
	c := qt.New(t)
	gin.SetMode(gin.TestMode)

	m := metrics.New(nil, "storefront-test")
	r := gin.New()
	r.Use(m.GinMiddleware())
	r.GET("/api/v1/catalog/:type/:id/preview", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	for _, path := range []string{"/api/v1/catalog/course/1/preview", "/api/v1/catalog/ebook/2/preview", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	c.Assert(testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/catalog/:type/:id/preview", "200")), qt.Equals, 2.0)
	c.Assert(testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")), qt.Equals, 1.0)

	m.CheckoutsTotal.WithLabelValues("committed", "simulated").Inc()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(strings.Contains(w.Body.String(), `corepnl_checkouts_total{mode="simulated",outcome="committed",service="storefront-test"} 1`), qt.IsTrue)
}
