// Package metrics 提供店面服务的 Prometheus 指标与 Gin 中间件
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "corepnl"

// Metrics 指标集合
type Metrics struct {
	// HTTP 请求计数
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP 请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// 加入购物车结果：added, duplicate, purchased
	CartAdditionsTotal *prometheus.CounterVec
	// 结账结果：committed, failed, empty
	CheckoutsTotal *prometheus.CounterVec
	// 结账成交的条目数
	CheckoutItemsTotal prometheus.Counter
	// 登录结果：success, invalid, error, limited
	LoginsTotal *prometheus.CounterVec
	// 目录加载失败次数，按集合区分
	CatalogLoadFailures *prometheus.CounterVec
	// 活跃访问会话数
	ActiveVisits prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New 创建并注册指标；reg 为 nil 时使用独立的 registry
func New(reg *prometheus.Registry, serviceName string) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "http_requests_total",
			Help:        "Total HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		CartAdditionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "cart_additions_total",
			Help:        "Add-to-cart attempts by outcome",
			ConstLabels: constLabels,
		}, []string{"result"}),
		CheckoutsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "checkouts_total",
			Help:        "Checkout attempts by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome", "mode"}),
		CheckoutItemsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "checkout_items_total",
			Help:        "Items committed by successful checkouts",
			ConstLabels: constLabels,
		}),
		LoginsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "logins_total",
			Help:        "Login attempts by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		CatalogLoadFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "catalog_load_failures_total",
			Help:        "Catalog collection load failures",
			ConstLabels: constLabels,
		}, []string{"collection"}),
		ActiveVisits: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "active_visits",
			Help:        "Number of live storefront visits",
			ConstLabels: constLabels,
		}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.CartAdditionsTotal,
		m.CheckoutsTotal,
		m.CheckoutItemsTotal,
		m.LoginsTotal,
		m.CatalogLoadFailures,
		m.ActiveVisits,
	)
	return m
}

// Handler 返回 /metrics 处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// GinMiddleware 记录请求计数与耗时，route 使用注册时的路径模板
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
