package services

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "icon_keeper_requests_total",
			Help: "Total requests handled, by operation",
		},
		[]string{"operation"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "icon_keeper_request_duration_seconds",
			Help:    "Duration of handled requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	errorCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "icon_keeper_request_errors_total",
			Help: "Failed requests, by operation",
		},
		[]string{"operation"},
	)

	probeCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "icon_keeper_probe_total",
			Help: "Health probe results",
		},
		[]string{"outcome"},
	)

	serverStartCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "icon_keeper_server_starts_total",
			Help: "Supervised icon server start attempts",
		},
		[]string{"outcome"},
	)

	// healthz接口展示用的本地计数器
	totalRequests int64
	totalErrors   int64
)

func init() {
	prometheus.MustRegister(requestCount)
	prometheus.MustRegister(requestDuration)
	prometheus.MustRegister(errorCount)
	prometheus.MustRegister(probeCount)
	prometheus.MustRegister(serverStartCount)
}

// IncrementRequestCount 增加请求计数
func IncrementRequestCount(operation string) {
	requestCount.WithLabelValues(operation).Inc()
	atomic.AddInt64(&totalRequests, 1)
}

// RecordRequestDuration 记录请求处理时间
func RecordRequestDuration(operation string, seconds float64) {
	requestDuration.WithLabelValues(operation).Observe(seconds)
}

// IncrementErrorCount 增加出错请求计数
func IncrementErrorCount(operation string) {
	errorCount.WithLabelValues(operation).Inc()
	atomic.AddInt64(&totalErrors, 1)
}

// RecordProbe 记录一次健康探测结果
func RecordProbe(healthy bool) {
	if healthy {
		probeCount.WithLabelValues("healthy").Inc()
	} else {
		probeCount.WithLabelValues("unhealthy").Inc()
	}
}

// RecordServerStart 记录一次托管启动的结果
func RecordServerStart(ok bool) {
	if ok {
		serverStartCount.WithLabelValues("success").Inc()
	} else {
		serverStartCount.WithLabelValues("failure").Inc()
	}
}

// GetTotalRequestCount 获取总请求数
func GetTotalRequestCount() int64 {
	return atomic.LoadInt64(&totalRequests)
}

// GetTotalErrorCount 获取出错请求数
func GetTotalErrorCount() int64 {
	return atomic.LoadInt64(&totalErrors)
}
